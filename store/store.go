package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/btree"
	"github.com/google/uuid"
)

// JournalName is the file, inside the store directory, holding every command.
const JournalName = "journal"

var (
	ErrClosed = errors.New("store is closed")
	ErrExists = errors.New("store already exists")
)

// Store is a durable key/value map. Writes are appended to a JSON lines
// journal and then applied to an in-memory B-tree ordered by key bytes.
// It is not safe for concurrent use.
type Store struct {
	path    string
	file    *os.File
	size    int64 // journal bytes known to be complete
	items   *btree.BTreeG[*item]
	seq     int64
	options *options
}

type item struct {
	key   []byte
	value []byte
	seq   int64 // position of the last write of this key
}

func lessItem(a, b *item) bool {
	return bytes.Compare(a.key, b.key) < 0
}

type options struct {
	sync        bool
	compression string
}

type Option func(o *options)

// WithSync calls fsync after every put.
func WithSync(sync bool) Option {
	return func(o *options) {
		o.sync = sync
	}
}

// WithCompression selects how new values are written: CompressionNone or
// CompressionSnappy. Existing commands keep their own compression.
func WithCompression(compression string) Option {
	return func(o *options) {
		o.compression = compression
	}
}

// Open opens or creates a store in the directory path and replays its journal.
// A trailing line left incomplete by an interrupted write is dropped.
func Open(path string, opts ...Option) (*Store, error) {

	s, err := newStore(path, opts...)
	if err != nil {
		return nil, err
	}

	filename := filepath.Join(path, JournalName)
	err = repairTail(filename)
	if err != nil {
		return nil, err
	}

	err = s.replay(filename)
	if err != nil {
		return nil, err
	}

	err = s.openJournal(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Create creates an empty store in the directory path. It fails with
// ErrExists if path already holds a journal.
func Create(path string, opts ...Option) (*Store, error) {

	s, err := newStore(path, opts...)
	if err != nil {
		return nil, err
	}

	filename := filepath.Join(path, JournalName)
	err = s.openJournal(filename, os.O_CREATE|os.O_EXCL|os.O_APPEND|os.O_WRONLY)
	if errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("%w: '%s'", ErrExists, path)
	}
	if err != nil {
		return nil, err
	}

	return s, nil
}

func newStore(path string, opts ...Option) (*Store, error) {

	o := &options{
		compression: CompressionNone,
	}
	for _, opt := range opts {
		opt(o)
	}
	if _, err := encodeValue(o.compression, nil); err != nil {
		return nil, err
	}

	err := os.MkdirAll(path, 0755)
	if err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	return &Store{
		path:    path,
		items:   btree.NewG(32, lessItem),
		options: o,
	}, nil
}

func (s *Store) openJournal(filename string, flag int) error {

	f, err := os.OpenFile(filename, flag, 0666)
	if err != nil {
		return fmt.Errorf("open file for write: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat journal: %w", err)
	}

	s.file = f
	s.size = info.Size()
	return nil
}

// repairTail truncates the journal after its last newline. Every command is
// written with a trailing newline, so anything after it is a torn write.
func repairTail(filename string) error {

	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	if len(data) == 0 || data[len(data)-1] == '\n' {
		return nil
	}

	size := bytes.LastIndexByte(data, '\n') + 1
	err = os.Truncate(filename, int64(size))
	if err != nil {
		return fmt.Errorf("truncate torn journal: %w", err)
	}

	return nil
}

func (s *Store) replay(filename string) error {

	f, err := os.OpenFile(filename, os.O_RDONLY|os.O_CREATE, 0666)
	if err != nil {
		return fmt.Errorf("open file for read: %w", err)
	}
	defer f.Close()

	d := jsontext.NewDecoder(f)
	for {
		command := &Command{}
		err := json.UnmarshalDecode(d, command)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("decode json: %w", err)
		}

		switch command.Name {
		case CommandPut:
			payload, err := decodePut(command)
			if err != nil {
				return fmt.Errorf("replay command %s: %w", command.Uuid, err)
			}
			s.apply(payload.Key, payload.Value)
		default:
			return fmt.Errorf("replay command %s: unknown name '%s'", command.Uuid, command.Name)
		}
	}

	return nil
}

func (s *Store) apply(key, value []byte) {
	s.seq++
	s.items.ReplaceOrInsert(&item{
		key:   key,
		value: value,
		seq:   s.seq,
	})
}

// Put persists value under key. Memory is only updated once the command is
// in the journal.
func (s *Store) Put(key, value []byte) error {
	if s.file == nil {
		return ErrClosed
	}

	stored, err := encodeValue(s.options.compression, value)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(&PutPayload{
		Key:         key,
		Value:       stored,
		Compression: s.options.compression,
	})
	if err != nil {
		return fmt.Errorf("json encode payload: %w", err)
	}

	command := &Command{
		Name:      CommandPut,
		Uuid:      uuid.New().String(),
		Timestamp: time.Now().UnixNano(),
		Payload:   payload,
	}

	line, err := json.Marshal(command)
	if err != nil {
		return fmt.Errorf("json encode command: %w", err)
	}
	line = append(line, '\n')

	n, err := s.file.Write(line)
	if err != nil {
		if n > 0 {
			s.file.Truncate(s.size)
		}
		return fmt.Errorf("write journal: %w", err)
	}
	s.size += int64(n)

	if s.options.sync {
		err = s.file.Sync()
		if err != nil {
			return fmt.Errorf("sync journal: %w", err)
		}
	}

	s.apply(bytes.Clone(key), bytes.Clone(value))

	return nil
}

// Get returns a copy of the value stored under key. A missing key is not an
// error.
func (s *Store) Get(key []byte) ([]byte, bool, error) {
	if s.file == nil {
		return nil, false, ErrClosed
	}

	found, ok := s.items.Get(&item{key: key})
	if !ok {
		return nil, false, nil
	}

	return bytes.Clone(found.value), true, nil
}

// Ascend iterates entries in key order until f returns false.
func (s *Store) Ascend(f func(key, value []byte) bool) {
	s.items.Ascend(func(i *item) bool {
		return f(bytes.Clone(i.key), bytes.Clone(i.value))
	})
}

// Sequence iterates entries in the order they were last written until f
// returns false.
func (s *Store) Sequence(f func(key, value []byte) bool) {

	items := make([]*item, 0, s.items.Len())
	s.items.Ascend(func(i *item) bool {
		items = append(items, i)
		return true
	})

	sort.Slice(items, func(a, b int) bool {
		return items[a].seq < items[b].seq
	})

	for _, i := range items {
		if !f(bytes.Clone(i.key), bytes.Clone(i.value)) {
			return
		}
	}
}

func (s *Store) Len() int {
	return s.items.Len()
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
