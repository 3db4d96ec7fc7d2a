package indexer

import (
	"fmt"
	"log/slog"

	"github.com/go-json-experiment/json"
	"github.com/google/btree"

	"github.com/fulldump/colindex/cell"
	"github.com/fulldump/colindex/store"
)

// Indexer keeps a primary store of records and two in-memory secondary
// indexes, one per column, each mapping a value to the key that produced it.
//
// Secondary indexes are single valued: when two records share a column
// value the later upsert wins that index entry, while the primary store
// keeps both records.
//
// An Indexer is not safe for concurrent use.
type Indexer struct {
	records      recordStore
	strIndex     *btree.BTreeG[Entry]
	numIndex     *btree.BTreeG[Entry]
	storeOptions []store.Option
	logger       *slog.Logger
}

type Option func(ix *Indexer)

func WithLogger(l *slog.Logger) Option {
	return func(ix *Indexer) {
		ix.logger = l
	}
}

// WithStoreOptions applies to the primary store and to every exported store.
func WithStoreOptions(options ...store.Option) Option {
	return func(ix *Indexer) {
		ix.storeOptions = append(ix.storeOptions, options...)
	}
}

// New opens or creates the primary store at storePath. Both secondary
// indexes start empty, see Reindex.
func New(storePath string, options ...Option) (*Indexer, error) {

	ix := newIndexer(nil, options...)

	s, err := store.Open(storePath, ix.storeOptions...)
	if err != nil {
		return nil, fmt.Errorf("open store '%s': %w", storePath, err)
	}
	ix.records = recordStore{s}

	return ix, nil
}

// NewWithStore builds an Indexer on top of an already opened store.
func NewWithStore(s Store, options ...Option) *Indexer {
	return newIndexer(s, options...)
}

func newIndexer(s Store, options ...Option) *Indexer {
	ix := &Indexer{
		records:  recordStore{s},
		strIndex: newIndex(),
		numIndex: newIndex(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(ix)
	}
	return ix
}

// Upsert persists record under key and, only if that succeeded, points both
// column indexes at key.
func (ix *Indexer) Upsert(key cell.RecordKey, record cell.Record) error {

	err := ix.records.PutRecord(key, record)
	if err != nil {
		ix.logger.Warn("upsert failed", "key", key, "err", err)
		return fmt.Errorf("upsert %s: %w", key, err)
	}

	ix.strIndex.ReplaceOrInsert(Entry{Value: record.StringCol(), Key: key})
	ix.numIndex.ReplaceOrInsert(Entry{Value: record.NumberCol(), Key: key})

	ix.logger.Debug("upsert", "key", key, "record", record)

	return nil
}

// Get reads a record from the primary store. A missing key returns false
// and no error.
func (ix *Indexer) Get(key cell.RecordKey) (cell.Record, bool, error) {
	return ix.records.GetRecord(key)
}

func (ix *Indexer) IndexByString() *Snapshot {
	return &Snapshot{index: ix.strIndex.Clone()}
}

func (ix *Indexer) IndexByNumber() *Snapshot {
	return &Snapshot{index: ix.numIndex.Clone()}
}

// Index returns the snapshot of column.
func (ix *Indexer) Index(column Column) (*Snapshot, error) {
	switch column {
	case ColumnString:
		return ix.IndexByString(), nil
	case ColumnNumber:
		return ix.IndexByNumber(), nil
	}
	return nil, fmt.Errorf("%w '%s'", ErrUnknownColumn, column)
}

// Reindex rebuilds both secondary indexes from the primary store, replaying
// records in write order. On error the current indexes are kept.
func (ix *Indexer) Reindex() error {

	strIndex := newIndex()
	numIndex := newIndex()

	var err error
	ix.records.Sequence(func(k, v []byte) bool {
		record := cell.Record{}
		key := cell.KeyFromBytes(k)
		if err = json.Unmarshal(v, &record); err != nil {
			err = fmt.Errorf("decode record %s: %w", key, err)
			return false
		}
		strIndex.ReplaceOrInsert(Entry{Value: record.StringCol(), Key: key})
		numIndex.ReplaceOrInsert(Entry{Value: record.NumberCol(), Key: key})
		return true
	})
	if err != nil {
		return fmt.Errorf("reindex: %w", err)
	}

	ix.strIndex = strIndex
	ix.numIndex = numIndex

	ix.logger.Info("reindex", "records", ix.records.Len(), "string_entries", strIndex.Len(), "number_entries", numIndex.Len())

	return nil
}

// Len returns the number of records in the primary store.
func (ix *Indexer) Len() int {
	return ix.records.Len()
}

func (ix *Indexer) Close() error {
	return ix.records.Close()
}
