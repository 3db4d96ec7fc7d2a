package indexer

import (
	"github.com/google/btree"

	"github.com/fulldump/colindex/cell"
)

// Entry is one secondary index item: a column value and the key of the
// record that produced it.
type Entry struct {
	Value cell.Cell
	Key   cell.RecordKey
}

func lessEntry(a, b Entry) bool {
	return cell.Less(a.Value, b.Value)
}

func newIndex() *btree.BTreeG[Entry] {
	return btree.NewG(32, lessEntry)
}

// Snapshot is a read only copy of a secondary index in ascending value
// order. Later upserts do not change it.
type Snapshot struct {
	index *btree.BTreeG[Entry]
}

func (s *Snapshot) Len() int {
	return s.index.Len()
}

func (s *Snapshot) Ascend(f func(value cell.Cell, key cell.RecordKey) bool) {
	s.index.Ascend(func(e Entry) bool {
		return f(e.Value, e.Key)
	})
}

func (s *Snapshot) Get(value cell.Cell) (cell.RecordKey, bool) {
	e, found := s.index.Get(Entry{Value: value})
	return e.Key, found
}

func (s *Snapshot) Entries() []Entry {
	entries := make([]Entry, 0, s.index.Len())
	s.index.Ascend(func(e Entry) bool {
		entries = append(entries, e)
		return true
	})
	return entries
}

func (s *Snapshot) Keys() []cell.RecordKey {
	keys := make([]cell.RecordKey, 0, s.index.Len())
	s.index.Ascend(func(e Entry) bool {
		keys = append(keys, e.Key)
		return true
	})
	return keys
}
