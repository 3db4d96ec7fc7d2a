package indexer

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/btree"

	"github.com/fulldump/colindex/cell"
	"github.com/fulldump/colindex/store"
)

// ErrExportExists is returned when the export destination already holds a
// store, including the primary store itself.
var ErrExportExists = errors.New("export destination already exists")

type exportOptions struct {
	rankKeys bool
}

type ExportOption func(o *exportOptions)

// WithRankKeys keys every exported cell by its rank (0, 1, 2...) instead of
// its original record key, so the destination key order follows value order.
func WithRankKeys() ExportOption {
	return func(o *exportOptions) {
		o.rankKeys = true
	}
}

// ExportSortedByString writes the string column, in ascending value order,
// to a new store at destPath keyed by the original record keys. The caller
// owns the returned store.
func (ix *Indexer) ExportSortedByString(destPath string) (*store.Store, error) {
	return ix.Export(ColumnString, destPath)
}

// ExportSortedByNumber is ExportSortedByString for the number column.
func (ix *Indexer) ExportSortedByNumber(destPath string) (*store.Store, error) {
	return ix.Export(ColumnNumber, destPath)
}

// Export writes one single-cell entry per index entry of column into a new
// store at destPath. destPath must not hold a journal yet. Writes happen in ascending value order, which is the
// order store.Sequence reads them back in. The physical key order of the
// destination only matches when WithRankKeys is used.
func (ix *Indexer) Export(column Column, destPath string, options ...ExportOption) (*store.Store, error) {

	o := &exportOptions{}
	for _, option := range options {
		option(o)
	}

	var index *btree.BTreeG[Entry]
	switch column {
	case ColumnString:
		index = ix.strIndex
	case ColumnNumber:
		index = ix.numIndex
	default:
		return nil, fmt.Errorf("%w '%s'", ErrUnknownColumn, column)
	}

	if ix.isPrimaryPath(destPath) {
		return nil, fmt.Errorf("%w: '%s' is the primary store", ErrExportExists, destPath)
	}

	dest, err := store.Create(destPath, ix.storeOptions...)
	if errors.Is(err, store.ErrExists) {
		return nil, fmt.Errorf("%w: %w", ErrExportExists, err)
	}
	if err != nil {
		return nil, fmt.Errorf("open export store '%s': %w", destPath, err)
	}
	out := recordStore{dest}

	rank := int64(0)
	index.Ascend(func(e Entry) bool {
		key := e.Key
		if o.rankKeys {
			key = cell.KeyFromInt64(rank)
		}
		err = out.PutCell(key, e.Value)
		rank++
		return err == nil
	})
	if err != nil {
		dest.Close()
		return nil, fmt.Errorf("export %s column: %w", column, err)
	}

	ix.logger.Info("export", "column", column, "path", destPath, "entries", rank, "rank_keys", o.rankKeys)

	return dest, nil
}

func (ix *Indexer) isPrimaryPath(path string) bool {

	primary, ok := ix.records.Store.(interface{ Path() string })
	if !ok {
		return false
	}

	a, err := os.Stat(primary.Path())
	if err != nil {
		return false
	}
	b, err := os.Stat(path)
	if err != nil {
		return false
	}

	return os.SameFile(a, b)
}
