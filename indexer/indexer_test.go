package indexer

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/colindex/cell"
	"github.com/fulldump/colindex/store"
)

type row struct {
	key    int64
	record cell.Record
}

// scenarioRows is the reference four record table.
var scenarioRows = []row{
	{0, cell.NewRecord(cell.Text("String Z"), cell.Integer(4))},
	{2, cell.NewRecord(cell.Text("String B"), cell.Integer(9))},
	{10, cell.NewRecord(cell.Text("String C"), cell.Integer(75))},
	{5, cell.NewRecord(cell.Text("q"), cell.Integer(3))},
}

func newScenario(t *testing.T) *Indexer {
	ix, err := New(filepath.Join(t.TempDir(), "table"))
	biff.AssertNil(err)
	t.Cleanup(func() { ix.Close() })

	for _, r := range scenarioRows {
		biff.AssertNil(ix.Upsert(cell.KeyFromInt64(r.key), r.record))
	}
	return ix
}

func keysOf(s *Snapshot) []int64 {
	result := []int64{}
	for _, k := range s.Keys() {
		n, _ := k.Int64()
		result = append(result, n)
	}
	return result
}

func TestScenario_IndexByString(t *testing.T) {

	ix := newScenario(t)

	index := ix.IndexByString()
	biff.AssertEqual(keysOf(index), []int64{2, 10, 0, 5})

	values := []string{}
	index.Ascend(func(value cell.Cell, key cell.RecordKey) bool {
		values = append(values, value.String())
		return true
	})
	biff.AssertEqual(values, []string{`"String B"`, `"String C"`, `"String Z"`, `"q"`})
}

func TestScenario_IndexByNumber(t *testing.T) {

	ix := newScenario(t)

	index := ix.IndexByNumber()
	biff.AssertEqual(keysOf(index), []int64{5, 0, 2, 10})

	key, found := index.Get(cell.Integer(75))
	biff.AssertTrue(found)
	biff.AssertEqual(key, cell.KeyFromInt64(10))

	_, found = index.Get(cell.Integer(76))
	biff.AssertFalse(found)
}

func TestUpsert_Idempotent(t *testing.T) {

	ix := newScenario(t)

	beforeStr := ix.IndexByString().Entries()
	beforeNum := ix.IndexByNumber().Entries()

	biff.AssertNil(ix.Upsert(cell.KeyFromInt64(2), cell.NewRecord(cell.Text("String B"), cell.Integer(9))))

	biff.AssertEqual(ix.IndexByString().Entries(), beforeStr)
	biff.AssertEqual(ix.IndexByNumber().Entries(), beforeNum)
	biff.AssertEqual(ix.Len(), 4)
}

func TestUpsert_IndexSize(t *testing.T) {

	ix, err := New(t.TempDir())
	biff.AssertNil(err)
	defer ix.Close()

	n := 100
	for i := 0; i < n; i++ {
		record := cell.NewRecord(cell.Text(fmt.Sprintf("value-%03d", n-i)), cell.Integer(int64(i*7)))
		biff.AssertNil(ix.Upsert(cell.KeyFromInt64(int64(i)), record))
	}

	biff.AssertEqual(ix.IndexByString().Len(), n)
	biff.AssertEqual(ix.IndexByNumber().Len(), n)
}

func TestUpsert_CollisionOverwrites(t *testing.T) {

	ix, err := New(t.TempDir())
	biff.AssertNil(err)
	defer ix.Close()

	biff.AssertNil(ix.Upsert(cell.KeyFromInt64(1), cell.NewRecord(cell.Text("same"), cell.Integer(1))))
	biff.AssertNil(ix.Upsert(cell.KeyFromInt64(2), cell.NewRecord(cell.Text("same"), cell.Integer(2))))

	index := ix.IndexByString()
	biff.AssertEqual(index.Len(), 1)
	key, found := index.Get(cell.Text("same"))
	biff.AssertTrue(found)
	biff.AssertEqual(key, cell.KeyFromInt64(2))

	// the primary store keeps both records
	biff.AssertEqual(ix.Len(), 2)
	first, found, err := ix.Get(cell.KeyFromInt64(1))
	biff.AssertNil(err)
	biff.AssertTrue(found)
	biff.AssertEqual(first.NumberCol(), cell.Integer(1))
	biff.AssertEqual(ix.IndexByNumber().Len(), 2)
}

func TestSnapshot_Independent(t *testing.T) {

	ix := newScenario(t)

	snapshot := ix.IndexByNumber()
	biff.AssertNil(ix.Upsert(cell.KeyFromInt64(20), cell.NewRecord(cell.Text("new"), cell.Integer(1))))

	biff.AssertEqual(snapshot.Len(), 4)
	biff.AssertEqual(keysOf(snapshot), []int64{5, 0, 2, 10})
	biff.AssertEqual(keysOf(ix.IndexByNumber()), []int64{20, 5, 0, 2, 10})
}

func TestIndex_MixedKindsTextFirst(t *testing.T) {

	ix, err := New(t.TempDir())
	biff.AssertNil(err)
	defer ix.Close()

	biff.AssertNil(ix.Upsert(cell.KeyFromInt64(1), cell.NewRecord(cell.Integer(-100), cell.Integer(0))))
	biff.AssertNil(ix.Upsert(cell.KeyFromInt64(2), cell.NewRecord(cell.Text("zzz"), cell.Integer(1))))

	biff.AssertEqual(keysOf(ix.IndexByString()), []int64{2, 1})
}

func TestGet(t *testing.T) {

	ix := newScenario(t)

	record, found, err := ix.Get(cell.KeyFromInt64(10))
	biff.AssertNil(err)
	biff.AssertTrue(found)
	biff.AssertTrue(record.Equal(cell.NewRecord(cell.Text("String C"), cell.Integer(75))))

	_, found, err = ix.Get(cell.KeyFromInt64(11))
	biff.AssertNil(err)
	biff.AssertFalse(found)
}

func TestGet_DecodeError(t *testing.T) {

	s, err := store.Open(t.TempDir())
	biff.AssertNil(err)
	defer s.Close()
	biff.AssertNil(s.Put(cell.KeyFromInt64(1).Bytes(), []byte(`not json`)))

	ix := NewWithStore(s)
	_, found, err := ix.Get(cell.KeyFromInt64(1))
	biff.AssertNotNil(err)
	biff.AssertFalse(found)
}

func TestReindex(t *testing.T) {

	dir := t.TempDir()
	{
		ix, err := New(dir)
		biff.AssertNil(err)
		for _, r := range scenarioRows {
			biff.AssertNil(ix.Upsert(cell.KeyFromInt64(r.key), r.record))
		}
		biff.AssertNil(ix.Close())
	}

	ix, err := New(dir)
	biff.AssertNil(err)
	defer ix.Close()

	biff.AssertEqual(ix.IndexByString().Len(), 0)
	biff.AssertEqual(ix.Len(), 4)

	biff.AssertNil(ix.Reindex())
	biff.AssertEqual(keysOf(ix.IndexByString()), []int64{2, 10, 0, 5})
	biff.AssertEqual(keysOf(ix.IndexByNumber()), []int64{5, 0, 2, 10})
}

var errDiskFull = errors.New("disk full")

// failingStore accepts writes until fail is set.
type failingStore struct {
	*store.Store
	fail bool
}

func (s *failingStore) Put(key, value []byte) error {
	if s.fail {
		return errDiskFull
	}
	return s.Store.Put(key, value)
}

func TestUpsert_WriteFailureKeepsIndexes(t *testing.T) {

	s, err := store.Open(t.TempDir())
	biff.AssertNil(err)
	defer s.Close()

	fs := &failingStore{Store: s}
	ix := NewWithStore(fs)

	biff.AssertNil(ix.Upsert(cell.KeyFromInt64(1), cell.NewRecord(cell.Text("a"), cell.Integer(1))))

	fs.fail = true
	err = ix.Upsert(cell.KeyFromInt64(2), cell.NewRecord(cell.Text("a"), cell.Integer(2)))
	biff.AssertTrue(errors.Is(err, errDiskFull))

	key, _ := ix.IndexByString().Get(cell.Text("a"))
	biff.AssertEqual(key, cell.KeyFromInt64(1))
	biff.AssertEqual(ix.IndexByNumber().Len(), 1)
	_, found, _ := ix.Get(cell.KeyFromInt64(2))
	biff.AssertFalse(found)
}

func TestUpsert_ClosedStore(t *testing.T) {

	ix, err := New(t.TempDir())
	biff.AssertNil(err)
	biff.AssertNil(ix.Close())

	err = ix.Upsert(cell.KeyFromInt64(1), cell.NewRecord(cell.Text("a"), cell.Integer(1)))
	biff.AssertTrue(errors.Is(err, store.ErrClosed))
	biff.AssertEqual(ix.IndexByString().Len(), 0)
}

func TestParseColumn(t *testing.T) {

	c, err := ParseColumn("number")
	biff.AssertNil(err)
	biff.AssertEqual(c, ColumnNumber)

	_, err = ParseColumn("both")
	biff.AssertTrue(errors.Is(err, ErrUnknownColumn))

	record := cell.NewRecord(cell.Text("x"), cell.Integer(1))
	biff.AssertEqual(ColumnString.Of(record), cell.Text("x"))
	biff.AssertEqual(ColumnNumber.Of(record), cell.Integer(1))
}
