package bootstrap

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/colindex/cell"
	"github.com/fulldump/colindex/configuration"
	"github.com/fulldump/colindex/indexer"
	"github.com/fulldump/colindex/store"
)

func TestBootstrap_LoadAndExport(t *testing.T) {

	dir := t.TempDir()
	batch := filepath.Join(dir, "batch.jsonl")
	err := os.WriteFile(batch, []byte(`{"key":0,"string":"String Z","number":4}
{"key":2,"string":"String B","number":9}
{"key":10,"string":"String C","number":75}
{"key":5,"string":"q","number":3}
`), 0666)
	biff.AssertNil(err)

	c := configuration.Default()
	c.Dir = filepath.Join(dir, "table")
	c.Load = batch
	c.ExportString = filepath.Join(dir, "by-string")
	c.ExportNumber = filepath.Join(dir, "by-number")
	c.Compression = store.CompressionSnappy

	start, _, err := Bootstrap(&c, slog.New(slog.DiscardHandler))
	biff.AssertNil(err)
	biff.AssertNil(start())

	exported, err := store.Open(c.ExportNumber)
	biff.AssertNil(err)
	defer exported.Close()

	values := []cell.Cell{}
	exported.Sequence(func(key, value []byte) bool {
		v, err := indexer.DecodeCell(value)
		biff.AssertNil(err)
		values = append(values, v)
		return true
	})
	biff.AssertEqual(values, []cell.Cell{cell.Integer(3), cell.Integer(4), cell.Integer(9), cell.Integer(75)})

	t.Run("reindex on restart", func(t *testing.T) {
		c := configuration.Default()
		c.Dir = filepath.Join(dir, "table")
		c.Reindex = true
		c.ExportString = filepath.Join(dir, "by-string-ranked")
		c.ExportRanked = true

		start, _, err := Bootstrap(&c, slog.New(slog.DiscardHandler))
		biff.AssertNil(err)
		biff.AssertNil(start())

		ranked, err := store.Open(c.ExportString)
		biff.AssertNil(err)
		defer ranked.Close()

		texts := []string{}
		ranked.Ascend(func(key, value []byte) bool {
			v, err := indexer.DecodeCell(value)
			biff.AssertNil(err)
			s, _ := v.AsText()
			texts = append(texts, s)
			return true
		})
		biff.AssertEqual(texts, []string{"String B", "String C", "String Z", "q"})
	})
}

func TestBootstrap_InvalidBatch(t *testing.T) {

	dir := t.TempDir()
	batch := filepath.Join(dir, "batch.jsonl")
	biff.AssertNil(os.WriteFile(batch, []byte(`{"key":0}`), 0666))

	c := configuration.Default()
	c.Dir = filepath.Join(dir, "table")
	c.Load = batch

	_, _, err := Bootstrap(&c, slog.New(slog.DiscardHandler))
	biff.AssertNotNil(err)
}

func TestBootstrap_UnknownCompression(t *testing.T) {

	c := configuration.Default()
	c.Dir = t.TempDir()
	c.Compression = "zip"

	_, _, err := Bootstrap(&c, slog.New(slog.DiscardHandler))
	biff.AssertNotNil(err)
}
