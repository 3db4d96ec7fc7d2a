package service

import (
	"errors"
	"io"

	"github.com/fulldump/colindex/cell"
	"github.com/fulldump/colindex/indexer"
)

var ErrRecordNotFound = errors.New("record not found")

type Servicer interface {
	Upsert(key cell.RecordKey, record cell.Record) error
	Get(key cell.RecordKey) (cell.Record, error)
	Index(column indexer.Column) (*indexer.Snapshot, error)
	Export(column indexer.Column, path string, rankKeys bool) (*ExportResult, error)
	Load(r io.Reader) (int, error)
	Len() int
}
