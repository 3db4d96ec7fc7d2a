package indexer

import (
	"fmt"

	"github.com/go-json-experiment/json"

	"github.com/fulldump/colindex/cell"
)

// Store is the byte-opaque key/value engine behind an Indexer.
type Store interface {
	Put(key, value []byte) error
	Get(key []byte) ([]byte, bool, error)
	Sequence(f func(key, value []byte) bool)
	Len() int
	Close() error
}

// recordStore serializes records and cells on top of a Store.
type recordStore struct {
	Store
}

func (s recordStore) PutRecord(key cell.RecordKey, record cell.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("json encode record: %w", err)
	}
	return s.Put(key.Bytes(), data)
}

func (s recordStore) GetRecord(key cell.RecordKey) (cell.Record, bool, error) {
	data, found, err := s.Get(key.Bytes())
	if err != nil || !found {
		return cell.Record{}, found, err
	}

	record := cell.Record{}
	err = json.Unmarshal(data, &record)
	if err != nil {
		return cell.Record{}, false, fmt.Errorf("decode record %s: %w", key, err)
	}

	return record, true, nil
}

func (s recordStore) PutCell(key cell.RecordKey, value cell.Cell) error {
	data, err := EncodeCell(value)
	if err != nil {
		return err
	}
	return s.Put(key.Bytes(), data)
}

// EncodeCell is the value format of exported stores.
func EncodeCell(value cell.Cell) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("json encode cell: %w", err)
	}
	return data, nil
}

func DecodeCell(data []byte) (cell.Cell, error) {
	value := cell.Cell{}
	err := json.Unmarshal(data, &value)
	if err != nil {
		return cell.Cell{}, fmt.Errorf("decode cell: %w", err)
	}
	return value, nil
}
