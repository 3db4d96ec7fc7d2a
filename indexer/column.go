package indexer

import (
	"errors"
	"fmt"

	"github.com/fulldump/colindex/cell"
)

var ErrUnknownColumn = errors.New("unknown column")

// Column names one of the two indexed record columns.
type Column string

const (
	ColumnString Column = "string"
	ColumnNumber Column = "number"
)

func ParseColumn(name string) (Column, error) {
	switch c := Column(name); c {
	case ColumnString, ColumnNumber:
		return c, nil
	}
	return "", fmt.Errorf("%w '%s'", ErrUnknownColumn, name)
}

// Of returns the column value of record.
func (c Column) Of(record cell.Record) cell.Cell {
	if c == ColumnNumber {
		return record.NumberCol()
	}
	return record.StringCol()
}
