package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fulldump/box"

	"github.com/fulldump/colindex/cell"
)

type recordResponse struct {
	Key    interface{} `json:"key"`
	String interface{} `json:"string"`
	Number interface{} `json:"number"`
}

func newRecordResponse(key cell.RecordKey, record cell.Record) *recordResponse {
	return &recordResponse{
		Key:    keyValue(key),
		String: cellValue(record.StringCol()),
		Number: cellValue(record.NumberCol()),
	}
}

func getRecord(ctx context.Context) (*recordResponse, error) {

	rawKey := box.GetUrlParameter(ctx, "key")
	n, err := strconv.ParseInt(rawKey, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w '%s'", ErrInvalidKey, rawKey)
	}
	key := cell.KeyFromInt64(n)

	record, err := GetServicer(ctx).Get(key)
	if err != nil {
		return nil, err
	}

	return newRecordResponse(key, record), nil
}

// cellValue renders a cell as the JSON scalar it was loaded from.
func cellValue(c cell.Cell) interface{} {
	if n, ok := c.AsInteger(); ok {
		return n
	}
	s, _ := c.AsText()
	return s
}

func keyValue(k cell.RecordKey) interface{} {
	if n, ok := k.Int64(); ok {
		return n
	}
	return k.String()
}
