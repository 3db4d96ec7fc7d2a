package api

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/colindex/cell"
	"github.com/fulldump/colindex/indexer"
)

type indexEntry struct {
	Value interface{} `json:"value"`
	Key   interface{} `json:"key"`
}

func getIndex(ctx context.Context) ([]indexEntry, error) {

	column, err := indexer.ParseColumn(box.GetUrlParameter(ctx, "column"))
	if err != nil {
		return nil, err
	}

	snapshot, err := GetServicer(ctx).Index(column)
	if err != nil {
		return nil, err
	}

	result := make([]indexEntry, 0, snapshot.Len())
	snapshot.Ascend(func(value cell.Cell, key cell.RecordKey) bool {
		result = append(result, indexEntry{
			Value: cellValue(value),
			Key:   keyValue(key),
		})
		return true
	})

	return result, nil
}
