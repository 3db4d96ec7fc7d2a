package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fulldump/colindex/loader"
)

func upsertRecord(ctx context.Context, w http.ResponseWriter, input json.RawMessage) (*recordResponse, error) {

	key, record, err := loader.ParseRecord(input)
	if err != nil {
		return nil, err
	}

	err = GetServicer(ctx).Upsert(key, record)
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return newRecordResponse(key, record), nil
}
