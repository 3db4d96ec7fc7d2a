package api

import (
	"context"
	"fmt"

	"github.com/fulldump/box"

	"github.com/fulldump/colindex/indexer"
	"github.com/fulldump/colindex/service"
)

type exportRequest struct {
	Path     string `json:"path"`
	RankKeys bool   `json:"rank_keys"`
}

func export(ctx context.Context, input *exportRequest) (*service.ExportResult, error) {

	column, err := indexer.ParseColumn(box.GetUrlParameter(ctx, "column"))
	if err != nil {
		return nil, err
	}

	if input.Path == "" {
		return nil, fmt.Errorf("%w: field 'path' is mandatory", ErrInvalidInput)
	}

	return GetServicer(ctx).Export(column, input.Path, input.RankKeys)
}
