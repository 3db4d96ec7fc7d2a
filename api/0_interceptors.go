package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fulldump/box"

	"github.com/fulldump/colindex/indexer"
	"github.com/fulldump/colindex/loader"
	"github.com/fulldump/colindex/service"
)

var (
	ErrInvalidKey   = errors.New("invalid key")
	ErrInvalidInput = errors.New("invalid input")
)

func AccessLog(l *slog.Logger) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			now := time.Now()
			defer func() {
				l.Info("access", "remote", r.RemoteAddr, "method", r.Method, "url", r.URL.String(), "elapsed", time.Since(now))
			}()

			next(ctx)
		}
	}
}

func RecoverFromPanic(next box.H) box.H {
	return func(ctx context.Context) {
		defer func() {
			if err := recover(); err != nil {
				box.SetError(ctx, fmt.Errorf("panic: %v", err))
			}
		}()
		next(ctx)
	}
}

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}

		status, description := describeError(err)

		w := box.GetResponse(ctx)
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": PrettyError{
				Message:     err.Error(),
				Description: description,
			},
		})
	}
}

func describeError(err error) (int, string) {

	if errors.Is(err, service.ErrRecordNotFound) {
		return http.StatusNotFound, "record not found"
	}

	if errors.Is(err, indexer.ErrUnknownColumn) {
		return http.StatusNotFound, "column must be 'string' or 'number'"
	}

	if errors.Is(err, indexer.ErrExportExists) {
		return http.StatusConflict, "export path already holds a store"
	}

	if errors.Is(err, ErrInvalidKey) || errors.Is(err, ErrInvalidInput) || errors.Is(err, loader.ErrInvalidRecord) {
		return http.StatusBadRequest, "Invalid input"
	}

	var syntaxError *json.SyntaxError
	if errors.As(err, &syntaxError) {
		return http.StatusBadRequest, "Malformed JSON"
	}

	return http.StatusInternalServerError, "Unexpected error"
}
