package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// New returns a text logger writing to w at the given level: debug, info,
// warn or error, optionally with an offset such as debug+2. Empty means info.
func New(w io.Writer, level string) (*slog.Logger, error) {

	l := slog.LevelInfo
	if level != "" {
		err := l.UnmarshalText([]byte(level))
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: l,
	})

	return slog.New(handler), nil
}
