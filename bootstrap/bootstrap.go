package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/fulldump/box"

	"github.com/fulldump/colindex/api"
	"github.com/fulldump/colindex/configuration"
	"github.com/fulldump/colindex/indexer"
	"github.com/fulldump/colindex/service"
	"github.com/fulldump/colindex/store"
)

var VERSION = "dev"

// Bootstrap opens the primary store and runs the startup work described by c:
// reindex, batch load and exports. The returned start blocks serving the HTTP
// API when c.Serve is set and always releases the store before returning;
// stop makes start return.
func Bootstrap(c *configuration.Configuration, logger *slog.Logger) (start func() error, stop func(), err error) {

	ix, err := indexer.New(c.Dir,
		indexer.WithLogger(logger),
		indexer.WithStoreOptions(
			store.WithSync(c.Sync),
			store.WithCompression(c.Compression),
		),
	)
	if err != nil {
		return nil, nil, err
	}
	s := service.NewService(ix, logger)

	err = prepare(c, ix, s, logger)
	if err != nil {
		s.Close()
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	stop = cancel

	if !c.Serve {
		start = func() error {
			cancel()
			return s.Close()
		}
		return start, stop, nil
	}

	b := api.Build(s, VERSION)
	b.WithInterceptors(
		api.AccessLog(logger),
		api.RecoverFromPanic,
		api.PrettyErrorInterceptor,
	)

	server := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		cancel()
		s.Close()
		return nil, nil, fmt.Errorf("listen %s: %w", c.HttpAddr, err)
	}
	logger.Info("listening", "addr", ln.Addr().String())

	start = func() error {
		defer s.Close()

		g, ctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			err := server.Serve(ln)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})

		g.Go(func() error {
			<-ctx.Done()
			return server.Shutdown(context.Background())
		})

		err := g.Wait()
		logger.Info("stopped", "records", s.Len())
		return err
	}

	return start, stop, nil
}

func prepare(c *configuration.Configuration, ix *indexer.Indexer, s *service.Service, logger *slog.Logger) error {

	if c.Reindex {
		err := ix.Reindex()
		if err != nil {
			return err
		}
	}

	if c.Load != "" {
		f, err := os.Open(c.Load)
		if err != nil {
			return fmt.Errorf("open batch: %w", err)
		}
		n, err := s.Load(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("load '%s' after %d records: %w", c.Load, n, err)
		}
	}

	exports := []struct {
		column indexer.Column
		path   string
	}{
		{indexer.ColumnString, c.ExportString},
		{indexer.ColumnNumber, c.ExportNumber},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		result, err := s.Export(e.column, e.path, c.ExportRanked)
		if err != nil {
			return err
		}
		logger.Info("exported", "column", e.column, "path", result.Path, "entries", result.Entries)
	}

	return nil
}
