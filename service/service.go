package service

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/fulldump/colindex/cell"
	"github.com/fulldump/colindex/indexer"
	"github.com/fulldump/colindex/loader"
)

// Service serializes every access to an Indexer behind one lock.
type Service struct {
	mu      sync.Mutex
	indexer *indexer.Indexer
	logger  *slog.Logger
}

func NewService(ix *indexer.Indexer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		indexer: ix,
		logger:  logger,
	}
}

func (s *Service) Upsert(key cell.RecordKey, record cell.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.indexer.Upsert(key, record)
}

func (s *Service) Get(key cell.RecordKey) (cell.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, found, err := s.indexer.Get(key)
	if err != nil {
		return cell.Record{}, err
	}
	if !found {
		return cell.Record{}, ErrRecordNotFound
	}
	return record, nil
}

func (s *Service) Index(column indexer.Column) (*indexer.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.indexer.Index(column)
}

type ExportResult struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}

// Export writes the sorted projection of column to path and closes it.
func (s *Service) Export(column indexer.Column, path string, rankKeys bool) (*ExportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	options := []indexer.ExportOption{}
	if rankKeys {
		options = append(options, indexer.WithRankKeys())
	}

	dest, err := s.indexer.Export(column, path, options...)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{
		Path:    dest.Path(),
		Entries: dest.Len(),
	}

	err = dest.Close()
	if err != nil {
		return nil, fmt.Errorf("close export store: %w", err)
	}

	return result, nil
}

// Load upserts every record of a JSON lines batch. It stops at the first
// error and returns how many records were upserted.
func (s *Service) Load(r io.Reader) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	err := loader.Read(r, func(key cell.RecordKey, record cell.Record) error {
		err := s.indexer.Upsert(key, record)
		if err != nil {
			return err
		}
		n++
		return nil
	})

	s.logger.Info("load", "records", n, "total", s.indexer.Len())

	return n, err
}

func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.indexer.Len()
}

func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.indexer.Close()
}
