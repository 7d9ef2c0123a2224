package app

import (
	"context"
	"fmt"
	"time"

	"sheetlint/domain/core"
	"sheetlint/domain/table"
	"sheetlint/internal"
	"sheetlint/internal/errors"
	"sheetlint/ports"
)

// IngestService loads a tabular source and infers per-column types under a
// caller-supplied sentinel set
type IngestService struct {
	readerFactory ports.ReaderFactory
	logger        *internal.Logger
}

// LoadRequest defines the inputs for one load
type LoadRequest struct {
	Path      string
	SheetName string            // ignored for CSV sources
	Sentinels table.SentinelSet // required configuration; empty means nothing is special-cased
}

// LoadResult is the in-memory outcome of one load. It lives only as long
// as the analysis session - nothing is persisted.
type LoadResult struct {
	DatasetID   core.DatasetID      `json:"dataset_id"`
	Path        string              `json:"path"`
	Sentinels   []string            `json:"sentinels"`
	Table       table.Table         `json:"table"`
	Diagnostics table.DiagnosticSet `json:"diagnostics"`
	LoadedAt    time.Time           `json:"loaded_at"`
	RuntimeMs   int64               `json:"runtime_ms"`
}

// NewIngestService creates an ingest service
func NewIngestService(readerFactory ports.ReaderFactory) *IngestService {
	return &IngestService{
		readerFactory: readerFactory,
		logger:        internal.NewDefaultLogger(),
	}
}

// Load reads the source, runs column type inference in a single pass, and
// returns the typed table with accumulated diagnostics. Per-cell parse
// failures never abort the load; an unreadable file or absent sheet does.
func (s *IngestService) Load(ctx context.Context, req LoadRequest) (*LoadResult, error) {
	startTime := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader := s.readerFactory(req.Path, req.SheetName)
	raw, err := reader.ReadData()
	if err != nil {
		return nil, errors.LoadFailed(fmt.Sprintf("failed to load %s", req.Path), err)
	}

	typed, diags := table.InferTable(*raw, req.Sentinels)

	numericCols := 0
	for _, header := range typed.Headers {
		if typed.Columns[header].Kind == table.ColumnNumeric {
			numericCols++
		}
	}
	s.logger.Info("[IngestService] Loaded %s: %d columns (%d numeric), %d rows, %d diagnostics",
		req.Path, len(typed.Headers), numericCols, typed.RowCount(), len(diags))

	return &LoadResult{
		DatasetID:   core.DatasetID(core.NewID()),
		Path:        req.Path,
		Sentinels:   req.Sentinels.Values(),
		Table:       typed,
		Diagnostics: diags,
		LoadedAt:    startTime,
		RuntimeMs:   time.Since(startTime).Milliseconds(),
	}, nil
}
