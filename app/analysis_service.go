// Package app wires the DataAccessor port to the analysis engine. The
// engine itself is pure; this layer owns the caller-side contracts: at
// most one in-flight computation per panel, and bounded concurrency for
// multi-panel sweeps.
package app

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"datalens/domain/analysis"
	"datalens/domain/core"
	"datalens/domain/table"
	"datalens/internal"
	"datalens/internal/engine"
	"datalens/ports"
)

// AnalysisService resolves snapshots through the accessor and runs engine
// computations.
type AnalysisService struct {
	accessor ports.DataAccessor
	engine   *engine.Engine
	logger   *internal.Logger
	workers  int

	mu     sync.Mutex
	panels map[core.PanelKey]*sync.Mutex
}

// NewAnalysisService creates the service. workers bounds sweep concurrency.
func NewAnalysisService(accessor ports.DataAccessor, eng *engine.Engine, logger *internal.Logger, workers int) *AnalysisService {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{
		accessor: accessor,
		engine:   eng,
		logger:   logger,
		workers:  workers,
		panels:   make(map[core.PanelKey]*sync.Mutex),
	}
}

// PanelRequest binds one analysis request to its panel and data source.
type PanelRequest struct {
	Panel   core.PanelKey    `json:"panel"`
	Table   string           `json:"table"`
	Filter  string           `json:"filter,omitempty"`
	Request analysis.Request `json:"request"`
}

// Analyze resolves the snapshot for one panel and runs the requested
// engine. Invocations for the same panel are serialized; a retrigger
// waits for the in-flight computation instead of racing it.
func (s *AnalysisService) Analyze(ctx context.Context, req PanelRequest) (*analysis.Result, error) {
	lock := s.panelLock(req.Panel)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.snapshot(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("running %s analysis on %s (%d rows, panel %s)",
		req.Request.Type, req.Table, len(snap.Rows), req.Panel)
	return s.engine.Run(snap, req.Request)
}

// SweepResult pairs one sweep entry with its outcome.
type SweepResult struct {
	Panel  core.PanelKey    `json:"panel"`
	Result *analysis.Result `json:"result,omitempty"`
	Err    error            `json:"-"`
}

// Sweep runs several panel requests concurrently, bounded by the worker
// count. Per-panel ordering still holds because each invocation takes its
// panel lock. Individual failures are reported per entry; the sweep
// itself only fails on context cancellation.
func (s *AnalysisService) Sweep(ctx context.Context, requests []PanelRequest) ([]SweepResult, error) {
	results := make([]SweepResult, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := s.Analyze(ctx, req)
			results[i] = SweepResult{Panel: req.Panel, Result: result, Err: err}
			if err != nil {
				s.logger.Warn("panel %s: %s analysis failed: %v", req.Panel, req.Request.Type, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Tables lists the available tables from the accessor.
func (s *AnalysisService) Tables(ctx context.Context) ([]string, error) {
	return s.accessor.ListTables(ctx)
}

// Columns returns the typed column definitions of one table.
func (s *AnalysisService) Columns(ctx context.Context, tableName string) ([]table.Column, error) {
	return s.accessor.GetColumnInfo(ctx, tableName)
}

// snapshot builds a fresh dataset snapshot for one request. Snapshots are
// never cached across calls.
func (s *AnalysisService) snapshot(ctx context.Context, req PanelRequest) (*table.Snapshot, error) {
	columns, err := s.accessor.GetColumnInfo(ctx, req.Table)
	if err != nil {
		return nil, err
	}

	selected := req.Request.Columns
	if x := req.Request.XAxisColumn; x != "" && x != "index" {
		selected = append(append([]string{}, selected...), x)
	}

	rows, err := s.accessor.GetRows(ctx, req.Table, selected, req.Filter)
	if err != nil {
		return nil, err
	}

	return &table.Snapshot{Table: req.Table, Columns: columns, Rows: rows}, nil
}

func (s *AnalysisService) panelLock(panel core.PanelKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.panels[panel]
	if !ok {
		lock = &sync.Mutex{}
		s.panels[panel] = lock
	}
	return lock
}
