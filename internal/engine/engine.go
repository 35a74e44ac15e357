// Package engine holds the pure analysis computations: every entry point
// maps (snapshot, request) to a typed result and never touches shared
// state, so identical inputs always produce identical results apart from
// wall-clock processing time.
package engine

import (
	"fmt"
	"time"

	"datalens/domain/analysis"
	"datalens/domain/core"
	"datalens/domain/table"
	"datalens/internal/engine/textstats"
	"datalens/internal/errors"
)

// Engine validates requests and dispatches them to the per-type
// computations. It carries only immutable defaults.
type Engine struct {
	sampleBudget  int
	histogramBins int
	topN          int
}

// Option configures an Engine
type Option func(*Engine)

// WithSampleBudget overrides the default chart point budget.
func WithSampleBudget(budget int) Option {
	return func(e *Engine) { e.sampleBudget = budget }
}

// WithHistogramBins overrides the default bin count.
func WithHistogramBins(bins int) Option {
	return func(e *Engine) { e.histogramBins = bins }
}

// WithTopN overrides the default frequency table size.
func WithTopN(n int) Option {
	return func(e *Engine) { e.topN = n }
}

// New creates an engine with the standard defaults.
func New(opts ...Option) *Engine {
	e := &Engine{
		sampleBudget:  DefaultSampleBudget,
		histogramBins: DefaultHistogramBins,
		topN:          10,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run validates the request against the snapshot and executes the matching
// analysis. Validation failures surface before any computation; numeric
// degeneracies inside the engines resolve to well-defined sentinel outputs
// instead of errors.
func (e *Engine) Run(snap *table.Snapshot, req analysis.Request) (*analysis.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.InvalidSelection(err.Error())
	}
	if err := e.checkColumns(snap, req); err != nil {
		return nil, err
	}

	started := time.Now()
	result := &analysis.Result{
		AnalysisID: core.NewAnalysisID(),
		Type:       req.Type,
		ComputedAt: core.Now(),
	}
	perf := analysis.PerformanceMetrics{
		OriginalSize:  len(snap.Rows),
		ProcessedSize: len(snap.Rows),
	}

	budget := req.Options.SampleBudget
	if budget <= 0 {
		budget = e.sampleBudget
	}
	missing := req.Options.Missing

	switch req.Type {
	case analysis.TypeDescriptive:
		result.Descriptive = Descriptive(snap, req.Columns, missing)

	case analysis.TypeCorrelation:
		result.Correlation = Correlation(snap, req.Columns, missing)

	case analysis.TypeFactor:
		factor, err := Factor(snap, req.Columns, missing)
		if err != nil {
			return nil, err
		}
		result.Factor = factor

	case analysis.TypeChangePoint:
		series := NumericColumn(snap, req.Columns[0], missing)
		cp, err := ChangePoints(snap, req.Columns[0], req.Algorithm, req.Options.ChangePoint, budget, missing)
		if err != nil {
			return nil, err
		}
		result.ChangePoint = cp
		perf.OriginalSize = len(series)
		perf.ProcessedSize = len(cp.Series)

	case analysis.TypeHistogram:
		bins := req.Options.HistogramBins
		if bins <= 0 {
			bins = e.histogramBins
		}
		hist := Histogram(snap, req.Columns[0], bins, missing)
		result.Histogram = hist
		perf.ProcessedSize = hist.Total

	case analysis.TypeTimeSeries:
		xCol := req.XAxisColumn
		if xCol == "index" {
			xCol = ""
		}
		unit := req.Options.TimeUnit
		if xCol != "" && unit == "" {
			unit = "day"
		}
		ts := TimeSeries(snap, req.Columns[0], xCol, unit, budget, missing)
		result.TimeSeries = ts
		perf.ProcessedSize = len(ts.Points)

	case analysis.TypeMissingData:
		result.MissingData = MissingData(snap, req.Columns, missing)

	case analysis.TypeText:
		topN := req.Options.TopN
		if topN <= 0 {
			topN = e.topN
		}
		values := TextColumn(snap, req.Columns[0])
		text := textstats.Analyze(req.Columns[0], values, topN)
		result.Text = text
		perf.ProcessedSize = len(values)

	default:
		return nil, errors.InvalidSelection(fmt.Sprintf("unknown analysis type %q", req.Type))
	}

	perf.ProcessingTimeMs = float64(time.Since(started).Microseconds()) / 1000
	result.Performance = &perf
	return result, nil
}

// checkColumns verifies every selected column exists and carries a type
// the analysis accepts.
func (e *Engine) checkColumns(snap *table.Snapshot, req analysis.Request) error {
	spec, _ := analysis.SpecFor(req.Type)
	for _, name := range req.Columns {
		col, ok := snap.ColumnByName(name)
		if !ok {
			return errors.InvalidSelection(fmt.Sprintf("column %q does not exist in table %q", name, snap.Table))
		}
		if spec.RequiredType != "" && col.Type != spec.RequiredType {
			return errors.UnsupportedColumnType(fmt.Sprintf(
				"%s analysis requires %s columns, but %q is %s", req.Type, spec.RequiredType, name, col.Type))
		}
	}
	if req.Type == analysis.TypeTimeSeries && req.XAxisColumn != "" && req.XAxisColumn != "index" {
		col, ok := snap.ColumnByName(req.XAxisColumn)
		if !ok {
			return errors.InvalidSelection(fmt.Sprintf("x-axis column %q does not exist in table %q", req.XAxisColumn, snap.Table))
		}
		if col.Type == table.TypeText {
			return errors.UnsupportedColumnType(fmt.Sprintf("x-axis column %q must be a date or numeric column", req.XAxisColumn))
		}
	}
	return nil
}
