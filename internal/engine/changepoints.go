package engine

import (
	"datalens/domain/analysis"
	"datalens/domain/table"
	"datalens/internal/engine/changepoint"
)

// ChangePoints runs the selected detection algorithm over the non-missing
// series of one numeric column. Detection always runs on the full series;
// only the chart view in the result is downsampled.
func ChangePoints(snap *table.Snapshot, column, algorithm string, opts analysis.ChangePointOptions, budget int, p table.MissingPolicy) (*analysis.ChangePointResult, error) {
	series := NumericColumn(snap, column, p)

	registry := changepoint.NewRegistry()
	detection, err := registry.Detect(algorithm, series, changepoint.Params{
		Sensitivity: opts.Sensitivity,
		ShortWindow: opts.ShortWindow,
		LongWindow:  opts.LongWindow,
		Lambda:      opts.Lambda,
		MinSegment:  opts.MinSegment,
	})
	if err != nil {
		return nil, err
	}

	result := &analysis.ChangePointResult{
		ChangePoints: detection.ChangePoints,
		Statistics:   detection.Statistics,
	}

	points := make([]analysis.Point, len(series))
	for i, v := range series {
		points[i] = analysis.Point{X: float64(i), Y: v}
	}
	sampled, info := SamplePoints(points, budget)
	result.Series = sampled
	if info.SamplingRatio < 1 {
		result.Sampling = &info
	}
	return result, nil
}

// ChangePointAlgorithms lists the available algorithm names.
func ChangePointAlgorithms() []string {
	return changepoint.NewRegistry().List()
}
