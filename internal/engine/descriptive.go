package engine

import (
	"sort"

	"github.com/montanaflynn/stats"

	"datalens/domain/analysis"
	"datalens/domain/table"
)

// Descriptive computes the per-column summary for every selected column.
// Columns with no non-missing values yield Available=false sentinels so
// callers can tell "no data" apart from a genuine zero.
func Descriptive(snap *table.Snapshot, columns []string, p table.MissingPolicy) []analysis.DescriptiveResult {
	results := make([]analysis.DescriptiveResult, 0, len(columns))
	for _, col := range columns {
		results = append(results, describeColumn(snap, col, p))
	}
	return results
}

func describeColumn(snap *table.Snapshot, column string, p table.MissingPolicy) analysis.DescriptiveResult {
	values := NumericColumn(snap, column, p)
	total := len(snap.Rows)

	result := analysis.DescriptiveResult{
		Column: column,
		Count:  len(values),
	}
	if total > 0 {
		result.MissingRatio = float64(total-len(values)) / float64(total)
	}
	if len(values) == 0 {
		return result
	}

	mean, _ := stats.Mean(values)
	std, _ := stats.StandardDeviationPopulation(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	result.Available = true
	result.Mean = mean
	result.Std = std
	result.Min = min
	result.Max = max
	result.Quartiles = analysis.Quartiles{
		Q1: interpolatedQuantile(sorted, 0.25),
		Q2: interpolatedQuantile(sorted, 0.50),
		Q3: interpolatedQuantile(sorted, 0.75),
	}
	return result
}

// interpolatedQuantile computes the q-quantile of an ascending-sorted slice
// by linear interpolation between ranks: rank = q*(n-1), fractional ranks
// interpolated between adjacent elements.
func interpolatedQuantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	rank := q * float64(n-1)
	lo := int(rank)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
