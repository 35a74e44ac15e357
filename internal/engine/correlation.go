package engine

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"datalens/domain/analysis"
	"datalens/domain/table"
)

// Correlation computes the Pearson correlation for every unordered pair of
// the selected columns, in selection order. Each pair uses pairwise
// deletion: only rows where both columns are non-missing contribute.
func Correlation(snap *table.Snapshot, columns []string, p table.MissingPolicy) *analysis.CorrelationResult {
	pairs := make([]analysis.CorrelationPair, 0, len(columns)*(len(columns)-1)/2)
	for i := 0; i < len(columns); i++ {
		for j := i + 1; j < len(columns); j++ {
			x, y := PairedColumns(snap, columns[i], columns[j], p)
			pairs = append(pairs, analysis.CorrelationPair{
				Column1:     columns[i],
				Column2:     columns[j],
				Correlation: pearson(x, y),
				SampleSize:  len(x),
			})
		}
	}
	return &analysis.CorrelationResult{Pairs: pairs}
}

// pearson returns the Pearson coefficient, defined as 0 for degenerate
// inputs (fewer than two pairs, zero variance in either column) so that
// downstream consumers never see NaN.
func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	// Clamp floating point spill outside [-1, 1]
	return math.Max(-1, math.Min(1, r))
}
