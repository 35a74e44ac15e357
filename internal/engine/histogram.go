package engine

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"datalens/domain/analysis"
	"datalens/domain/table"
)

// DefaultHistogramBins is the bin count used when the request leaves it unset.
const DefaultHistogramBins = 10

// Histogram partitions the non-missing values of one numeric column into
// equal-width bins over [min, max]. A constant column collapses into a
// single bin holding every value.
func Histogram(snap *table.Snapshot, column string, bins int, p table.MissingPolicy) *analysis.HistogramResult {
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	values := NumericColumn(snap, column, p)
	if len(values) == 0 {
		return &analysis.HistogramResult{Bins: []analysis.HistogramBin{}}
	}

	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	if min == max {
		return &analysis.HistogramResult{
			Bins: []analysis.HistogramBin{{
				Bin:        binLabel(min, max),
				LowerBound: min,
				UpperBound: max,
				Count:      len(values),
				Frequency:  100,
			}},
			Total: len(values),
		}
	}

	width := (max - min) / float64(bins)
	counts := make([]int, bins)
	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= bins { // v == max lands past the last bin edge
			idx = bins - 1
		}
		counts[idx]++
	}

	total := len(values)
	out := make([]analysis.HistogramBin, bins)
	for i := 0; i < bins; i++ {
		lo := min + float64(i)*width
		hi := lo + width
		out[i] = analysis.HistogramBin{
			Bin:        binLabel(lo, hi),
			LowerBound: lo,
			UpperBound: hi,
			Count:      counts[i],
			Frequency:  100 * float64(counts[i]) / float64(total),
		}
	}

	return &analysis.HistogramResult{Bins: out, Total: total}
}

func binLabel(lo, hi float64) string {
	return fmt.Sprintf("%.4g–%.4g", lo, hi)
}
