package changepoint

import (
	"sort"

	"datalens/domain/analysis"
)

const (
	binsegDefaultMinSegment = 5
	binsegMaxDepth          = 10
	binsegSignificance      = 0.05 // minimum relative variance reduction
)

// BinarySegmentationDetector recursively splits the series at the point
// that maximizes the reduction in within-segment sum of squares, then
// recurses into each half. Recursion stops when the relative reduction
// falls below the significance threshold, a segment gets shorter than the
// minimum length, or the depth cap is reached. The traversal uses an
// explicit stack so depth stays bounded on adversarial input.
type BinarySegmentationDetector struct{}

// NewBinarySegmentationDetector creates a binary segmentation detector
func NewBinarySegmentationDetector() *BinarySegmentationDetector {
	return &BinarySegmentationDetector{}
}

// Name returns the algorithm name
func (d *BinarySegmentationDetector) Name() string { return "binary_segmentation" }

// Description returns a human-readable description
func (d *BinarySegmentationDetector) Description() string {
	return "Recursive variance-reduction splitting of the series"
}

type segment struct {
	lo, hi, depth int
}

// Detect runs binary segmentation over the series
func (d *BinarySegmentationDetector) Detect(series []float64, params Params) Detection {
	minSeg := params.MinSegment
	if minSeg <= 0 {
		minSeg = binsegDefaultMinSegment
	}
	significance := binsegSignificance / params.sensitivity()

	// Prefix sums let every segment SSE query run in constant time
	n := len(series)
	prefix := make([]float64, n+1)
	prefixSq := make([]float64, n+1)
	for i, v := range series {
		prefix[i+1] = prefix[i] + v
		prefixSq[i+1] = prefixSq[i] + v*v
	}
	sse := func(lo, hi int) float64 { // [lo, hi)
		cnt := float64(hi - lo)
		if cnt <= 0 {
			return 0
		}
		sum := prefix[hi] - prefix[lo]
		sumSq := prefixSq[hi] - prefixSq[lo]
		return sumSq - sum*sum/cnt
	}

	var points []analysis.ChangePoint
	stack := []segment{{lo: 0, hi: n, depth: 0}}
	for len(stack) > 0 {
		seg := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if seg.hi-seg.lo < 2*minSeg || seg.depth >= binsegMaxDepth {
			continue
		}
		total := sse(seg.lo, seg.hi)
		if total <= 0 {
			continue
		}

		bestSplit, bestReduction := -1, 0.0
		for s := seg.lo + minSeg; s <= seg.hi-minSeg; s++ {
			reduction := total - sse(seg.lo, s) - sse(s, seg.hi)
			if reduction > bestReduction {
				bestReduction = reduction
				bestSplit = s
			}
		}
		if bestSplit < 0 {
			continue
		}

		ratio := bestReduction / total
		if ratio < significance {
			continue
		}

		points = append(points, analysis.ChangePoint{
			Index:      bestSplit,
			Value:      series[bestSplit],
			Confidence: clamp01(ratio),
		})
		stack = append(stack,
			segment{lo: seg.lo, hi: bestSplit, depth: seg.depth + 1},
			segment{lo: bestSplit, hi: seg.hi, depth: seg.depth + 1},
		)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Index < points[j].Index })
	if points == nil {
		points = []analysis.ChangePoint{}
	}
	return Detection{
		ChangePoints: points,
		Statistics: analysis.ChangePointStatistics{
			Algorithm:         d.Name(),
			AverageConfidence: averageConfidence(points),
		},
	}
}
