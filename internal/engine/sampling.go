package engine

import (
	"math"

	"datalens/domain/analysis"
)

// DefaultSampleBudget is the chart point budget used when a request leaves
// it unset.
const DefaultSampleBudget = 500

// Sampling affects only the points handed to the charting layer; every
// statistic is computed on the unsampled series first.

// SamplePoints downsamples an ordered xy series to the target budget using
// largest-triangle-three-buckets, which keeps the visually dominant points.
// First and last points are always retained. Within budget, the series is
// returned unchanged with ratio 1.
func SamplePoints(points []analysis.Point, budget int) ([]analysis.Point, analysis.SamplingInfo) {
	if budget <= 0 {
		budget = DefaultSampleBudget
	}
	n := len(points)
	if n <= budget {
		return points, analysis.SamplingInfo{SamplingRatio: 1, Method: "none"}
	}
	info := analysis.SamplingInfo{
		SamplingRatio: float64(budget) / float64(n),
		Method:        "lttb",
	}
	if budget < 3 {
		// Too small for triangle buckets; keep the endpoints only
		return []analysis.Point{points[0], points[n-1]}, info
	}

	sampled := make([]analysis.Point, 0, budget)
	sampled = append(sampled, points[0])

	bucketSize := float64(n-2) / float64(budget-2)
	prev := 0
	for i := 0; i < budget-2; i++ {
		// Average of the next bucket anchors the triangle
		nextStart := int(math.Floor(float64(i+1)*bucketSize)) + 1
		nextEnd := int(math.Floor(float64(i+2)*bucketSize)) + 1
		if nextEnd > n-1 {
			nextEnd = n - 1
		}
		avgX, avgY := 0.0, 0.0
		span := nextEnd - nextStart
		if span < 1 {
			span = 1
			nextStart = nextEnd - 1
		}
		for j := nextStart; j < nextEnd; j++ {
			avgX += points[j].X
			avgY += points[j].Y
		}
		avgX /= float64(span)
		avgY /= float64(span)

		curStart := int(math.Floor(float64(i)*bucketSize)) + 1
		curEnd := int(math.Floor(float64(i+1)*bucketSize)) + 1
		if curEnd > n-1 {
			curEnd = n - 1
		}

		bestArea := -1.0
		bestIdx := curStart
		for j := curStart; j < curEnd; j++ {
			area := math.Abs((points[prev].X-avgX)*(points[j].Y-points[prev].Y)-
				(points[prev].X-points[j].X)*(avgY-points[prev].Y)) / 2
			if area > bestArea {
				bestArea = area
				bestIdx = j
			}
		}
		sampled = append(sampled, points[bestIdx])
		prev = bestIdx
	}

	sampled = append(sampled, points[n-1])
	return sampled, info
}

// SampleSeries downsamples a plain ordered series with a uniform stride
// that always retains the first and last elements.
func SampleSeries(values []float64, budget int) ([]float64, analysis.SamplingInfo) {
	if budget <= 0 {
		budget = DefaultSampleBudget
	}
	n := len(values)
	if n <= budget {
		return values, analysis.SamplingInfo{SamplingRatio: 1, Method: "none"}
	}
	info := analysis.SamplingInfo{
		SamplingRatio: float64(budget) / float64(n),
		Method:        "uniform_stride",
	}
	if budget < 2 {
		return []float64{values[0], values[n-1]}, info
	}

	sampled := make([]float64, 0, budget)
	step := float64(n-1) / float64(budget-1)
	for i := 0; i < budget; i++ {
		idx := int(math.Round(float64(i) * step))
		if idx > n-1 {
			idx = n - 1
		}
		sampled = append(sampled, values[idx])
	}
	return sampled, info
}
