package changepoint

import (
	"math"

	"datalens/domain/analysis"
)

// CUSUMDetector accumulates signed deviations from the series baseline and
// flags a change when either cumulative sum crosses the decision
// threshold. The accumulators reset after each flagged point so sustained
// shifts yield one detection, not a stream.
type CUSUMDetector struct{}

// NewCUSUMDetector creates a CUSUM detector
func NewCUSUMDetector() *CUSUMDetector {
	return &CUSUMDetector{}
}

// Name returns the algorithm name
func (d *CUSUMDetector) Name() string { return "cusum" }

// Description returns a human-readable description
func (d *CUSUMDetector) Description() string {
	return "Cumulative-sum control chart for sustained mean shifts"
}

// Detect runs the two-sided CUSUM over the series
func (d *CUSUMDetector) Detect(series []float64, params Params) Detection {
	if len(series) < 4 {
		return emptyDetection(d.Name())
	}

	globalStd := populationStd(series)
	if globalStd == 0 {
		det := emptyDetection(d.Name())
		threshold := 0.0
		det.Statistics.Threshold = &threshold
		det.Statistics.GlobalStd = &globalStd
		return det
	}

	slack := globalStd / 2
	threshold := 4 * globalStd * params.sensitivity()

	var points []analysis.ChangePoint
	posSum, negSum := 0.0, 0.0
	segSum, segCount := 0.0, 0
	lastFlag := -1

	for i, v := range series {
		// Baseline is the running mean of the segment since the last
		// flagged point, so earlier regimes do not poison the target.
		segSum += v
		segCount++
		baseline := segSum / float64(segCount)

		posSum = math.Max(0, posSum+v-baseline-slack)
		negSum = math.Max(0, negSum+baseline-v-slack)

		if posSum > threshold || negSum > threshold {
			points = append(points, analysis.ChangePoint{
				Index:      i,
				Value:      v,
				Confidence: cusumConfidence(series, lastFlag+1, i, globalStd),
			})
			lastFlag = i
			posSum, negSum = 0, 0
			segSum, segCount = 0, 0
		}
	}

	if points == nil {
		points = []analysis.ChangePoint{}
	}
	return Detection{
		ChangePoints: points,
		Statistics: analysis.ChangePointStatistics{
			Algorithm:         d.Name(),
			AverageConfidence: averageConfidence(points),
			Threshold:         &threshold,
			GlobalStd:         &globalStd,
		},
	}
}

// cusumConfidence scales with the mean shift across the flagged index,
// normalized by the global noise level.
func cusumConfidence(series []float64, segStart, flagIdx int, globalStd float64) float64 {
	before := series[segStart : flagIdx+1]
	afterEnd := flagIdx + 1 + len(before)
	if afterEnd > len(series) {
		afterEnd = len(series)
	}
	after := series[flagIdx+1 : afterEnd]
	if len(after) == 0 {
		after = series[flagIdx:]
	}
	shift := math.Abs(mean(after) - mean(before))
	return clamp01(shift / (2 * globalStd))
}
