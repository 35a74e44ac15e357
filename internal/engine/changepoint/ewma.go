package changepoint

import (
	"math"

	"datalens/domain/analysis"
)

// EWMADetector tracks an exponentially weighted moving average and flags
// indices where the raw value escapes the control band around it. The band
// width is a multiple of the EWMA's own standard deviation, which follows
// from the smoothing factor. Consecutive excursions collapse into the
// single index of maximal deviation.
type EWMADetector struct{}

// NewEWMADetector creates an EWMA detector
func NewEWMADetector() *EWMADetector {
	return &EWMADetector{}
}

// Name returns the algorithm name
func (d *EWMADetector) Name() string { return "ewma" }

// Description returns a human-readable description
func (d *EWMADetector) Description() string {
	return "Exponentially weighted moving average control chart"
}

// Detect runs the EWMA control chart over the series
func (d *EWMADetector) Detect(series []float64, params Params) Detection {
	if len(series) < 3 {
		return emptyDetection(d.Name())
	}
	lambda := params.Lambda
	if lambda <= 0 || lambda >= 1 {
		lambda = 0.2
	}

	globalStd := populationStd(series)
	if globalStd == 0 {
		det := emptyDetection(d.Name())
		threshold := 0.0
		det.Statistics.Threshold = &threshold
		det.Statistics.GlobalStd = &globalStd
		return det
	}

	// Asymptotic standard deviation of the EWMA statistic
	ewmaStd := globalStd * math.Sqrt(lambda/(2-lambda))
	controlLimit := 3 * params.sensitivity()
	threshold := controlLimit * ewmaStd

	var points []analysis.ChangePoint
	bestIdx, bestDev := -1, 0.0
	flush := func() {
		if bestIdx >= 0 {
			points = append(points, analysis.ChangePoint{
				Index:      bestIdx,
				Value:      series[bestIdx],
				Confidence: clamp01(bestDev / (1.5 * threshold)),
			})
			bestIdx, bestDev = -1, 0
		}
	}

	ewma := series[0]
	for i := 1; i < len(series); i++ {
		dev := math.Abs(series[i] - ewma)
		if dev > threshold {
			if dev > bestDev {
				bestIdx, bestDev = i, dev
			}
		} else {
			flush()
		}
		ewma = lambda*series[i] + (1-lambda)*ewma
	}
	flush()

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
