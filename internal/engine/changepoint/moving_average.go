package changepoint

import (
	"datalens/domain/analysis"
	"math"
)

// MovingAverageDetector flags indices where a short-window rolling mean
// pulls away from a long-window rolling mean by more than a multiple of
// the global standard deviation. Consecutive flagged indices are collapsed
// into the single index of maximal deviation.
type MovingAverageDetector struct{}

// NewMovingAverageDetector creates a moving average detector
func NewMovingAverageDetector() *MovingAverageDetector {
	return &MovingAverageDetector{}
}

// Name returns the algorithm name
func (d *MovingAverageDetector) Name() string { return "moving_average" }

// Description returns a human-readable description
func (d *MovingAverageDetector) Description() string {
	return "Flags divergence between short-window and long-window rolling means"
}

// Detect runs the moving average comparison over the series
func (d *MovingAverageDetector) Detect(series []float64, params Params) Detection {
	short := params.ShortWindow
	if short <= 0 {
		short = 5
	}
	long := params.LongWindow
	if long <= short {
		long = 3 * short
	}
	if long > len(series) {
		long = len(series)
	}
	if short >= long || len(series) < long+1 {
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

	threshold := params.sensitivity() * globalStd

	shortMA := trailingMeans(series, short)
	longMA := trailingMeans(series, long)

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

	for i := long - 1; i < len(series); i++ {
		dev := math.Abs(shortMA[i] - longMA[i])
		if dev > threshold {
			if dev > bestDev {
				bestIdx, bestDev = i, dev
			}
			continue
		}
		flush()
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

// trailingMeans returns the trailing window mean at each index; entries
// before a full window repeat the mean of the available prefix.
func trailingMeans(series []float64, window int) []float64 {
	out := make([]float64, len(series))
	sum := 0.0
	for i, v := range series {
		sum += v
		if i >= window {
			sum -= series[i-window]
		}
		n := window
		if i+1 < window {
			n = i + 1
		}
		out[i] = sum / float64(n)
	}
	return out
}
