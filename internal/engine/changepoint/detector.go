// Package changepoint detects shifts in ordered numeric series. Four
// interchangeable algorithms sit behind one Detector interface; callers
// select one by name through the Registry.
package changepoint

import (
	"math"

	"datalens/domain/analysis"
	"datalens/internal/errors"
)

// Params carries per-algorithm tuning. Zero values select defaults.
type Params struct {
	Sensitivity float64 // threshold multiplier, default 1
	ShortWindow int     // moving average short window, default 5
	LongWindow  int     // moving average long window, default 15
	Lambda      float64 // EWMA smoothing factor, default 0.2
	MinSegment  int     // binary segmentation minimum segment, default 5
}

func (p Params) sensitivity() float64 {
	if p.Sensitivity <= 0 {
		return 1
	}
	return p.Sensitivity
}

// Detection is the shared output shape of every algorithm
type Detection struct {
	ChangePoints []analysis.ChangePoint
	Statistics   analysis.ChangePointStatistics
}

// Detector is implemented by each change-point algorithm
type Detector interface {
	Name() string
	Description() string
	Detect(series []float64, params Params) Detection
}

// Registry holds the available detectors
type Registry struct {
	detectors []Detector
}

// NewRegistry creates a registry with all four algorithms
func NewRegistry() *Registry {
	return &Registry{
		detectors: []Detector{
			NewMovingAverageDetector(),
			NewCUSUMDetector(),
			NewEWMADetector(),
			NewBinarySegmentationDetector(),
		},
	}
}

// Detect runs the named algorithm over the series.
func (r *Registry) Detect(algorithm string, series []float64, params Params) (Detection, error) {
	for _, d := range r.detectors {
		if d.Name() == algorithm {
			return d.Detect(series, params), nil
		}
	}
	return Detection{}, errors.InvalidSelection("unknown change-point algorithm: " + algorithm)
}

// List returns all available algorithm names.
func (r *Registry) List() []string {
	names := make([]string, len(r.detectors))
	for i, d := range r.detectors {
		names[i] = d.Name()
	}
	return names
}

// Shared helpers

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStd is the global standard deviation used as the noise scale
// by the threshold-based detectors.
func populationStd(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

func averageConfidence(points []analysis.ChangePoint) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, cp := range points {
		sum += cp.Confidence
	}
	return sum / float64(len(points))
}

func emptyDetection(algorithm string) Detection {
	return Detection{
		ChangePoints: []analysis.ChangePoint{},
		Statistics:   analysis.ChangePointStatistics{Algorithm: algorithm},
	}
}

func clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
