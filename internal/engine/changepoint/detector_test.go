package changepoint

import (
	"math"
	"math/rand"
	"testing"
)

// stepSeries is low for the first half and high for the second, the
// canonical single-shift fixture.
func stepSeries(n int, low, high float64) []float64 {
	series := make([]float64, n)
	for i := range series {
		if i >= n/2 {
			series[i] = high
		} else {
			series[i] = low
		}
	}
	return series
}

func constantSeries(n int, v float64) []float64 {
	series := make([]float64, n)
	for i := range series {
		series[i] = v
	}
	return series
}

func TestRegistry_ListsFourAlgorithms(t *testing.T) {
	registry := NewRegistry()
	names := registry.List()

	expected := map[string]bool{
		"moving_average":      false,
		"cusum":               false,
		"ewma":                false,
		"binary_segmentation": false,
	}
	if len(names) != 4 {
		t.Fatalf("expected 4 algorithms, got %d: %v", len(names), names)
	}
	for _, name := range names {
		if _, ok := expected[name]; !ok {
			t.Errorf("unexpected algorithm %q", name)
		}
		expected[name] = true
	}
	for name, seen := range expected {
		if !seen {
			t.Errorf("algorithm %q missing from registry", name)
		}
	}
}

func TestRegistry_UnknownAlgorithm(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Detect("pelt", stepSeries(100, 0, 100), Params{})
	if err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

// Every algorithm must flag exactly one confident shift near the midpoint
// of a clean step series.
func TestDetectors_StepFunction(t *testing.T) {
	registry := NewRegistry()
	series := stepSeries(100, 0, 100)

	for _, name := range registry.List() {
		detection, err := registry.Detect(name, series, Params{})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if len(detection.ChangePoints) != 1 {
			t.Errorf("%s: expected exactly 1 change point, got %d", name, len(detection.ChangePoints))
			continue
		}
		cp := detection.ChangePoints[0]
		if cp.Index < 45 || cp.Index > 55 {
			t.Errorf("%s: change point at %d, expected near 50", name, cp.Index)
		}
		if cp.Confidence <= 0.8 {
			t.Errorf("%s: confidence %f, expected > 0.8", name, cp.Confidence)
		}
		if detection.Statistics.Algorithm != name {
			t.Errorf("%s: statistics report algorithm %q", name, detection.Statistics.Algorithm)
		}
	}
}

// A constant series has no change points under any algorithm.
func TestDetectors_ConstantSeries(t *testing.T) {
	registry := NewRegistry()
	series := constantSeries(200, 42)

	for _, name := range registry.List() {
		detection, err := registry.Detect(name, series, Params{})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if len(detection.ChangePoints) != 0 {
			t.Errorf("%s: expected no change points on constant series, got %d", name, len(detection.ChangePoints))
		}
	}
}

func TestDetectors_ShortSeries(t *testing.T) {
	registry := NewRegistry()
	for _, name := range registry.List() {
		detection, err := registry.Detect(name, []float64{1, 2}, Params{})
		if err != nil {
			t.Fatalf("%s: unexpected error on short series: %v", name, err)
		}
		if detection.ChangePoints == nil {
			t.Errorf("%s: change points slice must be non-nil", name)
		}
	}
}

func TestDetectors_Deterministic(t *testing.T) {
	registry := NewRegistry()
	rng := rand.New(rand.NewSource(7))
	series := make([]float64, 300)
	for i := range series {
		series[i] = rng.NormFloat64()
		if i >= 150 {
			series[i] += 8
		}
	}

	for _, name := range registry.List() {
		first, err := registry.Detect(name, series, Params{})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		second, err := registry.Detect(name, series, Params{})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(first.ChangePoints) != len(second.ChangePoints) {
			t.Fatalf("%s: nondeterministic point count", name)
		}
		for i := range first.ChangePoints {
			if first.ChangePoints[i] != second.ChangePoints[i] {
				t.Errorf("%s: point %d differs between runs", name, i)
			}
		}
	}
}

func TestDetectors_ConfidenceInRange(t *testing.T) {
	registry := NewRegistry()
	rng := rand.New(rand.NewSource(21))
	series := make([]float64, 400)
	for i := range series {
		series[i] = rng.NormFloat64() * 5
		if i >= 100 && i < 250 {
			series[i] += 30
		}
	}

	for _, name := range registry.List() {
		detection, err := registry.Detect(name, series, Params{})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		for _, cp := range detection.ChangePoints {
			if cp.Confidence < 0 || cp.Confidence > 1 {
				t.Errorf("%s: confidence %f outside [0,1]", name, cp.Confidence)
			}
			if math.IsNaN(cp.Value) {
				t.Errorf("%s: NaN change point value", name)
			}
		}
		avg := detection.Statistics.AverageConfidence
		if avg < 0 || avg > 1 {
			t.Errorf("%s: average confidence %f outside [0,1]", name, avg)
		}
	}
}

func TestMovingAverage_SensitivityScalesThreshold(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	series := make([]float64, 200)
	for i := range series {
		series[i] = rng.NormFloat64() * 10
		if i >= 100 {
			series[i] += 15
		}
	}

	d := NewMovingAverageDetector()
	loose := d.Detect(series, Params{Sensitivity: 0.5})
	strict := d.Detect(series, Params{Sensitivity: 2})
	if loose.Statistics.Threshold == nil || strict.Statistics.Threshold == nil {
		t.Fatal("expected thresholds in statistics")
	}
	if !almostEqualCP(*strict.Statistics.Threshold, 4**loose.Statistics.Threshold) {
		t.Errorf("threshold should scale linearly with sensitivity: %f vs %f",
			*loose.Statistics.Threshold, *strict.Statistics.Threshold)
	}
}

func almostEqualCP(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBinarySegmentation_MultipleShifts(t *testing.T) {
	series := make([]float64, 150)
	for i := range series {
		switch {
		case i < 50:
			series[i] = 0
		case i < 100:
			series[i] = 50
		default:
			series[i] = 10
		}
	}

	d := NewBinarySegmentationDetector()
	detection := d.Detect(series, Params{})
	if len(detection.ChangePoints) != 2 {
		t.Fatalf("expected 2 change points, got %d", len(detection.ChangePoints))
	}
	// Points come back ordered by index
	if detection.ChangePoints[0].Index >= detection.ChangePoints[1].Index {
		t.Error("change points not sorted by index")
	}
	for _, want := range []int{50, 100} {
		found := false
		for _, cp := range detection.ChangePoints {
			if cp.Index >= want-3 && cp.Index <= want+3 {
				found = true
			}
		}
		if !found {
			t.Errorf("no change point near index %d", want)
		}
	}
}
