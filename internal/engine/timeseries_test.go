package engine

import (
	"testing"
	"time"

	"datalens/domain/table"
)

func timeSnapshot(start time.Time, step time.Duration, values []float64) *table.Snapshot {
	snap := &table.Snapshot{
		Table: "test",
		Columns: []table.Column{
			{Name: "ts", Type: table.TypeDate},
			{Name: "v", Type: table.TypeNumeric},
		},
	}
	for i, v := range values {
		snap.Rows = append(snap.Rows, table.Row{
			"ts": table.TimeValue(start.Add(time.Duration(i) * step)),
			"v":  table.NumberValue(v),
		})
	}
	return snap
}

func TestTimeSeries_DailyBuckets(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	// Two values per day across three days
	snap := timeSnapshot(start, 12*time.Hour, []float64{10, 20, 30, 40, 50, 60})
	result := TimeSeries(snap, "v", "ts", "day", 0, table.MissingPolicy{})

	if len(result.Points) != 3 {
		t.Fatalf("expected 3 daily buckets, got %d", len(result.Points))
	}
	expected := []struct {
		label string
		value float64
	}{
		{"2024-03-01", 15},
		{"2024-03-02", 35},
		{"2024-03-03", 55},
	}
	for i, want := range expected {
		got := result.Points[i]
		if got.Time != want.label {
			t.Errorf("bucket %d: expected label %s, got %s", i, want.label, got.Time)
		}
		if !almostEqual(got.Value, want.value) {
			t.Errorf("bucket %d: expected mean %f, got %f", i, want.value, got.Value)
		}
	}
}

func TestTimeSeries_MonthTruncation(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	snap := timeSnapshot(start, 10*24*time.Hour, []float64{1, 2, 3, 4, 5, 6})
	result := TimeSeries(snap, "v", "ts", "month", 0, table.MissingPolicy{})

	if result.Points[0].Time != "2024-01" {
		t.Errorf("expected month label 2024-01, got %s", result.Points[0].Time)
	}
	for i := 1; i < len(result.Points); i++ {
		if result.Points[i].Time <= result.Points[i-1].Time {
			t.Errorf("buckets not ordered: %s after %s", result.Points[i].Time, result.Points[i-1].Time)
		}
	}
}

func TestTimeSeries_IndexMode(t *testing.T) {
	snap := floatsSnapshot("v", 5, 6, 7, 8)
	result := TimeSeries(snap, "v", "", "", 0, table.MissingPolicy{})

	if len(result.Points) != 4 {
		t.Fatalf("expected one bucket per row, got %d", len(result.Points))
	}
	if result.Points[0].Time != "0" || result.Points[3].Time != "3" {
		t.Errorf("index labels wrong: %s ... %s", result.Points[0].Time, result.Points[3].Time)
	}
}

func TestTimeSeries_TrendIncreasing(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = float64(i) * 2
	}
	snap := floatsSnapshot("v", values...)
	result := TimeSeries(snap, "v", "", "", 0, table.MissingPolicy{})

	if result.Summary.Trend.Direction != "increasing" {
		t.Errorf("expected increasing trend, got %s", result.Summary.Trend.Direction)
	}
	if !almostEqual(result.Summary.Trend.Slope, 2) {
		t.Errorf("expected slope 2, got %f", result.Summary.Trend.Slope)
	}
}

func TestTimeSeries_TrendStableOnConstant(t *testing.T) {
	snap := floatsSnapshot("v", 5, 5, 5, 5, 5, 5, 5, 5)
	result := TimeSeries(snap, "v", "", "", 0, table.MissingPolicy{})

	if result.Summary.Trend.Direction != "stable" {
		t.Errorf("expected stable trend, got %s", result.Summary.Trend.Direction)
	}
}

func TestTimeSeries_MovingAverageWindow(t *testing.T) {
	cases := []struct {
		n, want int
	}{
		{10, 3},
		{50, 5},
		{100, 10},
		{500, 20},
	}
	for _, c := range cases {
		if got := movingAverageWindow(c.n); got != c.want {
			t.Errorf("window for n=%d: expected %d, got %d", c.n, c.want, got)
		}
	}
}

func TestTimeSeries_MovingAverageValues(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(i)
	}
	snap := floatsSnapshot("v", values...)
	result := TimeSeries(snap, "v", "", "", 0, table.MissingPolicy{})

	window := result.Summary.MovingAverageWindow
	if window != 3 {
		t.Fatalf("expected window 3 for 30 points, got %d", window)
	}
	// No moving average before a full window
	for i := 0; i < window-1; i++ {
		if result.Points[i].MovingAverage != nil {
			t.Errorf("point %d should have no moving average", i)
		}
	}
	// Trailing mean of 0,1,2 is 1
	if ma := result.Points[2].MovingAverage; ma == nil || !almostEqual(*ma, 1) {
		t.Errorf("expected moving average 1 at index 2, got %v", ma)
	}
}

func TestTimeSeries_SamplingAppliedToChart(t *testing.T) {
	values := make([]float64, 2000)
	for i := range values {
		values[i] = float64(i % 17)
	}
	snap := floatsSnapshot("v", values...)
	result := TimeSeries(snap, "v", "", "", 100, table.MissingPolicy{})

	if len(result.Points) != 100 {
		t.Errorf("expected 100 sampled points, got %d", len(result.Points))
	}
	if result.Sampling == nil {
		t.Fatal("expected sampling info")
	}
	if !almostEqual(result.Sampling.SamplingRatio, 0.05) {
		t.Errorf("expected ratio 0.05, got %f", result.Sampling.SamplingRatio)
	}
	// Summary still reflects the full series
	if result.Summary.Mean == 0 {
		t.Error("summary mean should be computed before sampling")
	}
}

func TestTimeSeries_Empty(t *testing.T) {
	snap := numericSnapshot("v", []table.Value{table.Null()})
	result := TimeSeries(snap, "v", "", "", 0, table.MissingPolicy{})

	if len(result.Points) != 0 {
		t.Errorf("expected no points, got %d", len(result.Points))
	}
	if result.Summary.Trend.Direction != "stable" {
		t.Errorf("expected stable direction sentinel, got %s", result.Summary.Trend.Direction)
	}
}
