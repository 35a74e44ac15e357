package engine

import (
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat"

	"datalens/domain/analysis"
	"datalens/domain/table"
)

// Moving average window bounds: window scales with series length but stays
// inside [minMAWindow, maxMAWindow].
const (
	minMAWindow = 3
	maxMAWindow = 20
)

// TimeSeries buckets one numeric column along an x-axis column and
// aggregates each bucket with its mean. Temporal axes are truncated to the
// requested unit (hour/day/week/month); the synthetic "index" axis puts
// each row in its own bucket. The summary carries a trailing moving
// average and an OLS trend; both are computed on the full bucket series
// before any chart sampling.
func TimeSeries(snap *table.Snapshot, valueColumn, xColumn, unit string, budget int, p table.MissingPolicy) *analysis.TimeSeriesResult {
	labels, values := bucketize(snap, valueColumn, xColumn, unit, p)
	if len(values) == 0 {
		return &analysis.TimeSeriesResult{
			Points:  []analysis.TimeSeriesPoint{},
			Summary: analysis.TimeSeriesSummary{Trend: analysis.Trend{Direction: "stable"}},
		}
	}

	window := movingAverageWindow(len(values))
	movingAvg := trailingMovingAverage(values, window)

	points := make([]analysis.TimeSeriesPoint, len(values))
	for i := range values {
		points[i] = analysis.TimeSeriesPoint{Time: labels[i], Value: values[i]}
		if movingAvg[i] != nil {
			points[i].MovingAverage = movingAvg[i]
		}
	}

	summary := analysis.TimeSeriesSummary{
		Mean:                stat.Mean(values, nil),
		Trend:               fitTrend(values),
		MovingAverageWindow: window,
	}

	result := &analysis.TimeSeriesResult{Points: points, Summary: summary}
	if budget > 0 && len(points) > budget {
		xy := make([]analysis.Point, len(points))
		for i, pt := range points {
			xy[i] = analysis.Point{X: float64(i), Y: pt.Value, Label: pt.Time}
		}
		sampledXY, info := SamplePoints(xy, budget)
		sampled := make([]analysis.TimeSeriesPoint, len(sampledXY))
		for i, pt := range sampledXY {
			sampled[i] = points[int(pt.X)]
		}
		result.Points = sampled
		result.Sampling = &info
	}
	return result
}

// bucketize groups non-missing values by the truncated x-axis and returns
// ordered bucket labels plus per-bucket means.
func bucketize(snap *table.Snapshot, valueColumn, xColumn, unit string, p table.MissingPolicy) ([]string, []float64) {
	if unit == "index" || xColumn == "" {
		values, indices := NumericColumnIndexed(snap, valueColumn, p)
		labels := make([]string, len(values))
		for i, idx := range indices {
			labels[i] = strconv.Itoa(idx)
		}
		return labels, values
	}

	type bucket struct {
		sum   float64
		count int
	}
	buckets := map[int64]*bucket{}
	for _, row := range snap.Rows {
		v := row.Get(valueColumn)
		xv := row.Get(xColumn)
		if v.IsMissing(p) || xv.IsMissing(p) {
			continue
		}
		f, ok := v.AsFloat()
		if !ok {
			continue
		}
		t, ok := xv.AsTime()
		if !ok {
			continue
		}
		key := truncateToUnit(t, unit).Unix()
		b, exists := buckets[key]
		if !exists {
			b = &bucket{}
			buckets[key] = b
		}
		b.sum += f
		b.count++
	}

	keys := make([]int64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	labels := make([]string, len(keys))
	values := make([]float64, len(keys))
	for i, k := range keys {
		labels[i] = formatBucket(time.Unix(k, 0).UTC(), unit)
		b := buckets[k]
		values[i] = b.sum / float64(b.count)
	}
	return labels, values
}

func truncateToUnit(t time.Time, unit string) time.Time {
	t = t.UTC()
	switch unit {
	case "hour":
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
	case "week":
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		// Roll back to Monday
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case "month":
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default: // day
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

func formatBucket(t time.Time, unit string) string {
	switch unit {
	case "hour":
		return t.Format("2006-01-02 15:00")
	case "month":
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// movingAverageWindow derives the window from series length: one tenth of
// the series, clamped to [3, 20].
func movingAverageWindow(n int) int {
	w := n / 10
	if w < minMAWindow {
		w = minMAWindow
	}
	if w > maxMAWindow {
		w = maxMAWindow
	}
	return w
}

// trailingMovingAverage returns one entry per value; nil until a full
// window is available.
func trailingMovingAverage(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			avg := sum / float64(window)
			out[i] = &avg
		}
	}
	return out
}

// fitTrend runs ordinary least squares over bucket index vs aggregate
// value and classifies the slope against the data's own scale.
func fitTrend(values []float64) analysis.Trend {
	n := len(values)
	if n < 2 {
		return analysis.Trend{Direction: "stable"}
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(xs, values, nil, false)

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	// A slope is meaningful only relative to the per-bucket scale of the data
	scale := (max - min) / float64(n-1)
	threshold := 0.1 * scale

	direction := "stable"
	if scale > 0 {
		if slope > threshold {
			direction = "increasing"
		} else if slope < -threshold {
			direction = "decreasing"
		}
	}
	return analysis.Trend{Slope: slope, Intercept: intercept, Direction: direction}
}
