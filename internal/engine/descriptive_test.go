package engine

import (
	"math"
	"testing"

	"datalens/domain/table"
)

func numericSnapshot(column string, values []table.Value) *table.Snapshot {
	snap := &table.Snapshot{
		Table:   "test",
		Columns: []table.Column{{Name: column, Type: table.TypeNumeric}},
	}
	for _, v := range values {
		snap.Rows = append(snap.Rows, table.Row{column: v})
	}
	return snap
}

func floatsSnapshot(column string, values ...float64) *table.Snapshot {
	cells := make([]table.Value, len(values))
	for i, v := range values {
		cells[i] = table.NumberValue(v)
	}
	return numericSnapshot(column, cells)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDescriptive_KnownValues(t *testing.T) {
	snap := floatsSnapshot("x", 1, 2, 3, 4, 5)
	results := Descriptive(snap, []string{"x"}, table.MissingPolicy{})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if !r.Available {
		t.Fatal("expected result to be available")
	}
	if r.Count != 5 {
		t.Errorf("expected count 5, got %d", r.Count)
	}
	if !almostEqual(r.Mean, 3) {
		t.Errorf("expected mean 3, got %f", r.Mean)
	}
	// Population std of 1..5 is sqrt(2)
	if !almostEqual(r.Std, math.Sqrt2) {
		t.Errorf("expected std sqrt(2), got %f", r.Std)
	}
	if r.Min != 1 || r.Max != 5 {
		t.Errorf("expected min 1 max 5, got %f %f", r.Min, r.Max)
	}
	if !almostEqual(r.Quartiles.Q1, 2) || !almostEqual(r.Quartiles.Q2, 3) || !almostEqual(r.Quartiles.Q3, 4) {
		t.Errorf("unexpected quartiles: %+v", r.Quartiles)
	}
}

func TestDescriptive_InterpolatedQuartiles(t *testing.T) {
	// With n=4 the quartile ranks fall between elements: rank = q*(n-1).
	snap := floatsSnapshot("x", 1, 2, 3, 4)
	r := Descriptive(snap, []string{"x"}, table.MissingPolicy{})[0]

	if !almostEqual(r.Quartiles.Q1, 1.75) {
		t.Errorf("expected Q1 1.75, got %f", r.Quartiles.Q1)
	}
	if !almostEqual(r.Quartiles.Q2, 2.5) {
		t.Errorf("expected median 2.5, got %f", r.Quartiles.Q2)
	}
	if !almostEqual(r.Quartiles.Q3, 3.25) {
		t.Errorf("expected Q3 3.25, got %f", r.Quartiles.Q3)
	}
}

func TestDescriptive_MissingExcluded(t *testing.T) {
	snap := numericSnapshot("x", []table.Value{
		table.NumberValue(10),
		table.Null(),
		table.NumberValue(20),
		table.Absent(),
	})
	r := Descriptive(snap, []string{"x"}, table.MissingPolicy{})[0]

	if r.Count != 2 {
		t.Errorf("expected 2 non-missing values, got %d", r.Count)
	}
	if !almostEqual(r.Mean, 15) {
		t.Errorf("expected mean 15, got %f", r.Mean)
	}
	if !almostEqual(r.MissingRatio, 0.5) {
		t.Errorf("expected missing ratio 0.5, got %f", r.MissingRatio)
	}
}

func TestDescriptive_ZeroPolicy(t *testing.T) {
	snap := floatsSnapshot("x", 0, 0, 10)

	def := Descriptive(snap, []string{"x"}, table.MissingPolicy{})[0]
	if def.Count != 3 {
		t.Errorf("zeros should count by default, got count %d", def.Count)
	}

	strict := Descriptive(snap, []string{"x"}, table.MissingPolicy{IncludeZero: true})[0]
	if strict.Count != 1 {
		t.Errorf("expected zeros excluded under policy, got count %d", strict.Count)
	}
	if !almostEqual(strict.Mean, 10) {
		t.Errorf("expected mean 10, got %f", strict.Mean)
	}
}

func TestDescriptive_AllMissingSentinel(t *testing.T) {
	snap := numericSnapshot("x", []table.Value{table.Null(), table.Null()})
	r := Descriptive(snap, []string{"x"}, table.MissingPolicy{})[0]

	if r.Available {
		t.Fatal("expected unavailable sentinel for all-missing column")
	}
	if r.Count != 0 {
		t.Errorf("expected count 0, got %d", r.Count)
	}
	if !almostEqual(r.MissingRatio, 1) {
		t.Errorf("expected missing ratio 1, got %f", r.MissingRatio)
	}
}

func TestDescriptive_SingleValue(t *testing.T) {
	snap := floatsSnapshot("x", 7)
	r := Descriptive(snap, []string{"x"}, table.MissingPolicy{})[0]

	if !r.Available {
		t.Fatal("expected single value to be available")
	}
	if r.Std != 0 {
		t.Errorf("expected std 0 for single value, got %f", r.Std)
	}
	if r.Quartiles.Q1 != 7 || r.Quartiles.Q2 != 7 || r.Quartiles.Q3 != 7 {
		t.Errorf("expected all quartiles 7, got %+v", r.Quartiles)
	}
}
