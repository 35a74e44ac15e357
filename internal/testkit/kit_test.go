package testkit

import (
	"testing"

	"datalens/domain/table"
)

func TestGenerator_Deterministic(t *testing.T) {
	opts := Options{Rows: 50, Seed: 7, Missing: MissingOptions{IncludeNulls: true}}
	first := NewGenerator(opts).Sales()
	second := NewGenerator(opts).Sales()

	if len(first.Rows) != len(second.Rows) {
		t.Fatal("row counts differ between identical seeds")
	}
	for i := range first.Rows {
		for _, col := range ColumnNames(first) {
			a, b := first.Rows[i].Get(col), second.Rows[i].Get(col)
			if a != b {
				t.Fatalf("row %d column %s differs: %v vs %v", i, col, a, b)
			}
		}
	}
}

func TestGenerator_SeedChangesOutput(t *testing.T) {
	first := NewGenerator(Options{Rows: 50, Seed: 1}).Sales()
	second := NewGenerator(Options{Rows: 50, Seed: 2}).Sales()

	same := true
	for i := range first.Rows {
		if first.Rows[i].Get("units") != second.Rows[i].Get("units") {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds should produce different data")
	}
}

func TestGenerator_MissingInjection(t *testing.T) {
	gen := NewGenerator(Options{Rows: 500, Seed: 3, Missing: MissingOptions{IncludeNulls: true, MissingRate: 0.2}})
	snap := gen.Sales()

	nulls := 0
	for _, row := range snap.Rows {
		if row.Get("units").Kind == table.KindNull {
			nulls++
		}
	}
	if nulls == 0 {
		t.Error("expected some injected nulls at rate 0.2")
	}
	if nulls > 250 {
		t.Errorf("too many nulls for rate 0.2: %d of 500", nulls)
	}
}

func TestGenerator_NoMissingWithoutShapes(t *testing.T) {
	snap := NewGenerator(Options{Rows: 200, Seed: 4}).Sales()
	for i, row := range snap.Rows {
		for _, col := range ColumnNames(snap) {
			if row.Get(col).IsMissing(table.MissingPolicy{}) {
				t.Fatalf("row %d column %s missing with no shapes enabled", i, col)
			}
		}
	}
}

func TestStepSeries_Shape(t *testing.T) {
	snap := NewGenerator(Options{}).StepSeries(100, 0, 10)
	if len(snap.Rows) != 100 {
		t.Fatalf("expected 100 rows, got %d", len(snap.Rows))
	}
	lo, _ := snap.Rows[0].Get("value").AsFloat()
	hi, _ := snap.Rows[99].Get("value").AsFloat()
	if lo != 0 || hi != 10 {
		t.Errorf("expected 0..10 step, got %f..%f", lo, hi)
	}
	mid, _ := snap.Rows[50].Get("value").AsFloat()
	if mid != 10 {
		t.Errorf("step should switch at the midpoint, got %f", mid)
	}
}
