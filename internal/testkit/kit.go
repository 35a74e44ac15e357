// Package testkit generates deterministic synthetic tables for tests and
// demos. Generation is seeded, so the same options always produce the
// same snapshot.
package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"datalens/domain/table"
)

// MissingOptions controls which missing shapes the generator injects.
// These are the generation-side counterparts of the detection policy: the
// generator can plant nulls, absent cells, empty strings and zeros so
// detector behavior under each shape is testable.
type MissingOptions struct {
	IncludeNulls     bool
	IncludeUndefined bool
	IncludeEmpty     bool
	IncludeZero      bool
	// MissingRate is the per-cell probability of injecting one of the
	// enabled shapes. Default 0.1 when any shape is enabled.
	MissingRate float64
}

// Options configures a synthetic table
type Options struct {
	Rows    int
	Seed    int64
	Missing MissingOptions
	// Start anchors the date column; default 2024-01-01 UTC.
	Start time.Time
}

// Generator produces synthetic snapshots
type Generator struct {
	opts Options
	rng  *rand.Rand
}

// NewGenerator creates a seeded generator.
func NewGenerator(opts Options) *Generator {
	if opts.Rows <= 0 {
		opts.Rows = 100
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	if opts.Missing.MissingRate <= 0 {
		opts.Missing.MissingRate = 0.1
	}
	if opts.Start.IsZero() {
		opts.Start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Generator{opts: opts, rng: rand.New(rand.NewSource(opts.Seed))}
}

// Sales produces a synthetic sales table with correlated numeric columns,
// a trending series, a text column and a date column. Column semantics:
// revenue tracks units (strong positive correlation), temperature is
// independent noise, visits trends upward over time.
func (g *Generator) Sales() *table.Snapshot {
	snap := &table.Snapshot{
		Table: "sales",
		Columns: []table.Column{
			{Name: "date", Type: table.TypeDate},
			{Name: "units", Type: table.TypeNumeric},
			{Name: "revenue", Type: table.TypeNumeric},
			{Name: "temperature", Type: table.TypeNumeric},
			{Name: "visits", Type: table.TypeNumeric},
			{Name: "note", Type: table.TypeText},
		},
	}

	notes := []string{
		"Steady demand across the morning shift.",
		"Promotion drove extra foot traffic today!",
		"Contact support@example.com for invoice questions.",
		"Restock scheduled, see https://example.com/restock for details.",
		"Quiet day. Weather kept customers away.",
	}

	for i := 0; i < g.opts.Rows; i++ {
		units := 20 + 10*g.norm()
		row := table.Row{
			"date":        table.TimeValue(g.opts.Start.AddDate(0, 0, i)),
			"units":       g.numericCell(units),
			"revenue":     g.numericCell(units*9.5 + 5*g.norm()),
			"temperature": g.numericCell(15 + 8*g.norm()),
			"visits":      g.numericCell(100 + 0.8*float64(i) + 12*g.norm()),
			"note":        g.textCell(notes[g.rng.Intn(len(notes))]),
		}
		snap.Rows = append(snap.Rows, row)
	}
	return snap
}

// StepSeries produces a single-column table that is low for the first half
// and high for the second, the canonical change-point fixture.
func (g *Generator) StepSeries(n int, low, high float64) *table.Snapshot {
	snap := &table.Snapshot{
		Table:   "step",
		Columns: []table.Column{{Name: "value", Type: table.TypeNumeric}},
	}
	for i := 0; i < n; i++ {
		v := low
		if i >= n/2 {
			v = high
		}
		snap.Rows = append(snap.Rows, table.Row{"value": table.NumberValue(v)})
	}
	return snap
}

// numericCell wraps a value, possibly replacing it with an enabled missing
// shape.
func (g *Generator) numericCell(v float64) table.Value {
	if shape, ok := g.missingShape(); ok {
		switch shape {
		case "null":
			return table.Null()
		case "absent":
			return table.Absent()
		case "zero":
			return table.NumberValue(0)
		}
	}
	return table.NumberValue(math.Round(v*100) / 100)
}

func (g *Generator) textCell(s string) table.Value {
	if shape, ok := g.missingShape(); ok {
		switch shape {
		case "null":
			return table.Null()
		case "absent":
			return table.Absent()
		case "empty":
			return table.TextValue("")
		}
	}
	return table.TextValue(s)
}

// missingShape rolls for a missing injection and picks one enabled shape.
func (g *Generator) missingShape() (string, bool) {
	m := g.opts.Missing
	var shapes []string
	if m.IncludeNulls {
		shapes = append(shapes, "null")
	}
	if m.IncludeUndefined {
		shapes = append(shapes, "absent")
	}
	if m.IncludeEmpty {
		shapes = append(shapes, "empty")
	}
	if m.IncludeZero {
		shapes = append(shapes, "zero")
	}
	if len(shapes) == 0 {
		return "", false
	}
	if g.rng.Float64() >= m.MissingRate {
		return "", false
	}
	return shapes[g.rng.Intn(len(shapes))], true
}

func (g *Generator) norm() float64 {
	return g.rng.NormFloat64()
}

// ColumnNames is a convenience for request building in tests.
func ColumnNames(snap *table.Snapshot) []string {
	names := make([]string, len(snap.Columns))
	for i, c := range snap.Columns {
		names[i] = c.Name
	}
	return names
}

// Describe renders a short fixture summary, useful in demo output.
func Describe(snap *table.Snapshot) string {
	return fmt.Sprintf("%s: %d rows, %d columns", snap.Table, len(snap.Rows), len(snap.Columns))
}
