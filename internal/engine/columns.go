package engine

import (
	"datalens/domain/table"
)

// NumericColumn extracts the non-missing numeric values of one column in
// snapshot order. This is the shared extraction helper every numeric
// engine goes through.
func NumericColumn(snap *table.Snapshot, column string, p table.MissingPolicy) []float64 {
	values := make([]float64, 0, len(snap.Rows))
	for _, row := range snap.Rows {
		v := row.Get(column)
		if v.IsMissing(p) {
			continue
		}
		if f, ok := v.AsFloat(); ok {
			values = append(values, f)
		}
	}
	return values
}

// NumericColumnIndexed returns the non-missing numeric values together with
// their original row indices, for engines that report positions.
func NumericColumnIndexed(snap *table.Snapshot, column string, p table.MissingPolicy) ([]float64, []int) {
	values := make([]float64, 0, len(snap.Rows))
	indices := make([]int, 0, len(snap.Rows))
	for i, row := range snap.Rows {
		v := row.Get(column)
		if v.IsMissing(p) {
			continue
		}
		if f, ok := v.AsFloat(); ok {
			values = append(values, f)
			indices = append(indices, i)
		}
	}
	return values, indices
}

// PairedColumns extracts rows where both columns are non-missing numerics
// (pairwise deletion).
func PairedColumns(snap *table.Snapshot, colA, colB string, p table.MissingPolicy) (x, y []float64) {
	for _, row := range snap.Rows {
		va, vb := row.Get(colA), row.Get(colB)
		if va.IsMissing(p) || vb.IsMissing(p) {
			continue
		}
		fa, okA := va.AsFloat()
		fb, okB := vb.AsFloat()
		if !okA || !okB {
			continue
		}
		x = append(x, fa)
		y = append(y, fb)
	}
	return x, y
}

// ListwiseColumns extracts rows complete across all given columns
// (listwise deletion). The result is column-major: one slice per column,
// all of equal length.
func ListwiseColumns(snap *table.Snapshot, columns []string, p table.MissingPolicy) [][]float64 {
	out := make([][]float64, len(columns))
	for i := range out {
		out[i] = []float64{}
	}
	row := make([]float64, len(columns))
	for _, r := range snap.Rows {
		complete := true
		for i, col := range columns {
			v := r.Get(col)
			if v.IsMissing(p) {
				complete = false
				break
			}
			f, ok := v.AsFloat()
			if !ok {
				complete = false
				break
			}
			row[i] = f
		}
		if !complete {
			continue
		}
		for i := range columns {
			out[i] = append(out[i], row[i])
		}
	}
	return out
}

// TextColumn extracts the string values of one column in snapshot order.
// Null/absent entries are skipped; empty strings are kept so the text
// analyzer can report the empty ratio itself.
func TextColumn(snap *table.Snapshot, column string) []string {
	values := make([]string, 0, len(snap.Rows))
	for _, row := range snap.Rows {
		v := row.Get(column)
		if v.Kind == table.KindNull || v.Kind == table.KindAbsent {
			continue
		}
		if s, ok := v.AsString(); ok {
			values = append(values, s)
		}
	}
	return values
}
