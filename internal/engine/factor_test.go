package engine

import (
	"math"
	"math/rand"
	"testing"

	"datalens/domain/table"
	"datalens/internal/errors"
)

func randomSnapshot(cols []string, rows int, seed int64) *table.Snapshot {
	rng := rand.New(rand.NewSource(seed))
	snap := &table.Snapshot{Table: "test"}
	for _, c := range cols {
		snap.Columns = append(snap.Columns, table.Column{Name: c, Type: table.TypeNumeric})
	}
	for i := 0; i < rows; i++ {
		base := rng.NormFloat64()
		row := table.Row{}
		for j, c := range cols {
			// First column drives the others so one component dominates
			row[c] = table.NumberValue(base*float64(j+1) + rng.NormFloat64()*0.1)
		}
		snap.Rows = append(snap.Rows, row)
	}
	return snap
}

func TestFactor_VarianceSharesSumToOne(t *testing.T) {
	cols := []string{"a", "b", "c"}
	snap := randomSnapshot(cols, 200, 42)

	result, err := Factor(snap, cols, table.MissingPolicy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Components) != len(cols) {
		t.Fatalf("expected %d components, got %d", len(cols), len(result.Components))
	}

	total := 0.0
	for _, c := range result.Components {
		if c.Variance < 0 {
			t.Errorf("component %s has negative variance share %f", c.Name, c.Variance)
		}
		total += c.Variance
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("variance shares should sum to 1, got %f", total)
	}
}

func TestFactor_ComponentsDescending(t *testing.T) {
	cols := []string{"a", "b", "c", "d"}
	snap := randomSnapshot(cols, 150, 7)

	result, err := Factor(snap, cols, table.MissingPolicy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(result.Components); i++ {
		if result.Components[i].Eigenvalue > result.Components[i-1].Eigenvalue {
			t.Errorf("eigenvalues not descending at %d: %f > %f",
				i, result.Components[i].Eigenvalue, result.Components[i-1].Eigenvalue)
		}
	}
	if result.Components[0].Name != "Component 1" {
		t.Errorf("expected first component named Component 1, got %s", result.Components[0].Name)
	}
}

func TestFactor_DominantComponent(t *testing.T) {
	// Strongly collinear columns concentrate variance in the first component
	cols := []string{"a", "b"}
	snap := randomSnapshot(cols, 300, 99)

	result, err := Factor(snap, cols, table.MissingPolicy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Components[0].Variance < 0.9 {
		t.Errorf("expected first component to carry most variance, got %f", result.Components[0].Variance)
	}
	if len(result.Components[0].Loadings) != 2 {
		t.Errorf("expected 2 loadings per component, got %d", len(result.Components[0].Loadings))
	}
}

func TestFactor_LoadingOrientation(t *testing.T) {
	cols := []string{"a", "b", "c"}
	snap := randomSnapshot(cols, 100, 13)

	result, err := Factor(snap, cols, table.MissingPolicy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, comp := range result.Components {
		maxAbs, maxVal := 0.0, 0.0
		for _, l := range comp.Loadings {
			if math.Abs(l.Loading) > maxAbs {
				maxAbs = math.Abs(l.Loading)
				maxVal = l.Loading
			}
		}
		if maxVal < 0 {
			t.Errorf("%s: largest-magnitude loading should be positive, got %f", comp.Name, maxVal)
		}
	}
}

func TestFactor_ConstantColumnsSingular(t *testing.T) {
	snap := multiSnapshot([]string{"a", "b"}, [][]table.Value{
		{num(5), num(3)},
		{num(5), num(3)},
		{num(5), num(3)},
	})
	_, err := Factor(snap, []string{"a", "b"}, table.MissingPolicy{})
	if err == nil {
		t.Fatal("expected error for all-constant columns")
	}
	if !errors.HasCode(err, errors.CodeNumericInstability) {
		t.Errorf("expected NUMERIC_INSTABILITY, got %s", errors.GetCode(err))
	}
}

func TestFactor_TooFewCompleteRows(t *testing.T) {
	snap := multiSnapshot([]string{"a", "b"}, [][]table.Value{
		{num(1), table.Null()},
		{table.Null(), num(2)},
		{num(3), num(4)},
	})
	_, err := Factor(snap, []string{"a", "b"}, table.MissingPolicy{})
	if err == nil {
		t.Fatal("expected error with one complete row")
	}
	if !errors.HasCode(err, errors.CodeEmptyInput) {
		t.Errorf("expected EMPTY_INPUT, got %s", errors.GetCode(err))
	}
}

func TestJacobiEigen_KnownMatrix(t *testing.T) {
	// Eigenvalues of [[2,1],[1,2]] are 3 and 1
	m := [][]float64{{2, 1}, {1, 2}}
	eigenvalues, eigenvectors, err := jacobiEigen(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := []float64{eigenvalues[0], eigenvalues[1]}
	if got[0] < got[1] {
		got[0], got[1] = got[1], got[0]
	}
	if !almostEqual(got[0], 3) || !almostEqual(got[1], 1) {
		t.Errorf("expected eigenvalues {3, 1}, got %v", eigenvalues)
	}

	// Eigenvector columns stay orthonormal
	for j := 0; j < 2; j++ {
		norm := eigenvectors[0][j]*eigenvectors[0][j] + eigenvectors[1][j]*eigenvectors[1][j]
		if !almostEqual(norm, 1) {
			t.Errorf("eigenvector %d not unit length: %f", j, norm)
		}
	}
}
