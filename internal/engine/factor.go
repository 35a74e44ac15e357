package engine

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"datalens/domain/analysis"
	"datalens/domain/table"
	"datalens/internal/errors"
)

const (
	jacobiTolerance = 1e-9
	jacobiMaxSweeps = 100
)

// Factor performs the dimensionality reduction the host application labels
// "factor analysis": an eigen-decomposition of the covariance matrix over
// the listwise-complete rows of the selected columns (PCA). Components are
// ranked by descending eigenvalue; variance is the eigenvalue share.
func Factor(snap *table.Snapshot, columns []string, p table.MissingPolicy) (*analysis.FactorAnalysisResult, error) {
	data := ListwiseColumns(snap, columns, p)
	n := len(data[0])
	if n < 2 {
		return nil, errors.EmptyInput(fmt.Sprintf("factor analysis needs at least 2 complete rows, got %d", n))
	}

	k := len(columns)
	cov := make([][]float64, k)
	for i := range cov {
		cov[i] = make([]float64, k)
	}
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			c := stat.Covariance(data[i], data[j], nil)
			cov[i][j] = c
			cov[j][i] = c
		}
	}

	eigenvalues, eigenvectors, err := jacobiEigen(cov)
	if err != nil {
		return nil, err
	}

	total := 0.0
	for i, ev := range eigenvalues {
		// Symmetric PSD matrix; tiny negatives are rounding noise
		if ev < 0 {
			eigenvalues[i] = 0
			ev = 0
		}
		total += ev
	}
	if total <= 0 {
		return nil, errors.NumericInstability("covariance matrix is singular: all selected columns are constant")
	}

	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return eigenvalues[order[a]] > eigenvalues[order[b]]
	})

	components := make([]analysis.FactorComponent, 0, k)
	for rank, idx := range order {
		loadings := make([]analysis.Loading, k)
		for v := 0; v < k; v++ {
			loadings[v] = analysis.Loading{Variable: columns[v], Loading: eigenvectors[v][idx]}
		}
		orientLoadings(loadings)
		components = append(components, analysis.FactorComponent{
			Name:       fmt.Sprintf("Component %d", rank+1),
			Variance:   eigenvalues[idx] / total,
			Eigenvalue: eigenvalues[idx],
			Loadings:   loadings,
		})
	}

	return &analysis.FactorAnalysisResult{Components: components, SampleSize: n}, nil
}

// jacobiEigen decomposes a symmetric matrix with cyclic Jacobi rotations.
// Returns the eigenvalues and the eigenvector matrix (columns are
// eigenvectors). Iteration is capped so adversarial input terminates; a
// capped-out run is reported as numeric instability, never as a silently
// wrong decomposition.
func jacobiEigen(m [][]float64) ([]float64, [][]float64, error) {
	k := len(m)
	a := make([][]float64, k)
	v := make([][]float64, k)
	for i := 0; i < k; i++ {
		a[i] = append([]float64(nil), m[i]...)
		v[i] = make([]float64, k)
		v[i][i] = 1
	}

	for sweep := 0; sweep < jacobiMaxSweeps; sweep++ {
		off := offDiagonalNorm(a)
		if off < jacobiTolerance {
			eigenvalues := make([]float64, k)
			for i := 0; i < k; i++ {
				eigenvalues[i] = a[i][i]
			}
			return eigenvalues, v, nil
		}

		for p := 0; p < k-1; p++ {
			for q := p + 1; q < k; q++ {
				if math.Abs(a[p][q]) < jacobiTolerance/float64(k*k) {
					continue
				}
				rotate(a, v, p, q)
			}
		}
	}

	return nil, nil, errors.NumericInstability(
		fmt.Sprintf("eigen-decomposition did not converge within %d sweeps", jacobiMaxSweeps))
}

// rotate applies one Jacobi rotation zeroing a[p][q].
func rotate(a, v [][]float64, p, q int) {
	k := len(a)
	apq := a[p][q]
	theta := (a[q][q] - a[p][p]) / (2 * apq)
	var t float64
	if theta >= 0 {
		t = 1 / (theta + math.Sqrt(theta*theta+1))
	} else {
		t = -1 / (-theta + math.Sqrt(theta*theta+1))
	}
	c := 1 / math.Sqrt(t*t+1)
	s := t * c

	for i := 0; i < k; i++ {
		aip, aiq := a[i][p], a[i][q]
		a[i][p] = c*aip - s*aiq
		a[i][q] = s*aip + c*aiq
	}
	for j := 0; j < k; j++ {
		apj, aqj := a[p][j], a[q][j]
		a[p][j] = c*apj - s*aqj
		a[q][j] = s*apj + c*aqj
	}
	for i := 0; i < k; i++ {
		vip, viq := v[i][p], v[i][q]
		v[i][p] = c*vip - s*viq
		v[i][q] = s*vip + c*viq
	}
}

func offDiagonalNorm(a [][]float64) float64 {
	sum := 0.0
	for i := 0; i < len(a); i++ {
		for j := i + 1; j < len(a); j++ {
			sum += a[i][j] * a[i][j]
		}
	}
	return math.Sqrt(sum)
}

// orientLoadings fixes the eigenvector sign so the largest-magnitude
// loading is positive, keeping results deterministic across runs.
func orientLoadings(loadings []analysis.Loading) {
	maxAbs, maxVal := 0.0, 0.0
	for _, l := range loadings {
		if math.Abs(l.Loading) > maxAbs {
			maxAbs = math.Abs(l.Loading)
			maxVal = l.Loading
		}
	}
	if maxVal < 0 {
		for i := range loadings {
			loadings[i].Loading = -loadings[i].Loading
		}
	}
}
