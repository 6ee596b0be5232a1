package sensitivity

import (
	"gonum.org/v1/gonum/mat"

	"github.com/parametric-mcp/pmcp/internal/blas"
)

// rankDeficiencyTolerance is the absolute tolerance HFTI uses to decide
// a diagonal pivot is numerically zero — the same role tau plays for
// the active-set classification, but at the linear-algebra layer
// instead of the bound-distance layer.
const rankDeficiencyTolerance = 1e-10

// solveRestricted solves a*x = b in the least-squares, minimum-norm
// sense for the k x k matrix a and the k x m right-hand side b, using
// Householder Forward Triangulation with column Interchanges (HFTI).
// This is the rank-revealing QR the implicit function theorem's
// restricted linear system calls for: when a is exactly singular (a
// degenerate but valid strictly-inactive set can produce this), HFTI
// degrades gracefully to the minimum-norm solution instead of failing
// outright.
//
// a and b are consumed as plain row-major [][]float64 from the caller
// (sensitivity.go builds them fresh per call), staged in gonum mat.Dense,
// and flattened into the column-major buffers HFTI operates on, each
// with an explicit leading dimension.
func solveRestricted(a, b [][]float64, k, m int) ([][]float64, error) {
	if k == 0 {
		return nil, nil
	}

	aCM := mat.NewDense(k, k, nil)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			aCM.Set(i, j, a[i][j])
		}
	}
	aFlat := columnMajor(aCM, k, k)

	bCM := mat.NewDense(k, m, nil)
	for i := 0; i < k; i++ {
		for j := 0; j < m; j++ {
			bCM.Set(i, j, b[i][j])
		}
	}
	bFlat := columnMajorPadded(bCM, k, m, k)

	h := make([]float64, k)
	g := make([]float64, k)
	ip := make([]int, k)
	norm := make([]float64, m)

	// A pseudo-rank of zero leaves bFlat zeroed, the minimum-norm solution.
	blas.HFTI(aFlat, k, k, k, bFlat, k, m, rankDeficiencyTolerance, norm, h, g, ip)

	out := make([][]float64, k)
	for i := 0; i < k; i++ {
		out[i] = make([]float64, m)
		for j := 0; j < m; j++ {
			out[i][j] = bFlat[i+k*j]
		}
	}
	return out, nil
}

// columnMajor flattens a dense rows x cols matrix into a column-major
// []float64 with leading dimension rows, the layout blas.HFTI expects.
func columnMajor(d *mat.Dense, rows, cols int) []float64 {
	out := make([]float64, rows*cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			out[i+rows*j] = d.At(i, j)
		}
	}
	return out
}

// columnMajorPadded is columnMajor but over a leading dimension mda
// that may exceed rows, since HFTI's B argument must have room for the
// solution's full n rows even when b only starts with k < n.
func columnMajorPadded(d *mat.Dense, rows, cols, mda int) []float64 {
	out := make([]float64, mda*cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			out[i+mda*j] = d.At(i, j)
		}
	}
	return out
}
