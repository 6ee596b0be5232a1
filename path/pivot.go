package path

import (
	"log"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/parametric-mcp/pmcp/internal/blas"
	"github.com/parametric-mcp/pmcp/mcp"
)

// PivotDriver is the pure-Go fallback used whenever the cgo-gated real
// PATH binding is not built. It is a reduced active-set Newton method:
// at each iterate it partitions z into the bound-active and inactive
// sets (a component is active when it sits within 1e-9 of a bound and F
// points into that bound), Newton-steps only the inactive block, and
// clamps back into
// [lb, ub]. A change of which indices are active between iterations is
// this method's analogue of Lemke's pivot — the active/inactive
// partition plays the role of Lemke's basic/non-basic partition.
//
// This is not a general MCP solver: it assumes the residual is
// reasonably well-behaved (monotone or close to it) near the solution,
// which holds for the canonical projection-style problems this module
// targets, but it is not a substitute for PATH's global convergence
// guarantees.
type PivotDriver struct {
	MaxIterations int
	Tolerance     float64
}

// NewPivotDriver returns a PivotDriver with the documented defaults.
func NewPivotDriver() *PivotDriver {
	return &PivotDriver{MaxIterations: 200, Tolerance: 1e-10}
}

func (d *PivotDriver) Name() string { return "pivot" }

func (d *PivotDriver) Solve(n, nnz int, lb, ub, z0 []float64, f FCallback, j JCallback, hints SolveHints) ([]float64, mcp.Status, error) {
	maxIter := d.MaxIterations
	if maxIter <= 0 {
		maxIter = 200
	}
	tol := d.Tolerance
	if tol <= 0 {
		tol = 1e-10
	}

	z := make([]float64, n)
	copy(z, z0)
	clampInto(z, lb, ub)

	out := make([]float64, n)
	col := make([]int, n)
	length := make([]int, n)
	row := make([]int, nnz)
	data := make([]float64, nnz)

	// When presolve reports every non-zero of ∂F/∂z is linear, the
	// Jacobian is constant in z: evaluate it once and skip every
	// later call to j, the optimization spec §4.4 names explicitly.
	jacobianIsConstant := hints.ConstantJacobianStructure && len(hints.LinearEntries) == nnz
	haveJacobian := false

	for iter := 0; iter < maxIter; iter++ {
		if f(n, z, out) != 0 {
			return z, mcp.DomainError, nil
		}
		if residualNorm(z, out, lb, ub) < tol {
			return z, mcp.Solved, nil
		}
		if !jacobianIsConstant || !haveJacobian {
			if j(n, nnz, z, col, length, row, data) != 0 {
				return z, mcp.DomainError, nil
			}
			haveJacobian = true
		}
		if hints.Verbose {
			log.Printf("pmcp: path: pivot iter %d residual=%g", iter, residualNorm(z, out, lb, ub))
		}

		active := make([]bool, n)
		var inactive []int
		const boundEps = 1e-9
		for i := 0; i < n; i++ {
			atLower := z[i] <= lb[i]+boundEps && out[i] >= 0
			atUpper := z[i] >= ub[i]-boundEps && out[i] <= 0
			if atLower || atUpper {
				active[i] = true
			} else {
				inactive = append(inactive, i)
			}
		}

		if len(inactive) == 0 {
			// Every component pinned to a bound; nothing left to step.
			return z, mcp.Solved, nil
		}

		dense := denseFromCOO(n, col, length, row, data)
		k := len(inactive)
		aFlat := make([]float64, k*k)
		for c, jj := range inactive {
			for r, ii := range inactive {
				aFlat[r+k*c] = dense[ii][jj]
			}
		}
		b := make([]float64, k)
		for r, ii := range inactive {
			b[r] = -out[ii]
		}

		h := make([]float64, k)
		g := make([]float64, k)
		ip := make([]int, k)
		norm := make([]float64, 1)
		blas.HFTI(aFlat, k, k, k, b, k, 1, 1e-10, norm, h, g, ip)

		step := make([]float64, n)
		for r, ii := range inactive {
			step[ii] = b[r]
		}
		// Damp the step so it never overshoots past the nearest bound by
		// more than a factor of 2, a cheap guard against divergence on
		// the first few iterations from a poor starting point.
		alpha := 1.0
		for i := 0; i < n; i++ {
			if step[i] == 0 {
				continue
			}
			next := z[i] + step[i]
			if next < lb[i]-math.Abs(step[i]) {
				alpha = math.Min(alpha, 0.5)
			}
			if next > ub[i]+math.Abs(step[i]) {
				alpha = math.Min(alpha, 0.5)
			}
		}
		for i := 0; i < n; i++ {
			z[i] += alpha * step[i]
		}
		clampInto(z, lb, ub)
	}

	if f(n, z, out) == 0 && residualNorm(z, out, lb, ub) < tol {
		return z, mcp.Solved, nil
	}
	return z, mcp.MajorIterationLimit, nil
}

func clampInto(z, lb, ub []float64) {
	for i := range z {
		if z[i] < lb[i] {
			z[i] = lb[i]
		}
		if z[i] > ub[i] {
			z[i] = ub[i]
		}
	}
}

// residualNorm computes the natural-map complementarity residual
// ||z - clamp(z - F(z), lb, ub)||, zero exactly at a solution.
func residualNorm(z, f, lb, ub []float64) float64 {
	proj := make([]float64, len(z))
	for i := range z {
		p := z[i] - f[i]
		if p < lb[i] {
			p = lb[i]
		}
		if p > ub[i] {
			p = ub[i]
		}
		proj[i] = p
	}
	return floats.Distance(z, proj, 2)
}

// denseFromCOO materializes the COO-encoded sparse Jacobian (sparse.ToCOO's
// layout, 1-indexed col) as a dense n x n matrix for the small restricted
// solves the active-set partition requires.
func denseFromCOO(n int, col, length, row []int, data []float64) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}
	idx := 0
	for j := 0; j < n; j++ {
		for c := 0; c < length[j]; c++ {
			out[row[idx]][j] = data[idx]
			idx++
		}
	}
	return out
}
