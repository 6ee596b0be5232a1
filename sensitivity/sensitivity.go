// Package sensitivity implements the implicit-differentiation core: it
// takes a solved ParametricMCP and produces ∂z*/∂θ, the Jacobian of the
// solution with respect to the problem's parameters, via the implicit
// function theorem restricted to the strictly-inactive index set.
package sensitivity

import (
	"fmt"

	"github.com/parametric-mcp/pmcp/mcp"
	"github.com/parametric-mcp/pmcp/sparse"
)

// DefaultActiveTolerance is the default τ used to classify a component
// of z as strictly inactive: lb[i]+τ < z[i] < ub[i]-τ.
const DefaultActiveTolerance = 1e-3

// Options configures JacobianWRTTheta.
type Options struct {
	// ActiveTolerance is τ, the margin from each bound a solution
	// component must clear to be treated as strictly inactive. Zero
	// value selects DefaultActiveTolerance.
	ActiveTolerance float64
}

// Option mutates Options.
type Option func(*Options)

// WithActiveTolerance overrides τ.
func WithActiveTolerance(tau float64) Option {
	return func(o *Options) { o.ActiveTolerance = tau }
}

func resolveOptions(opts []Option) Options {
	o := Options{ActiveTolerance: DefaultActiveTolerance}
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// MissingSensitivitiesError is returned when JacobianWRTTheta is called
// on a problem compiled with Options.Sensitivities disabled, so
// problem.JacTheta is nil.
type MissingSensitivitiesError struct{}

func (*MissingSensitivitiesError) Error() string {
	return "pmcp: sensitivity: problem was compiled without sensitivities (JacTheta is nil); recompile with mcp.WithSensitivities(true)"
}

// JacobianWRTTheta computes ∂z*/∂θ at a solution sol of problem,
// evaluated at parameter vector theta, via the implicit function
// theorem:
//
//	A[I,I] · ∂z*[I]/∂θ + B[I,:] = 0
//
// where A = ∂F/∂z, B = ∂F/∂θ, and I is the strictly-inactive index set
// — the components of z bound by neither lb nor ub within tolerance τ.
// Rows of the result outside I are left zero: the implicit
// function theorem gives no first-order information for active
// components.
//
// Returns a zero N x M matrix, with no linear solve attempted, when I
// is empty.
func JacobianWRTTheta(problem *mcp.ParametricMCP, sol mcp.Solution, theta []float64, opts ...Option) (*sparse.CSC, error) {
	if problem.JacTheta == nil {
		return nil, &MissingSensitivitiesError{}
	}
	n, m := problem.N, problem.M
	if len(sol.Z) != n {
		return nil, fmt.Errorf("pmcp: sensitivity: solution has length %d, want %d", len(sol.Z), n)
	}
	if len(theta) != m {
		return nil, fmt.Errorf("pmcp: sensitivity: theta has length %d, want %d", len(theta), m)
	}

	options := resolveOptions(opts)
	tau := options.ActiveTolerance
	if tau == 0 {
		tau = DefaultActiveTolerance
	}

	active := make([]bool, n)
	var inactive []int
	for i := 0; i < n; i++ {
		lb, ub := problem.LowerBounds[i], problem.UpperBounds[i]
		z := sol.Z[i]
		if z > lb+tau && z < ub-tau {
			inactive = append(inactive, i)
		} else {
			active[i] = true
		}
	}

	result := denseZeroCSC(n, m)
	if len(inactive) == 0 {
		return result, nil
	}

	aFull := problem.JacZ.Eval(sol.Z, theta).Dense()
	bFull := problem.JacTheta.Eval(sol.Z, theta).Dense()

	k := len(inactive)
	aRestricted := make([][]float64, k)
	bRestricted := make([][]float64, k)
	for r, i := range inactive {
		aRestricted[r] = make([]float64, k)
		for c, j := range inactive {
			aRestricted[r][c] = -aFull[i][j]
		}
		bRestricted[r] = make([]float64, m)
		copy(bRestricted[r], bFull[i])
	}

	solution, err := solveRestricted(aRestricted, bRestricted, k, m)
	if err != nil {
		return nil, fmt.Errorf("pmcp: sensitivity: restricted solve failed: %w", err)
	}

	for r, i := range inactive {
		for c := 0; c < m; c++ {
			setDense(result, i, c, solution[r][c])
		}
	}
	return result, nil
}

// denseZeroCSC builds a CSC matrix with a fully-dense pattern (every
// entry structurally present) so JacobianWRTTheta's result can be
// written into arbitrary (row, col) pairs without pre-declaring which
// ones will be non-zero; rows outside the strictly-inactive set remain
// numerically zero.
func denseZeroCSC(rows, cols int) *sparse.CSC {
	var triRows, triCols []int
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			triRows = append(triRows, i)
			triCols = append(triCols, j)
		}
	}
	return sparse.NewCSCFromTriplets(rows, cols, triRows, triCols)
}

func setDense(m *sparse.CSC, row, col int, value float64) {
	start, end := m.ColPtr[col], m.ColPtr[col+1]
	for k := start; k < end; k++ {
		if m.RowIdx[k] == row {
			m.Data[k] = value
			return
		}
	}
	panic("sensitivity: (row, col) missing from dense pattern")
}
