package adrules

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/parametric-mcp/pmcp/mcp"
	"github.com/parametric-mcp/pmcp/path"
	"github.com/parametric-mcp/pmcp/sensitivity"
)

// Dual is a forward-mode dual number: Value is the primal component,
// Deriv its directional derivative along whatever tangent direction the
// caller is propagating.
type Dual struct {
	Value float64
	Deriv float64
}

// SolveDual solves problem at the real parts of thetaDual and
// propagates the tangent ż = (∂z*/∂θ)·θ̇ through the implicit function
// theorem, returning one Dual per component of z. Status and Info are
// forwarded from the underlying real solve unchanged.
func SolveDual(problem *mcp.ParametricMCP, thetaDual []Dual, solveOpts []path.SolveOption, sensOpts ...sensitivity.Option) ([]Dual, mcp.Status, map[string]any, error) {
	m := len(thetaDual)
	if m != problem.M {
		return nil, mcp.StatusUnknown, nil, fmt.Errorf("pmcp: adrules: thetaDual has length %d, want %d", m, problem.M)
	}

	theta := make([]float64, m)
	thetaDot := make([]float64, m)
	for i, d := range thetaDual {
		theta[i] = d.Value
		thetaDot[i] = d.Deriv
	}

	sol, err := path.Solve(problem, theta, solveOpts...)
	if err != nil {
		return nil, mcp.StatusUnknown, nil, err
	}

	csc, err := sensitivity.JacobianWRTTheta(problem, sol, theta, sensOpts...)
	if err != nil {
		return nil, mcp.StatusUnknown, nil, err
	}
	jac := toDense(csc)

	out := make([]Dual, problem.N)
	for i := 0; i < problem.N; i++ {
		out[i] = Dual{Value: sol.Z[i], Deriv: floats.Dot(jac.row(i), thetaDot)}
	}
	return out, sol.Status, sol.Info, nil
}
