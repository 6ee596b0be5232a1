// Package adrules glues the sensitivity core into three distinct
// automatic-differentiation conventions: a lazy reverse-mode pullback,
// forward-mode dual numbers, and a forward/reverse tape pair modeled on
// a second, alternate AD engine's recording convention.
package adrules

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/parametric-mcp/pmcp/mcp"
	"github.com/parametric-mcp/pmcp/sensitivity"
)

// Pullback returns the lazy reverse-mode vector-Jacobian-product
// closure for a solved problem: given an upstream gradient zbar with
// respect to z, it returns the corresponding gradient thetabar with
// respect to theta, via thetabar = (∂z*/∂θ)^T · zbar.
//
// ∂z*/∂θ is computed on the first call to the returned closure and
// memoized there — memoization is scoped to this one closure's
// lifetime, never shared across separate Pullback calls, since
// ParametricMCP itself holds no solve-time cache (problem instances are
// shared read-only across many independent solves).
//
// Grounded on the decorator/tape shape of a GradientTape-style
// reverse-mode backend: one forward artifact (here, the solution and
// its implicit Jacobian) consumed lazily by exactly one backward call
// per upstream gradient.
func Pullback(problem *mcp.ParametricMCP, sol mcp.Solution, theta []float64, opts ...sensitivity.Option) (func(zbar []float64) ([]float64, error), error) {
	if problem.JacTheta == nil {
		return nil, fmt.Errorf("pmcp: adrules: Pullback requires sensitivities; recompile with mcp.WithSensitivities(true)")
	}

	var jac *dense
	var jacErr error
	var computed bool

	return func(zbar []float64) ([]float64, error) {
		if !computed {
			csc, err := sensitivity.JacobianWRTTheta(problem, sol, theta, opts...)
			if err != nil {
				jacErr = err
			} else {
				jac = toDense(csc)
			}
			computed = true
		}
		if jacErr != nil {
			return nil, jacErr
		}
		if len(zbar) != jac.rows {
			return nil, fmt.Errorf("pmcp: adrules: zbar has length %d, want %d", len(zbar), jac.rows)
		}
		thetabar := make([]float64, jac.cols)
		for j := 0; j < jac.cols; j++ {
			thetabar[j] = floats.Dot(jac.col(j), zbar)
		}
		return thetabar, nil
	}, nil
}
