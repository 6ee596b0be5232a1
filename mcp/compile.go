package mcp

import (
	"fmt"

	"github.com/parametric-mcp/pmcp/sparse"
	"github.com/parametric-mcp/pmcp/symbolic"
	"github.com/parametric-mcp/pmcp/symbolic/rational"
)

// Compile implements the problem compiler contract of spec §4.3: it
// creates fresh symbolic vectors, traces f, derives the sparse
// Jacobians ∂F/∂z and (optionally) ∂F/∂θ, code-generates their in-place
// evaluators, and assembles an immutable ParametricMCP.
//
// |lb| and |ub| fix the problem size n; m is the parameter dimension.
// m == 0 is a valid, load-bearing edge case: the compiler must still
// trace and compile a zero-parameter problem.
func Compile(f ResidualFunc, lb, ub []float64, m int, opts ...Option) (*ParametricMCP, error) {
	n := len(lb)
	if err := dimErr("upper_bounds", n, len(ub)); err != nil {
		return nil, err
	}
	for i := range lb {
		if lb[i] > ub[i] {
			return nil, &BoundsOrderError{Index: i, Lower: lb[i], Upper: ub[i]}
		}
	}
	if m < 0 {
		return nil, fmt.Errorf("pmcp: parameter dimension m must be >= 0, got %d", m)
	}

	options := resolveOptions(opts)
	backend := options.Backend
	if backend == nil {
		backend = rational.New()
	}

	zSym := backend.MakeVariables("z", n)
	thetaSym := backend.MakeVariables("theta", m)

	residual, err := f(zSym, thetaSym)
	if err != nil {
		return nil, fmt.Errorf("pmcp: residual tracing failed: %w", err)
	}
	if err := dimErr("residual output", n, len(residual)); err != nil {
		return nil, err
	}

	jacZ, err := compileSparseJacobian(backend, residual, zSym, zSym, thetaSym)
	if err != nil {
		return nil, fmt.Errorf("pmcp: compiling ∂F/∂z: %w", err)
	}

	var jacTheta *sparse.SparseFunction
	if options.Sensitivities {
		jacTheta, err = compileSparseJacobian(backend, residual, thetaSym, zSym, thetaSym)
		if err != nil {
			return nil, fmt.Errorf("pmcp: compiling ∂F/∂θ: %w", err)
		}
	}

	fEval, err := backend.BuildFunctionInPlace(residual, zSym, thetaSym)
	if err != nil {
		return nil, fmt.Errorf("pmcp: building residual evaluator: %w", err)
	}

	problem := &ParametricMCP{
		FEval:       fEval,
		JacZ:        jacZ,
		JacTheta:    jacTheta,
		LowerBounds: append([]float64(nil), lb...),
		UpperBounds: append([]float64(nil), ub...),
		N:           n,
		M:           m,
		backendName: backend.Name(),
	}

	if options.WarmUpCallbacks {
		warmUp(problem)
	}

	return problem, nil
}

// compileSparseJacobian derives the sparse Jacobian of exprs with
// respect to diffVars, builds its CSC scratch and in-place evaluator,
// and computes the subset of entries structurally constant in diffVars
// — steps 3-6 of spec §4.3, generalized over which variable set is the
// differentiation target (z for jac_z, θ for jac_θ).
func compileSparseJacobian(backend symbolic.Backend, exprs []symbolic.Expr, diffVars, zSym, thetaSym []symbolic.Var) (*sparse.SparseFunction, error) {
	entries, rows, cols, shape := backend.SparseJacobian(exprs, diffVars)
	scratch := sparse.NewCSCFromTriplets(shape[0], shape[1], rows, cols)

	callable, err := backend.BuildFunctionInPlace(entries, zSym, thetaSym)
	if err != nil {
		return nil, err
	}
	evalFunc := func(out *sparse.CSC, z, theta []float64) {
		callable(out.Data, z, theta)
	}

	constantEntries := sparse.DetectConstantEntries(len(entries), func(idx int) bool {
		return symbolic.DependsOn(entries[idx], diffVars)
	})

	return sparse.NewSparseFunction(scratch, evalFunc, constantEntries), nil
}

func warmUp(p *ParametricMCP) {
	z := make([]float64, p.N)
	theta := make([]float64, p.M)
	out := make([]float64, p.N)
	p.FEval(out, z, theta)
	p.JacZ.Eval(z, theta)
	if p.JacTheta != nil {
		p.JacTheta.Eval(z, theta)
	}
}
