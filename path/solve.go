package path

import (
	"log"

	"github.com/parametric-mcp/pmcp/mcp"
	"github.com/parametric-mcp/pmcp/sparse"
)

// Solve dispatches a compiled ParametricMCP, evaluated at parameter
// vector theta, to a Driver. error is returned only for the
// pre-condition check below (theta's dimension); solver non-convergence
// is communicated purely through Solution.Status.
func Solve(problem *mcp.ParametricMCP, theta []float64, opts ...SolveOption) (mcp.Solution, error) {
	if len(theta) != problem.M {
		return mcp.Solution{}, &mcp.DimensionError{What: "theta", Expected: problem.M, Got: len(theta)}
	}

	options := resolveSolveOptions(opts)
	driver := options.Driver
	if driver == nil {
		driver = DefaultDriver()
	}

	n := problem.N
	lb, ub := problem.LowerBounds, problem.UpperBounds

	z0 := options.InitialGuess
	if z0 == nil {
		z0 = make([]float64, n) // spec default: the zero vector
	}

	var z []float64
	var status mcp.Status
	var err error

	if options.ApproximateLinear {
		z, status, err = solveApproximateLinear(problem, theta, driver, lb, ub, z0, options)
	} else {
		f := func(n int, z, out []float64) int {
			problem.FEval(out, z, theta)
			return 0
		}
		j := func(n, nnz int, z []float64, col, length, row []int, data []float64) int {
			sparse.ToCOOInto(problem.JacZ.Eval(z, theta), col, length, row, data)
			return 0
		}
		hints := SolveHints{
			ConstantJacobianStructure: true,
			Verbose:                   options.Verbose,
			JacobianDataContiguous:    options.JacobianDataContiguous,
		}
		if options.EnablePresolve {
			hints.LinearEntries = append([]int(nil), problem.JacZ.ConstantEntries...)
		}
		z, status, err = driver.Solve(n, problem.JacZ.NNZ(), lb, ub, z0, f, j, hints)
	}
	if err != nil {
		return mcp.Solution{}, err
	}

	if status != mcp.Solved && options.WarnOnConvergenceFailure {
		log.Printf("pmcp: path: driver %q returned status %s", driver.Name(), status)
	}

	return mcp.Solution{
		Z:      z,
		Status: status,
		Info:   map[string]any{"driver": driver.Name()},
	}, nil
}

// solveApproximateLinear implements the linearized fast path: M =
// ∂F/∂z and q = F(·) are evaluated once at z0, and the driver solves
// the affine problem M*(z-z0) + q ⟂ [lb, ub] directly — one Jacobian
// evaluation total instead of one per driver iteration. Since M never
// changes across the driver's iterations, every one of its non-zeros
// is reported as a linear entry in SolveHints regardless of whether
// presolve is otherwise enabled, per spec §4.4.
func solveApproximateLinear(problem *mcp.ParametricMCP, theta []float64, driver Driver, lb, ub, z0 []float64, options SolveOptions) ([]float64, mcp.Status, error) {
	n := problem.N
	q := make([]float64, n)
	problem.FEval(q, z0, theta)
	m := problem.JacZ.Eval(z0, theta)

	nnz := m.NNZ()
	col, length, row, data := sparse.ToCOO(m)

	f := func(n int, w, out []float64) int {
		evalAffine(col, length, row, data, w, q, out)
		return 0
	}
	j := func(n, nnz int, w []float64, dstCol, dstLength, dstRow []int, dstData []float64) int {
		copy(dstCol, col)
		copy(dstLength, length)
		copy(dstRow, row)
		copy(dstData, data)
		return 0
	}

	shiftedLB := shift(lb, z0, -1)
	shiftedUB := shift(ub, z0, -1)
	w0 := make([]float64, n)

	allLinear := make([]int, nnz)
	for i := range allLinear {
		allLinear[i] = i
	}
	hints := SolveHints{
		ConstantJacobianStructure: true,
		LinearEntries:             allLinear,
		Verbose:                   options.Verbose,
		JacobianDataContiguous:    options.JacobianDataContiguous,
	}

	w, status, err := driver.Solve(n, nnz, shiftedLB, shiftedUB, w0, f, j, hints)
	if err != nil {
		return nil, status, err
	}
	z := shift(w, z0, 1)
	return z, status, nil
}

func shift(a, b []float64, sign float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + sign*b[i]
	}
	return out
}

// evalAffine computes out = M*w + q given M in CSC-derived COO form
// (1-indexed column starts, per-column counts).
func evalAffine(col, length, row []int, data []float64, w, q, out []float64) {
	copy(out, q)
	for j := 0; j < len(col); j++ {
		start := col[j] - 1
		for k := start; k < start+length[j]; k++ {
			out[row[k]] += data[k] * w[j]
		}
	}
}
