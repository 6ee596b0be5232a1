// Package path drives the complementarity solve: it wraps a compiled
// ParametricMCP's evaluators as the PATH callback ABI (§6 of the
// design: a residual callback and a sparse-Jacobian callback, both
// closing over a fixed parameter vector theta) and dispatches them to
// a Driver.
package path

import "github.com/parametric-mcp/pmcp/mcp"

// FCallback mirrors PATH's residual callback: F(n, z, out) -> status.
// Implementations write F(z, theta) into out and return 0 on success.
type FCallback func(n int, z, out []float64) int

// JCallback mirrors PATH's sparse-Jacobian callback:
// J(n, nnz, z, col, length, row, data) -> status. col is the 1-indexed
// per-column start position, length the per-column non-zero count,
// exactly sparse.ToCOO's layout.
type JCallback func(n, nnz int, z []float64, col, length, row []int, data []float64) int

// SolveHints carries the presolve/tuning signals of spec §4.4 down to
// the Driver, so a driver can act on what the compiled problem already
// knows instead of rediscovering it at runtime.
type SolveHints struct {
	// ConstantJacobianStructure tells the driver ∂F/∂z's sparsity
	// pattern never changes across evaluations — always true for a
	// compiled ParametricMCP, whose CSC scratch has one fixed pattern
	// by construction.
	ConstantJacobianStructure bool

	// LinearEntries lists the nnz-order indices of ∂F/∂z that are
	// structurally constant in z (sparse.SparseFunction.ConstantEntries),
	// i.e. linear. Populated only when presolve is enabled; empty
	// otherwise, per spec §4.4's "otherwise empty" default.
	LinearEntries []int

	// Verbose, when false, asks the driver to suppress its own
	// progress output.
	Verbose bool

	// JacobianDataContiguous tells the driver the per-column value
	// slice the Jacobian callback writes into is backed by one
	// contiguous allocation, which this package's COO conversion
	// always guarantees.
	JacobianDataContiguous bool
}

// Driver solves a box-constrained mixed complementarity problem
// described purely through the callback ABI above, so a real PATH
// binding and the pure-Go fallback can share one call site.
type Driver interface {
	// Name identifies the driver for diagnostics (Solution.Info).
	Name() string

	// Solve finds z in [lb, ub] with F(z) complementary to the bounds,
	// starting from z0, given the problem's fixed size n and non-zero
	// count nnz of the Jacobian callback's pattern. hints carries the
	// presolve/structure information of SolveHints; a driver is free
	// to ignore any field it has no use for.
	Solve(n, nnz int, lb, ub, z0 []float64, f FCallback, j JCallback, hints SolveHints) (z []float64, status mcp.Status, err error)
}
