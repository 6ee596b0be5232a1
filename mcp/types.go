// Package mcp implements the problem compiler: it traces a user-supplied
// residual over symbolic vectors, derives sparse Jacobians, and
// assembles a reusable ParametricMCP — the compiled, immutable problem
// handle that package path solves and package sensitivity differentiates.
package mcp

import (
	"github.com/parametric-mcp/pmcp/sparse"
	"github.com/parametric-mcp/pmcp/symbolic"
)

// ParametricMCP is the compiled, reusable problem handle described by
// the data model: an in-place residual evaluator, the sparse Jacobians
// ∂F/∂z and (optionally) ∂F/∂θ with their fixed sparsity patterns and
// scratch buffers, and the fixed box bounds.
//
// A ParametricMCP is immutable once returned by Compile and safe to
// share read-only across many Solve calls. It is NOT safe to use
// concurrently: JacZ and JacTheta each own one CSC scratch matrix that
// is overwritten on every evaluation.
type ParametricMCP struct {
	// FEval writes F(z, θ) into out. len(out) == N.
	FEval func(out, z, theta []float64)

	// JacZ evaluates ∂F/∂z, sparsity pattern N x N.
	JacZ *sparse.SparseFunction

	// JacTheta evaluates ∂F/∂θ, sparsity pattern N x M. Nil when the
	// problem was compiled with Sensitivities disabled.
	JacTheta *sparse.SparseFunction

	LowerBounds []float64
	UpperBounds []float64

	N int // decision-vector dimension
	M int // parameter dimension

	backendName string
}

// Size returns the problem dimension n.
func (p *ParametricMCP) Size() int { return p.N }

// ParameterDimension returns the parameter dimension m.
func (p *ParametricMCP) ParameterDimension() int { return p.M }

// HasSensitivities reports whether ∂F/∂θ was compiled.
func (p *ParametricMCP) HasSensitivities() bool { return p.JacTheta != nil }

// BackendName reports which symbolic engine compiled this problem,
// useful for diagnostics; it has no effect on solving or sensitivity
// behavior, both of which operate purely on the compiled evaluators.
func (p *ParametricMCP) BackendName() string { return p.backendName }

// Status is the solver's outcome taxonomy, pass-through from the
// underlying driver. Solved is the only status implying convergence;
// every other value is surfaced verbatim for the caller's own policy.
type Status int

const (
	// StatusUnknown is the zero value and never returned by a driver.
	StatusUnknown Status = iota
	// Solved denotes convergence to a complementarity solution.
	Solved
	// MajorIterationLimit means the solver exhausted its iteration budget.
	MajorIterationLimit
	// MinorIterationLimit is analogous for the solver's inner loop.
	MinorIterationLimit
	// TimeLimit means the solver's wall-clock budget was exhausted.
	TimeLimit
	// UserInterrupt means the caller's context was canceled mid-solve.
	UserInterrupt
	// BoundError means lb[i] > ub[i] for some i was discovered by the driver.
	BoundError
	// DomainError means the residual produced a non-finite value.
	DomainError
	// Infeasible means the driver determined no complementarity solution exists.
	Infeasible
	// FailedToStart means the driver could not be invoked at all.
	FailedToStart
	// OtherError is a catch-all for driver-specific failure codes.
	OtherError
)

func (s Status) String() string {
	switch s {
	case Solved:
		return "Solved"
	case MajorIterationLimit:
		return "MajorIterationLimit"
	case MinorIterationLimit:
		return "MinorIterationLimit"
	case TimeLimit:
		return "TimeLimit"
	case UserInterrupt:
		return "UserInterrupt"
	case BoundError:
		return "BoundError"
	case DomainError:
		return "DomainError"
	case Infeasible:
		return "Infeasible"
	case FailedToStart:
		return "FailedToStart"
	case OtherError:
		return "OtherError"
	default:
		return "Unknown"
	}
}

// Solution is produced by each Solve call. It is owned by the caller and
// never mutated by the library after return.
type Solution struct {
	Z      []float64
	Status Status
	Info   map[string]any
}

// ResidualFunc mirrors symbolic.ResidualFunc at the mcp package boundary
// so callers of Compile don't need to import symbolic directly for the
// common case of writing F(z, θ).
type ResidualFunc = symbolic.ResidualFunc
