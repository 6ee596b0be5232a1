package adrules

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/parametric-mcp/pmcp/mcp"
	"github.com/parametric-mcp/pmcp/path"
	"github.com/parametric-mcp/pmcp/sensitivity"
)

// Shadow accumulates the reverse-mode gradient with respect to theta
// for one tape entry. It starts zero-initialized and is updated
// in-place by every Reverse call against the same tape id, mirroring
// how a conventional reverse-mode engine accumulates into a parameter's
// gradient buffer across however many downstream consumers read it.
type Shadow struct {
	ThetaBar []float64
}

type tapeEntry struct {
	problem *mcp.ParametricMCP
	theta   []float64
	sol     mcp.Solution
	shadow  *Shadow
}

// Tape holds the augmented-primal state needed to run Reverse later,
// keyed by a caller-supplied id so one process can hold several
// concurrent forward/reverse pairs (e.g. one per training example in a
// batch).
type Tape struct {
	entries map[string]*tapeEntry
}

// NewTape returns an empty Tape.
func NewTape() *Tape {
	return &Tape{entries: make(map[string]*tapeEntry)}
}

// AugmentPrimal runs the forward solve and records it on the tape under
// id, ready for a later Reverse call. Calling AugmentPrimal again with
// the same id overwrites the previous entry and its shadow.
func (t *Tape) AugmentPrimal(id string, problem *mcp.ParametricMCP, theta []float64, opts ...path.SolveOption) (mcp.Solution, error) {
	sol, err := path.Solve(problem, theta, opts...)
	if err != nil {
		return mcp.Solution{}, err
	}
	t.entries[id] = &tapeEntry{
		problem: problem,
		theta:   append([]float64(nil), theta...),
		sol:     sol,
		shadow:  &Shadow{ThetaBar: make([]float64, problem.M)},
	}
	return sol, nil
}

// Reverse computes the vector-Jacobian product of zbar against the
// primal recorded under id, accumulates it into that entry's Shadow,
// and returns the shadow's current total.
func (t *Tape) Reverse(id string, zbar []float64, opts ...sensitivity.Option) ([]float64, error) {
	e, ok := t.entries[id]
	if !ok {
		return nil, fmt.Errorf("pmcp: adrules: no tape entry %q; call AugmentPrimal first", id)
	}
	csc, err := sensitivity.JacobianWRTTheta(e.problem, e.sol, e.theta, opts...)
	if err != nil {
		return nil, err
	}
	jac := toDense(csc)
	for j := 0; j < e.problem.M; j++ {
		e.shadow.ThetaBar[j] += floats.Dot(jac.col(j), zbar)
	}
	return append([]float64(nil), e.shadow.ThetaBar...), nil
}

// AnnotationError reports an AD annotation combination this layer
// cannot support.
type AnnotationError struct {
	Reason string
}

func (e *AnnotationError) Error() string {
	return fmt.Sprintf("pmcp: adrules: invalid AD annotation: %s", e.Reason)
}

// TapeRules packages the forward/reverse pair for an alternate AD
// engine's tape convention: a single Forward (or batched ForwardBatch)
// call propagating tangents through the implicit function theorem, and
// a Tape for the corresponding two-phase augmented-primal/reverse
// pattern. Modeled on a GradientTape-style decorator backend, where the
// forward pass is recorded once and consumed by however many backward
// calls follow.
type TapeRules struct {
	Tape *Tape
}

// NewTapeRules returns a TapeRules with a fresh, empty Tape.
func NewTapeRules() *TapeRules {
	return &TapeRules{Tape: NewTape()}
}

// validateAnnotation panics with an *AnnotationError when the caller's
// constancy annotations make the requested differentiation meaningless:
// marking theta constant makes forward-mode differentiation vacuous (a
// zero tangent trivially), and marking the problem itself non-constant
// asks this layer to differentiate through the residual's own
// structure, which sensitivity.JacobianWRTTheta does not support (it
// differentiates a fixed residual's solution with respect to theta
// only).
func validateAnnotation(thetaConstant, problemConstant bool) {
	if thetaConstant {
		panic(&AnnotationError{Reason: "theta marked constant: differentiation with respect to a constant is vacuous"})
	}
	if !problemConstant {
		panic(&AnnotationError{Reason: "problem marked non-constant: differentiating through the residual's own structure is not supported"})
	}
}

// Forward propagates a single tangent thetaDot through the solve at
// theta, returning the primal z, the tangent ż = (∂z*/∂θ)·θ̇, and the
// solve's status.
func (r *TapeRules) Forward(problem *mcp.ParametricMCP, theta, thetaDot []float64, thetaConstant, problemConstant bool, solveOpts []path.SolveOption, sensOpts ...sensitivity.Option) (z, zDot []float64, status mcp.Status, err error) {
	validateAnnotation(thetaConstant, problemConstant)

	sol, err := path.Solve(problem, theta, solveOpts...)
	if err != nil {
		return nil, nil, mcp.StatusUnknown, err
	}
	csc, err := sensitivity.JacobianWRTTheta(problem, sol, theta, sensOpts...)
	if err != nil {
		return nil, nil, mcp.StatusUnknown, err
	}
	jac := toDense(csc)

	zDot = make([]float64, problem.N)
	for i := 0; i < problem.N; i++ {
		zDot[i] = floats.Dot(jac.row(i), thetaDot)
	}
	return sol.Z, zDot, sol.Status, nil
}

// ForwardBatch propagates a batch of tangents through one solve,
// reusing the single ∂z*/∂θ evaluation across every tangent in
// thetaDots — the batched analogue of Forward.
func (r *TapeRules) ForwardBatch(problem *mcp.ParametricMCP, theta []float64, thetaDots [][]float64, thetaConstant, problemConstant bool, solveOpts []path.SolveOption, sensOpts ...sensitivity.Option) (z []float64, zDots [][]float64, status mcp.Status, err error) {
	validateAnnotation(thetaConstant, problemConstant)

	sol, err := path.Solve(problem, theta, solveOpts...)
	if err != nil {
		return nil, nil, mcp.StatusUnknown, err
	}
	csc, err := sensitivity.JacobianWRTTheta(problem, sol, theta, sensOpts...)
	if err != nil {
		return nil, nil, mcp.StatusUnknown, err
	}
	jac := toDense(csc)

	zDots = make([][]float64, len(thetaDots))
	for b, thetaDot := range thetaDots {
		zDot := make([]float64, problem.N)
		for i := 0; i < problem.N; i++ {
			zDot[i] = floats.Dot(jac.row(i), thetaDot)
		}
		zDots[b] = zDot
	}
	return sol.Z, zDots, sol.Status, nil
}
