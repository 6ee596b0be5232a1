package adrules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parametric-mcp/pmcp/adrules"
	"github.com/parametric-mcp/pmcp/mcp"
	"github.com/parametric-mcp/pmcp/path"
	"github.com/parametric-mcp/pmcp/symbolic"
	"github.com/parametric-mcp/pmcp/symbolic/rational"
)

func projectionProblem(t *testing.T, sensitivities bool) *mcp.ParametricMCP {
	t.Helper()
	residual := func(z, theta []symbolic.Var) ([]symbolic.Expr, error) {
		out := make([]symbolic.Expr, len(z))
		for i := range out {
			out[i] = rational.AddOf(z[i], rational.MulOf(rational.N(-1), theta[i]))
		}
		return out, nil
	}
	problem, err := mcp.Compile(residual, []float64{0, 0}, []float64{1, 1}, 2, mcp.WithSensitivities(sensitivities))
	require.NoError(t, err)
	return problem
}

func TestPullback_InteriorSolutionIsIdentityPullback(t *testing.T) {
	problem := projectionProblem(t, true)
	theta := []float64{0.4, 0.7}
	sol, err := path.Solve(problem, theta)
	require.NoError(t, err)

	pullback, err := adrules.Pullback(problem, sol, theta)
	require.NoError(t, err)

	thetabar, err := pullback([]float64{1, 2})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2}, thetabar, 1e-9)
}

func TestPullback_MemoizesAcrossCalls(t *testing.T) {
	problem := projectionProblem(t, true)
	theta := []float64{0.4, 0.7}
	sol, err := path.Solve(problem, theta)
	require.NoError(t, err)

	pullback, err := adrules.Pullback(problem, sol, theta)
	require.NoError(t, err)

	first, err := pullback([]float64{1, 0})
	require.NoError(t, err)
	second, err := pullback([]float64{0, 1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0}, first, 1e-9)
	assert.InDeltaSlice(t, []float64{0, 1}, second, 1e-9)
}

func TestPullback_RequiresSensitivities(t *testing.T) {
	problem := projectionProblem(t, false)
	sol, err := path.Solve(problem, []float64{0.4, 0.7})
	require.NoError(t, err)

	_, err = adrules.Pullback(problem, sol, []float64{0.4, 0.7})
	assert.Error(t, err)
}

func TestSolveDual_PropagatesTangent(t *testing.T) {
	problem := projectionProblem(t, true)
	thetaDual := []adrules.Dual{{Value: 0.4, Deriv: 1}, {Value: 0.7, Deriv: 0}}

	zDual, status, _, err := adrules.SolveDual(problem, thetaDual, nil)
	require.NoError(t, err)
	assert.Equal(t, mcp.Solved, status)
	assert.InDelta(t, 0.4, zDual[0].Value, 1e-6)
	assert.InDelta(t, 1, zDual[0].Deriv, 1e-6)
	assert.InDelta(t, 0, zDual[1].Deriv, 1e-6)
}

func TestSolveDual_DimensionMismatch(t *testing.T) {
	problem := projectionProblem(t, true)
	_, _, _, err := adrules.SolveDual(problem, []adrules.Dual{{Value: 0.4}}, nil)
	assert.Error(t, err)
}

func TestTapeRules_ForwardPropagatesTangent(t *testing.T) {
	problem := projectionProblem(t, true)
	rules := adrules.NewTapeRules()

	z, zDot, status, err := rules.Forward(problem, []float64{0.4, 0.7}, []float64{1, 0}, false, true, nil)
	require.NoError(t, err)
	assert.Equal(t, mcp.Solved, status)
	assert.InDeltaSlice(t, []float64{0.4, 0.7}, z, 1e-6)
	assert.InDeltaSlice(t, []float64{1, 0}, zDot, 1e-6)
}

func TestTapeRules_ForwardBatchReusesOneJacobian(t *testing.T) {
	problem := projectionProblem(t, true)
	rules := adrules.NewTapeRules()

	_, zDots, status, err := rules.ForwardBatch(problem, []float64{0.4, 0.7}, [][]float64{{1, 0}, {0, 1}}, false, true, nil)
	require.NoError(t, err)
	assert.Equal(t, mcp.Solved, status)
	require.Len(t, zDots, 2)
	assert.InDeltaSlice(t, []float64{1, 0}, zDots[0], 1e-6)
	assert.InDeltaSlice(t, []float64{0, 1}, zDots[1], 1e-6)
}

func TestTapeRules_Forward_PanicsWhenThetaMarkedConstant(t *testing.T) {
	problem := projectionProblem(t, true)
	rules := adrules.NewTapeRules()
	assert.Panics(t, func() {
		rules.Forward(problem, []float64{0.4, 0.7}, []float64{1, 0}, true, true, nil)
	})
}

func TestTapeRules_Forward_PanicsWhenProblemMarkedNonConstant(t *testing.T) {
	problem := projectionProblem(t, true)
	rules := adrules.NewTapeRules()
	assert.Panics(t, func() {
		rules.Forward(problem, []float64{0.4, 0.7}, []float64{1, 0}, false, false, nil)
	})
}

func TestTape_AugmentPrimalAndReverseAccumulate(t *testing.T) {
	problem := projectionProblem(t, true)
	tape := adrules.NewTape()

	_, err := tape.AugmentPrimal("a", problem, []float64{0.4, 0.7})
	require.NoError(t, err)

	first, err := tape.Reverse("a", []float64{1, 0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0}, first, 1e-9)

	second, err := tape.Reverse("a", []float64{0, 1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1}, second, 1e-9) // accumulated across both Reverse calls
}

func TestTape_ReverseUnknownIDErrors(t *testing.T) {
	tape := adrules.NewTape()
	_, err := tape.Reverse("missing", []float64{1})
	assert.Error(t, err)
}
