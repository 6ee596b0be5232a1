package mcp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parametric-mcp/pmcp/mcp"
	"github.com/parametric-mcp/pmcp/symbolic"
	"github.com/parametric-mcp/pmcp/symbolic/rational"
	"github.com/parametric-mcp/pmcp/symbolic/simple"
)

// projectionResidual builds F(z, theta) = z - theta, the canonical
// worked example whose solution is the box projection of theta.
func projectionResidual(z, theta []symbolic.Var) ([]symbolic.Expr, error) {
	out := make([]symbolic.Expr, len(z))
	for i := range out {
		out[i] = rational.AddOf(z[i], rational.MulOf(rational.N(-1), theta[i]))
	}
	return out, nil
}

func TestCompile_DimensionMismatch(t *testing.T) {
	_, err := mcp.Compile(projectionResidual, []float64{0, 0}, []float64{1}, 2)
	require.Error(t, err)
	var dimErr *mcp.DimensionError
	assert.ErrorAs(t, err, &dimErr)
}

func TestCompile_BoundsOrderError(t *testing.T) {
	_, err := mcp.Compile(projectionResidual, []float64{1}, []float64{0}, 1)
	require.Error(t, err)
	var boundsErr *mcp.BoundsOrderError
	assert.ErrorAs(t, err, &boundsErr)
}

func TestCompile_NegativeParameterDimensionErrors(t *testing.T) {
	_, err := mcp.Compile(projectionResidual, []float64{0}, []float64{1}, -1)
	assert.Error(t, err)
}

func TestCompile_DefaultsToRationalBackend(t *testing.T) {
	problem, err := mcp.Compile(projectionResidual, []float64{0, 0}, []float64{1, 1}, 2)
	require.NoError(t, err)
	assert.Equal(t, "rational", problem.BackendName())
	assert.Equal(t, 2, problem.Size())
	assert.Equal(t, 2, problem.ParameterDimension())
	assert.True(t, problem.HasSensitivities())
}

func TestCompile_ZeroParameterProblem(t *testing.T) {
	zeroParamResidual := func(z, theta []symbolic.Var) ([]symbolic.Expr, error) {
		out := make([]symbolic.Expr, len(z))
		for i := range out {
			out[i] = rational.AddOf(z[i], rational.N(-1))
		}
		return out, nil
	}
	problem, err := mcp.Compile(zeroParamResidual, []float64{0}, []float64{2}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, problem.ParameterDimension())

	out := make([]float64, 1)
	problem.FEval(out, []float64{1}, nil)
	assert.Equal(t, 0.0, out[0])
}

func TestCompile_WithSensitivitiesDisabled(t *testing.T) {
	problem, err := mcp.Compile(projectionResidual, []float64{0}, []float64{1}, 1, mcp.WithSensitivities(false))
	require.NoError(t, err)
	assert.False(t, problem.HasSensitivities())
	assert.Nil(t, problem.JacTheta)
}

func TestCompile_WithBackendSimple(t *testing.T) {
	simpleResidual := func(z, theta []symbolic.Var) ([]symbolic.Expr, error) {
		out := make([]symbolic.Expr, len(z))
		for i := range out {
			out[i] = simple.AddOf(z[i], simple.MulOf(simple.N(-1), theta[i]))
		}
		return out, nil
	}
	problem, err := mcp.Compile(simpleResidual, []float64{0}, []float64{1}, 1, mcp.WithBackend(simple.New()))
	require.NoError(t, err)
	assert.Equal(t, "simple", problem.BackendName())
}

func TestCompile_FEvalAndJacZ(t *testing.T) {
	problem, err := mcp.Compile(projectionResidual, []float64{0, 0}, []float64{1, 1}, 2)
	require.NoError(t, err)

	out := make([]float64, 2)
	problem.FEval(out, []float64{0.3, 0.6}, []float64{0.1, 0.2})
	assert.InDeltaSlice(t, []float64{0.2, 0.4}, out, 1e-12)

	jac := problem.JacZ.Eval([]float64{0.3, 0.6}, []float64{0.1, 0.2})
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, jac.Dense())
}

func TestCompile_JacZIsStructurallyConstant(t *testing.T) {
	problem, err := mcp.Compile(projectionResidual, []float64{0, 0}, []float64{1, 1}, 2)
	require.NoError(t, err)
	assert.Len(t, problem.JacZ.ConstantEntries, problem.JacZ.NNZ())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Solved", mcp.Solved.String())
	assert.Equal(t, "Unknown", mcp.Status(999).String())
}
