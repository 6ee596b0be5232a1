package rational_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parametric-mcp/pmcp/symbolic"
	"github.com/parametric-mcp/pmcp/symbolic/rational"
)

func TestBackend_MakeVariables(t *testing.T) {
	b := rational.New()
	vars := b.MakeVariables("z", 3)
	require.Len(t, vars, 3)
	assert.Equal(t, "z1", vars[0].Name())
	assert.Equal(t, "z3", vars[2].Name())
}

func TestBackend_MakeVariablesZeroDim(t *testing.T) {
	b := rational.New()
	vars := b.MakeVariables("theta", 0)
	assert.NotNil(t, vars)
	assert.Len(t, vars, 0)
}

func TestBackend_SparseJacobian(t *testing.T) {
	b := rational.New()
	z := b.MakeVariables("z", 2)
	// F = [z1 - z2, z2^2]; dF/dz = [[1, -1], [0, 2*z2]]
	f0 := rational.AddOf(z[0], rational.MulOf(rational.N(-1), z[1]))
	f1 := rational.PowOf(z[1], rational.N(2))
	entries, rows, cols, shape := b.SparseJacobian([]symbolic.Expr{f0, f1}, z)

	assert.Equal(t, [2]int{2, 2}, shape)
	require.Len(t, entries, 3)
	// column-major order: column 0 has row 0 only, column 1 has rows 0,1
	assert.Equal(t, []int{0, 0, 1}, rows)
	assert.Equal(t, []int{0, 1, 1}, cols)
}

func TestBackend_BuildFunctionInPlace(t *testing.T) {
	b := rational.New()
	z := b.MakeVariables("z", 2)
	theta := b.MakeVariables("theta", 1)
	residual := []symbolic.Expr{
		rational.AddOf(z[0], rational.MulOf(rational.N(-1), theta[0])),
		rational.AddOf(z[1], rational.N(-2)),
	}
	fn, err := b.BuildFunctionInPlace(residual, z, theta)
	require.NoError(t, err)

	out := make([]float64, 2)
	fn(out, []float64{5, 7}, []float64{1})
	assert.Equal(t, []float64{4, 5}, out)
}

func TestBackend_BuildFunctionInPlaceZeroDim(t *testing.T) {
	b := rational.New()
	residual := []symbolic.Expr{rational.N(42)}
	fn, err := b.BuildFunctionInPlace(residual, nil, nil)
	require.NoError(t, err)

	out := make([]float64, 1)
	fn(out, nil, nil)
	assert.Equal(t, 42.0, out[0])
}

func TestDependsOn(t *testing.T) {
	x, y := rational.S("x"), rational.S("y")
	expr := rational.AddOf(x, rational.N(1))
	assert.True(t, symbolic.DependsOn(expr, []symbolic.Var{x}))
	assert.False(t, symbolic.DependsOn(expr, []symbolic.Var{y}))
}

func TestDependsOn_ConstantExpression(t *testing.T) {
	x := rational.S("x")
	assert.False(t, symbolic.DependsOn(rational.N(7), []symbolic.Var{x}))
}
