package path_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parametric-mcp/pmcp/mcp"
	"github.com/parametric-mcp/pmcp/path"
)

func TestPivotDriver_Name(t *testing.T) {
	assert.Equal(t, "pivot", path.NewPivotDriver().Name())
}

// TestPivotDriver_SolvesIdentityProjection drives PivotDriver directly
// against the callback ABI, bypassing package mcp entirely, since
// F(z) = z - theta is trivial to hand-write as callbacks.
func TestPivotDriver_SolvesIdentityProjection(t *testing.T) {
	theta := []float64{0.3, 1.5}
	lb := []float64{0, 0}
	ub := []float64{1, 1}

	f := func(n int, z, out []float64) int {
		for i := range out {
			out[i] = z[i] - theta[i]
		}
		return 0
	}
	j := func(n, nnz int, z []float64, col, length, row []int, data []float64) int {
		// identity Jacobian, one entry per column
		for i := 0; i < n; i++ {
			col[i] = i + 1
			length[i] = 1
			row[i] = i
			data[i] = 1
		}
		return 0
	}

	d := path.NewPivotDriver()
	z, status, err := d.Solve(2, 2, lb, ub, []float64{0.5, 0.5}, f, j, path.SolveHints{})
	require.NoError(t, err)
	assert.Equal(t, mcp.Solved, status)
	assert.InDelta(t, 0.3, z[0], 1e-6)
	assert.InDelta(t, 1.0, z[1], 1e-6) // 1.5 clamps to the upper bound
}

// TestPivotDriver_PresolveSkipsRepeatedJacobianEvaluation checks that
// when SolveHints reports every entry of the Jacobian linear, the
// driver calls the Jacobian callback at most once regardless of how
// many Newton iterations the solve takes.
func TestPivotDriver_PresolveSkipsRepeatedJacobianEvaluation(t *testing.T) {
	theta := []float64{0.3, 1.5}
	lb := []float64{0, 0}
	ub := []float64{1, 1}

	f := func(n int, z, out []float64) int {
		for i := range out {
			out[i] = z[i] - theta[i]
		}
		return 0
	}
	jCalls := 0
	j := func(n, nnz int, z []float64, col, length, row []int, data []float64) int {
		jCalls++
		for i := 0; i < n; i++ {
			col[i] = i + 1
			length[i] = 1
			row[i] = i
			data[i] = 1
		}
		return 0
	}

	d := path.NewPivotDriver()
	hints := path.SolveHints{ConstantJacobianStructure: true, LinearEntries: []int{0, 1}}
	z, status, err := d.Solve(2, 2, lb, ub, []float64{0.5, 0.5}, f, j, hints)
	require.NoError(t, err)
	assert.Equal(t, mcp.Solved, status)
	assert.InDelta(t, 0.3, z[0], 1e-6)
	assert.InDelta(t, 1.0, z[1], 1e-6)
	assert.LessOrEqual(t, jCalls, 1)
}
