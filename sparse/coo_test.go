package sparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parametric-mcp/pmcp/sparse"
)

func buildSample() *sparse.CSC {
	// 2x2, nonzeros at (0,0)=1, (1,0)=2, (1,1)=3 (column-major order).
	m := sparse.NewCSCFromTriplets(2, 2, []int{0, 1, 1}, []int{0, 0, 1})
	m.Data[0], m.Data[1], m.Data[2] = 1, 2, 3
	return m
}

func TestToCOO_Layout(t *testing.T) {
	m := buildSample()
	col, length, row, data := sparse.ToCOO(m)

	assert.Equal(t, []int{1, 3}, col)     // 1-indexed column starts
	assert.Equal(t, []int{2, 1}, length)  // column 0 has 2 entries, column 1 has 1
	assert.Equal(t, []int{0, 1, 1}, row)
	assert.Equal(t, []float64{1, 2, 3}, data)
}

func TestToCOOInto_MatchesToCOO(t *testing.T) {
	m := buildSample()
	wantCol, wantLength, wantRow, wantData := sparse.ToCOO(m)

	col := make([]int, m.Cols)
	length := make([]int, m.Cols)
	row := make([]int, m.NNZ())
	data := make([]float64, m.NNZ())
	sparse.ToCOOInto(m, col, length, row, data)

	assert.Equal(t, wantCol, col)
	assert.Equal(t, wantLength, length)
	assert.Equal(t, wantRow, row)
	assert.Equal(t, wantData, data)
}

func TestToCOOInto_PanicsOnWrongBufferSize(t *testing.T) {
	m := buildSample()
	assert.Panics(t, func() {
		sparse.ToCOOInto(m, make([]int, 1), make([]int, m.Cols), make([]int, m.NNZ()), make([]float64, m.NNZ()))
	})
}
