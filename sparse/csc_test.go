package sparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parametric-mcp/pmcp/sparse"
)

func TestNewCSCFromTriplets_BuildsColPtrAndRowIdx(t *testing.T) {
	// 2x2 matrix, nonzeros at (0,0) and (1,1).
	m := sparse.NewCSCFromTriplets(2, 2, []int{0, 1}, []int{0, 1})
	assert.Equal(t, []int{0, 1, 2}, m.ColPtr)
	assert.Equal(t, []int{0, 1}, m.RowIdx)
	assert.Equal(t, 2, m.NNZ())
}

func TestNewCSCFromTriplets_PanicsOnUnsortedWithinColumn(t *testing.T) {
	assert.Panics(t, func() {
		sparse.NewCSCFromTriplets(2, 1, []int{1, 0}, []int{0, 0})
	})
}

func TestNewCSCFromTriplets_PanicsOnOutOfRangeRow(t *testing.T) {
	assert.Panics(t, func() {
		sparse.NewCSCFromTriplets(2, 2, []int{5}, []int{0})
	})
}

func TestNewCSCFromTriplets_PanicsOnOutOfRangeColumn(t *testing.T) {
	assert.Panics(t, func() {
		sparse.NewCSCFromTriplets(2, 2, []int{0}, []int{5})
	})
}

func TestCSC_Pattern(t *testing.T) {
	m := sparse.NewCSCFromTriplets(2, 2, []int{0, 1}, []int{0, 1})
	rows, cols, shape := m.Pattern()
	assert.Equal(t, []int{0, 1}, rows)
	assert.Equal(t, []int{0, 1}, cols)
	assert.Equal(t, [2]int{2, 2}, shape)
}

func TestCSC_Dense(t *testing.T) {
	m := sparse.NewCSCFromTriplets(2, 2, []int{0, 1}, []int{0, 1})
	m.Data[0] = 3
	m.Data[1] = 4
	dense := m.Dense()
	require.Len(t, dense, 2)
	assert.Equal(t, [][]float64{{3, 0}, {0, 4}}, dense)
}

func TestCSC_EmptyMatrix(t *testing.T) {
	m := sparse.NewCSCFromTriplets(3, 3, nil, nil)
	assert.Equal(t, 0, m.NNZ())
	assert.Equal(t, [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}, m.Dense())
}
