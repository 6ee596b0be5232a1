package sparse

import "fmt"

// ToCOO converts a CSC matrix into the four arrays PATH's C ABI expects:
// 1-indexed column start pointers, per-column non-zero counts, row
// indices, and values — in the same order the CSC stores them. This is
// purely a copy; it never reorders data (spec §4.1).
func ToCOO(m *CSC) (col, length, row []int, data []float64) {
	col = make([]int, m.Cols)
	length = make([]int, m.Cols)
	row = make([]int, m.NNZ())
	data = make([]float64, m.NNZ())
	ToCOOInto(m, col, length, row, data)
	return col, length, row, data
}

// ToCOOInto writes the COO conversion into caller-supplied arrays,
// allocation-free, for use inside a PATH callback where the solver owns
// the destination buffers for the duration of the call (spec §5
// resource lifecycle, §9 "avoid allocation during solve").
func ToCOOInto(m *CSC, col, length, row []int, data []float64) {
	if len(col) != m.Cols || len(length) != m.Cols {
		panic(fmt.Sprintf("sparse: ToCOOInto column arrays must have length %d", m.Cols))
	}
	if len(row) != m.NNZ() || len(data) != m.NNZ() {
		panic(fmt.Sprintf("sparse: ToCOOInto row/data arrays must have length %d", m.NNZ()))
	}
	for j := 0; j < m.Cols; j++ {
		start, end := m.ColPtr[j], m.ColPtr[j+1]
		col[j] = start + 1 // 1-indexed start position
		length[j] = end - start
	}
	copy(row, m.RowIdx)
	copy(data, m.Data)
}
