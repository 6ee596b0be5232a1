// Package sparse provides the COO/CSC sparse-matrix adapters and the
// SparseFunction container used throughout the compiled ParametricMCP:
// a fixed sparsity pattern, a preallocated scratch buffer, and the set
// of structurally constant non-zero entries.
package sparse

import "fmt"

// CSC is a compressed-sparse-column matrix with a fixed, preallocated
// non-zero layout. Its Data slice is the only thing that changes between
// evaluations; ColPtr and RowIdx never move once built, which is what
// lets a SparseFunction reuse the same CSC as scratch across every call.
type CSC struct {
	Rows, Cols int
	ColPtr     []int // length Cols+1, colptr[j+1]-colptr[j] entries in column j
	RowIdx     []int // length nnz, row index of each stored value, sorted within each column
	Data       []float64
}

// NNZ returns the number of stored (structural) non-zero entries.
func (m *CSC) NNZ() int { return len(m.RowIdx) }

// NewCSCFromTriplets builds a CSC matrix from column-major-ordered
// triplets, i.e. triplets already grouped by column and, within a
// column, sorted by row — exactly the order symbolic.Backend.
// SparseJacobian is specified to emit. It panics if the triplets are not
// in that order, since a silently-reordered pattern would desynchronize
// from the constant-entry indices computed against the same order.
func NewCSCFromTriplets(rows, cols int, triRows, triCols []int) *CSC {
	if len(triRows) != len(triCols) {
		panic("sparse: mismatched triplet row/col lengths")
	}
	nnz := len(triRows)
	colPtr := make([]int, cols+1)
	for k, c := range triCols {
		if c < 0 || c >= cols {
			panic(fmt.Sprintf("sparse: column index %d out of range for %d columns", c, cols))
		}
		if k > 0 && c < triCols[k-1] {
			panic("sparse: triplets are not grouped by column")
		}
		colPtr[c+1]++
	}
	for j := 0; j < cols; j++ {
		colPtr[j+1] += colPtr[j]
	}
	if colPtr[cols] != nnz {
		panic("sparse: triplets are not grouped by column")
	}
	rowIdx := make([]int, nnz)
	copy(rowIdx, triRows)
	for j := 0; j < cols; j++ {
		start, end := colPtr[j], colPtr[j+1]
		for k := start + 1; k < end; k++ {
			if rowIdx[k] < rowIdx[k-1] {
				panic("sparse: triplets are not sorted by row within column")
			}
		}
	}
	for i, r := range rowIdx {
		if r < 0 || r >= rows {
			panic(fmt.Sprintf("sparse: row index %d out of range for %d rows", r, rows))
		}
		_ = i
	}
	return &CSC{Rows: rows, Cols: cols, ColPtr: colPtr, RowIdx: rowIdx, Data: make([]float64, nnz)}
}

// Pattern returns the fixed (rows, cols, shape) triple describing where
// the matrix's non-zeros live, without exposing the mutable Data buffer.
func (m *CSC) Pattern() (rows, cols []int, shape [2]int) {
	rows = make([]int, m.NNZ())
	cols = make([]int, m.NNZ())
	for j := 0; j < m.Cols; j++ {
		for k := m.ColPtr[j]; k < m.ColPtr[j+1]; k++ {
			rows[k] = m.RowIdx[k]
			cols[k] = j
		}
	}
	return rows, cols, [2]int{m.Rows, m.Cols}
}

// Dense materializes the matrix as a row-major dense slice, used by the
// sensitivity core's small restricted sub-solves and the AD glue — never
// on the solver's hot path.
func (m *CSC) Dense() [][]float64 {
	out := make([][]float64, m.Rows)
	for i := range out {
		out[i] = make([]float64, m.Cols)
	}
	for j := 0; j < m.Cols; j++ {
		for k := m.ColPtr[j]; k < m.ColPtr[j+1]; k++ {
			out[m.RowIdx[k]][j] = m.Data[k]
		}
	}
	return out
}
