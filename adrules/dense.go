package adrules

import "github.com/parametric-mcp/pmcp/sparse"

// dense is a small row-major materialization of a sparse.CSC used by
// adrules' AD glue, which reads ∂z*/∂θ in arbitrary (row, col) order —
// unlike the solver hot path, these reads happen once per AD call, so
// the density cost is immaterial.
type dense struct {
	rows, cols int
	data       [][]float64
}

func toDense(m *sparse.CSC) *dense {
	return &dense{rows: m.Rows, cols: m.Cols, data: m.Dense()}
}

func (d *dense) at(i, j int) float64 { return d.data[i][j] }

// col extracts column j as a contiguous slice, since the underlying
// storage is row-major; gonum/floats' reductions (Dot, AddScaled) need
// a contiguous operand.
func (d *dense) col(j int) []float64 {
	out := make([]float64, d.rows)
	for i := 0; i < d.rows; i++ {
		out[i] = d.data[i][j]
	}
	return out
}

// row returns row i, already contiguous in the underlying storage.
func (d *dense) row(i int) []float64 { return d.data[i] }
