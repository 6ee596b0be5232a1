package sparse

// EvalFunc writes the non-zero values of a sparse matrix-valued function
// into out, given the current z and theta. It must write exactly
// out.NNZ() values, in the fixed pattern order out already carries.
type EvalFunc func(out *CSC, z, theta []float64)

// SparseFunction bundles an in-place sparse evaluator with its fixed
// sparsity pattern, a preallocated CSC scratch matrix, and the subset of
// non-zero entries that are structurally constant with respect to the
// differentiation variable (z for jac_z, theta for jac_theta).
//
// Invariant: len(ConstantEntries) <= NNZ(), every index in [0, NNZ()).
type SparseFunction struct {
	scratch         *CSC
	eval            EvalFunc
	ConstantEntries []int
}

// NewSparseFunction constructs a SparseFunction over a fixed pattern.
// eval is expected to write into the CSC passed to it, which is always
// the function's own scratch buffer — callers never receive a fresh
// allocation from Eval.
func NewSparseFunction(scratch *CSC, eval EvalFunc, constantEntries []int) *SparseFunction {
	if len(constantEntries) > scratch.NNZ() {
		panic("sparse: constant-entry count exceeds nnz")
	}
	for _, idx := range constantEntries {
		if idx < 0 || idx >= scratch.NNZ() {
			panic("sparse: constant-entry index out of range")
		}
	}
	return &SparseFunction{scratch: scratch, eval: eval, ConstantEntries: constantEntries}
}

// Eval evaluates the function at (z, theta), writing into and returning
// the shared scratch matrix. The returned pointer aliases internal
// state and is only valid until the next Eval call.
func (f *SparseFunction) Eval(z, theta []float64) *CSC {
	f.eval(f.scratch, z, theta)
	return f.scratch
}

// NNZ reports the number of structural non-zeros.
func (f *SparseFunction) NNZ() int { return f.scratch.NNZ() }

// Pattern reports the fixed (rows, cols, shape) triple.
func (f *SparseFunction) Pattern() (rows, cols []int, shape [2]int) {
	return f.scratch.Pattern()
}

// Scratch exposes the underlying CSC buffer directly: the same pointer
// Eval returns, without evaluating.
func (f *SparseFunction) Scratch() *CSC { return f.scratch }
