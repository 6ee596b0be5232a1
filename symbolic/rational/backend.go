package rational

import (
	"fmt"

	"github.com/parametric-mcp/pmcp/symbolic"
)

// Backend implements symbolic.Backend over the exact-rational Expr
// kernel defined in rational.go.
type Backend struct{}

// New returns the rational (engine A) backend.
func New() *Backend { return &Backend{} }

func (*Backend) Name() string { return "rational" }

// MakeVariables mirrors gosymbol's variable-vector convention: names are
// suffixed with a 1-based index, e.g. z1, z2, .... dim == 0 returns a
// non-nil empty slice so a zero-parameter problem still traces.
func (*Backend) MakeVariables(name string, dim int) []symbolic.Var {
	out := make([]symbolic.Var, dim)
	for i := 0; i < dim; i++ {
		out[i] = S(fmt.Sprintf("%s%d", name, i+1))
	}
	return out
}

func (*Backend) Gradient(expr symbolic.Expr, x []symbolic.Var) []symbolic.Expr {
	out := make([]symbolic.Expr, len(x))
	for i, v := range x {
		out[i] = expr.Diff(v)
	}
	return out
}

func (b *Backend) Jacobian(exprs []symbolic.Expr, x []symbolic.Var) [][]symbolic.Expr {
	out := make([][]symbolic.Expr, len(exprs))
	for i, e := range exprs {
		out[i] = b.Gradient(e, x)
	}
	return out
}

// SparseJacobian derives the dense Jacobian and keeps only structurally
// non-zero entries, in column-major nnz order — this mirrors the
// teacher's non-zero-triplet extraction idiom, generalized from a matrix
// pretty-printer into a sparsity-pattern extractor.
func (b *Backend) SparseJacobian(exprs []symbolic.Expr, x []symbolic.Var) (entries []symbolic.Expr, rows, cols []int, shape [2]int) {
	dense := b.Jacobian(exprs, x)
	shape = [2]int{len(exprs), len(x)}
	// Column-major (CSC) iteration order: this is the nnz order the rest
	// of the pipeline (sparse.CSC, COO conversion, constant-entry
	// indices) treats as canonical.
	for j := range x {
		for i := range exprs {
			e := dense[i][j]
			if isStructuralZero(e) {
				continue
			}
			entries = append(entries, e)
			rows = append(rows, i)
			cols = append(cols, j)
		}
	}
	return entries, rows, cols, shape
}

func isStructuralZero(e symbolic.Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsZero()
}

// BuildFunctionInPlace closes over the expression tree and evaluates it
// by binding z/theta into an env map and walking Eval, in the spirit of
// the teacher's Expr.Sub + Expr.Eval combination. No code generation to
// machine code happens (Go has no runtime eval); "code generation" here
// means producing the closure once, at compile time, so no substitution
// or re-simplification recurs on the hot path. Each call still builds an
// env map and walks every expression tree through Eval.
func (*Backend) BuildFunctionInPlace(exprs []symbolic.Expr, z, theta []symbolic.Var) (symbolic.CallableInPlace, error) {
	if len(z) == 0 && len(theta) == 0 {
		return func(out, _, _ []float64) {
			for i, e := range exprs {
				v, ok := e.Eval(nil)
				if !ok {
					panic("rational: expression could not be evaluated with an empty environment")
				}
				out[i] = v
			}
		}, nil
	}
	names := make([]string, 0, len(z)+len(theta))
	for _, v := range z {
		names = append(names, v.Name())
	}
	for _, v := range theta {
		names = append(names, v.Name())
	}
	return func(out, zVal, thetaVal []float64) {
		env := make(map[string]float64, len(names))
		for i, v := range z {
			env[v.Name()] = zVal[i]
		}
		for i, v := range theta {
			env[v.Name()] = thetaVal[i]
		}
		for i, e := range exprs {
			v, ok := e.Eval(env)
			if !ok {
				panic(fmt.Sprintf("rational: expression %q could not be evaluated: missing binding", e.String()))
			}
			out[i] = v
		}
	}, nil
}
