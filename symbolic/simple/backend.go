package simple

import (
	"fmt"

	"github.com/parametric-mcp/pmcp/symbolic"
)

// Backend implements symbolic.Backend over the float-coefficient Expr
// kernel defined in simple.go. It is the second, independently
// implemented engine referenced throughout SPEC_FULL.md's symbolic
// backend abstraction.
type Backend struct{}

// New returns the simple (engine B) backend.
func New() *Backend { return &Backend{} }

func (*Backend) Name() string { return "simple" }

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

func (b *Backend) SparseJacobian(exprs []symbolic.Expr, x []symbolic.Var) (entries []symbolic.Expr, rows, cols []int, shape [2]int) {
	dense := b.Jacobian(exprs, x)
	shape = [2]int{len(exprs), len(x)}
	for j := range x {
		for i := range exprs {
			e := dense[i][j]
			if n, ok := e.(*Num); ok && n.isZero() {
				continue
			}
			entries = append(entries, e)
			rows = append(rows, i)
			cols = append(cols, j)
		}
	}
	return entries, rows, cols, shape
}

func (*Backend) BuildFunctionInPlace(exprs []symbolic.Expr, z, theta []symbolic.Var) (symbolic.CallableInPlace, error) {
	return func(out, zVal, thetaVal []float64) {
		env := make(map[string]float64, len(z)+len(theta))
		for i, v := range z {
			env[v.Name()] = zVal[i]
		}
		for i, v := range theta {
			env[v.Name()] = thetaVal[i]
		}
		for i, e := range exprs {
			v, ok := e.Eval(env)
			if !ok {
				panic(fmt.Sprintf("simple: expression %q could not be evaluated: missing binding", e.String()))
			}
			out[i] = v
		}
	}, nil
}
