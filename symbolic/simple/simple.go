// Package simple implements symbolic engine B: a lightweight,
// float-coefficient expression kernel adapted from the teacher's
// sympy.go. It deliberately trades exact rational arithmetic for plain
// float64 coefficients and a smaller simplification rule set, so that
// the two engines wired into symbolic.Backend are genuinely independent
// implementations rather than one engine imported twice.
package simple

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/parametric-mcp/pmcp/symbolic"
)

// Num is a float-valued constant, playing the role sympy.go's Num/
// Rational pairing played in the teacher.
type Num struct{ v float64 }

func N(n float64) *Num { return &Num{v: n} }

func (n *Num) String() string { return trimFloat(n.v) }
func (n *Num) Diff(symbolic.Var) symbolic.Expr { return N(0) }
func (n *Num) Sub(symbolic.Var, symbolic.Expr) symbolic.Expr { return n }
func (n *Num) Eval(map[string]float64) (float64, bool) { return n.v, true }
func (n *Num) Equal(other symbolic.Expr) bool {
	o, ok := other.(*Num)
	return ok && n.v == o.v
}
func (n *Num) FreeVars() map[string]struct{} { return nil }
func (n *Num) isZero() bool                  { return n.v == 0 }
func (n *Num) isOne() bool                   { return n.v == 1 }

func trimFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// Sym is a symbolic scalar variable.
type Sym struct{ name string }

func S(name string) *Sym { return &Sym{name: name} }

func (s *Sym) Name() string   { return s.name }
func (s *Sym) String() string { return s.name }
func (s *Sym) Diff(v symbolic.Var) symbolic.Expr {
	if s.name == v.Name() {
		return N(1)
	}
	return N(0)
}
func (s *Sym) Sub(v symbolic.Var, value symbolic.Expr) symbolic.Expr {
	if s.name == v.Name() {
		return value
	}
	return s
}
func (s *Sym) Eval(env map[string]float64) (float64, bool) {
	v, ok := env[s.name]
	return v, ok
}
func (s *Sym) Equal(other symbolic.Expr) bool {
	o, ok := other.(*Sym)
	return ok && s.name == o.name
}
func (s *Sym) FreeVars() map[string]struct{} { return map[string]struct{}{s.name: {}} }

// Add is a simplified sum, following sympy.go's Add.Simplify: constants
// fold, terms sort by string for a deterministic print order.
type Add struct{ terms []symbolic.Expr }

func AddOf(terms ...symbolic.Expr) symbolic.Expr {
	var flat []symbolic.Expr
	sum := 0.0
	for _, t := range terms {
		switch v := t.(type) {
		case *Add:
			flat = append(flat, v.terms...)
		case *Num:
			sum += v.v
		default:
			flat = append(flat, t)
		}
	}
	if sum != 0 || len(flat) == 0 {
		flat = append(flat, N(sum))
	}
	if len(flat) == 1 {
		return flat[0]
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i].String() < flat[j].String() })
	return &Add{terms: flat}
}

func (a *Add) String() string {
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}
func (a *Add) Diff(v symbolic.Var) symbolic.Expr {
	terms := make([]symbolic.Expr, len(a.terms))
	for i, t := range a.terms {
		terms[i] = t.Diff(v)
	}
	return AddOf(terms...)
}
func (a *Add) Sub(v symbolic.Var, value symbolic.Expr) symbolic.Expr {
	terms := make([]symbolic.Expr, len(a.terms))
	for i, t := range a.terms {
		terms[i] = t.Sub(v, value)
	}
	return AddOf(terms...)
}
func (a *Add) Eval(env map[string]float64) (float64, bool) {
	acc := 0.0
	for _, t := range a.terms {
		v, ok := t.Eval(env)
		if !ok {
			return 0, false
		}
		acc += v
	}
	return acc, true
}
func (a *Add) Equal(other symbolic.Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}
func (a *Add) FreeVars() map[string]struct{} {
	out := map[string]struct{}{}
	for _, t := range a.terms {
		for k := range t.FreeVars() {
			out[k] = struct{}{}
		}
	}
	return out
}

// Mul is a simplified product, following sympy.go's Mul.Simplify.
type Mul struct{ factors []symbolic.Expr }

func MulOf(factors ...symbolic.Expr) symbolic.Expr {
	var flat []symbolic.Expr
	prod := 1.0
	for _, f := range factors {
		switch v := f.(type) {
		case *Mul:
			flat = append(flat, v.factors...)
		case *Num:
			prod *= v.v
		default:
			flat = append(flat, f)
		}
	}
	if prod == 0 {
		return N(0)
	}
	if prod != 1 {
		flat = append(flat, N(prod))
	}
	if len(flat) == 0 {
		return N(prod)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i].String() < flat[j].String() })
	return &Mul{factors: flat}
}

func (m *Mul) String() string {
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		if _, isAdd := f.(*Add); isAdd {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return strings.Join(parts, "*")
}
func (m *Mul) Diff(v symbolic.Var) symbolic.Expr {
	terms := make([]symbolic.Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(v)
		others := make([]symbolic.Expr, 0, len(m.factors)-1)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		if len(others) == 0 {
			terms[i] = dfi
		} else {
			terms[i] = MulOf(append([]symbolic.Expr{dfi}, others...)...)
		}
	}
	return AddOf(terms...)
}
func (m *Mul) Sub(v symbolic.Var, value symbolic.Expr) symbolic.Expr {
	factors := make([]symbolic.Expr, len(m.factors))
	for i, f := range m.factors {
		factors[i] = f.Sub(v, value)
	}
	return MulOf(factors...)
}
func (m *Mul) Eval(env map[string]float64) (float64, bool) {
	acc := 1.0
	for _, f := range m.factors {
		v, ok := f.Eval(env)
		if !ok {
			return 0, false
		}
		acc *= v
	}
	return acc, true
}
func (m *Mul) Equal(other symbolic.Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}
func (m *Mul) FreeVars() map[string]struct{} {
	out := map[string]struct{}{}
	for _, f := range m.factors {
		for k := range f.FreeVars() {
			out[k] = struct{}{}
		}
	}
	return out
}

// Pow is base^exponent. PowOf folds a numeric base only for positive
// integer exponents, Diff supports only a numeric exponent, and Eval
// uses math.Pow for any exponent.
type Pow struct{ base, exp symbolic.Expr }

func PowOf(base, exp symbolic.Expr) symbolic.Expr {
	if en, ok := exp.(*Num); ok {
		if en.isZero() {
			return N(1)
		}
		if en.isOne() {
			return base
		}
		if bn, ok := base.(*Num); ok && en.v == math.Trunc(en.v) && en.v > 0 {
			return N(math.Pow(bn.v, en.v))
		}
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) String() string { return fmt.Sprintf("(%s)^%s", p.base, p.exp) }
func (p *Pow) Diff(v symbolic.Var) symbolic.Expr {
	du := p.base.Diff(v)
	en, ok := p.exp.(*Num)
	if !ok {
		panic("simple: Diff of non-constant exponent is not supported")
	}
	newExp := AddOf(en, N(-1))
	return MulOf(en, PowOf(p.base, newExp), du)
}
func (p *Pow) Sub(v symbolic.Var, value symbolic.Expr) symbolic.Expr {
	return PowOf(p.base.Sub(v, value), p.exp.Sub(v, value))
}
func (p *Pow) Eval(env map[string]float64) (float64, bool) {
	b, ok1 := p.base.Eval(env)
	e, ok2 := p.exp.Eval(env)
	if !ok1 || !ok2 {
		return 0, false
	}
	return math.Pow(b, e), true
}
func (p *Pow) Equal(other symbolic.Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}
func (p *Pow) FreeVars() map[string]struct{} {
	out := p.base.FreeVars()
	for k := range p.exp.FreeVars() {
		if out == nil {
			out = map[string]struct{}{}
		}
		out[k] = struct{}{}
	}
	return out
}
