// Package rational implements symbolic engine A: an exact-rational
// expression kernel adapted from the teacher's gosymbol.go, generalized
// to satisfy the symbolic.Backend capability interface instead of
// standing alone as a general-purpose CAS.
//
// Simplification is rule-based and deterministic, exactly as in the
// source kernel: like terms combine, constants fold, and expressions
// print in a stable canonical order. This determinism is what lets
// DetectConstantEntries (via symbolic.DependsOn) trust that an
// expression's free-variable set does not depend on evaluation order.
package rational

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/parametric-mcp/pmcp/symbolic"
)

// Num is an exact rational constant.
type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

func F(p, q int64) *Num {
	if q == 0 {
		panic("rational: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}
func (n *Num) Diff(symbolic.Var) symbolic.Expr { return N(0) }
func (n *Num) Sub(symbolic.Var, symbolic.Expr) symbolic.Expr { return n }
func (n *Num) Eval(map[string]float64) (float64, bool) {
	f, _ := n.val.Float64()
	return f, true
}
func (n *Num) Equal(other symbolic.Expr) bool {
	o, ok := other.(*Num)
	return ok && n.val.Cmp(o.val) == 0
}
func (n *Num) FreeVars() map[string]struct{} { return nil }
func (n *Num) IsZero() bool                  { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool                   { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool                { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }

// Sym is a symbolic scalar variable, also usable directly as a
// symbolic.Var wherever the Backend interface asks for one.
type Sym struct{ name string }

func S(name string) *Sym { return &Sym{name: name} }

func (s *Sym) Name() string { return s.name }
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

// Add is a simplified sum of terms: like symbols are combined, numeric
// constants fold into a single trailing term, and terms print in a
// stable sorted order — mirroring gosymbol.go's Add.Simplify.
type Add struct{ terms []symbolic.Expr }

func AddOf(terms ...symbolic.Expr) symbolic.Expr { return simplifyAdd(terms) }

func simplifyAdd(terms []symbolic.Expr) symbolic.Expr {
	flat := make([]symbolic.Expr, 0, len(terms))
	for _, t := range terms {
		if inner, ok := t.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, t)
		}
	}
	numAccum := N(0)
	symCoeffs := map[string]*Num{}
	symOrder := []string{}
	symOf := map[string]*Sym{}
	others := []symbolic.Expr{}
	for _, t := range flat {
		switch v := t.(type) {
		case *Num:
			numAccum = numAdd(numAccum, v)
		case *Sym:
			if _, seen := symCoeffs[v.name]; !seen {
				symOrder = append(symOrder, v.name)
				symCoeffs[v.name] = N(0)
				symOf[v.name] = v
			}
			symCoeffs[v.name] = numAdd(symCoeffs[v.name], N(1))
		default:
			others = append(others, t)
		}
	}
	result := []symbolic.Expr{}
	sort.Strings(symOrder)
	for _, name := range symOrder {
		coeff := symCoeffs[name]
		if coeff.IsZero() {
			continue
		}
		if coeff.IsOne() {
			result = append(result, symOf[name])
		} else {
			result = append(result, MulOf(coeff, symOf[name]))
		}
	}
	result = append(result, others...)
	if !numAccum.IsZero() || len(result) == 0 {
		result = append(result, numAccum)
	}
	if len(result) == 1 {
		return result[0]
	}
	sortByString(result)
	return &Add{terms: result}
}

func sortByString(es []symbolic.Expr) {
	sort.SliceStable(es, func(i, j int) bool {
		_, ni := es[i].(*Num)
		_, nj := es[j].(*Num)
		if ni != nj {
			return nj // numbers sort last
		}
		return es[i].String() < es[j].String()
	})
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

// Mul is a simplified product of factors: a single leading numeric
// coefficient, remaining factors sorted for a stable print order.
type Mul struct{ factors []symbolic.Expr }

func MulOf(factors ...symbolic.Expr) symbolic.Expr { return simplifyMul(factors) }

func simplifyMul(factors []symbolic.Expr) symbolic.Expr {
	flat := make([]symbolic.Expr, 0, len(factors))
	for _, f := range factors {
		if inner, ok := f.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, f)
		}
	}
	coeff := N(1)
	others := []symbolic.Expr{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
		} else {
			others = append(others, f)
		}
	}
	if coeff.IsZero() {
		return N(0)
	}
	sortByString(others)
	if coeff.IsOne() {
		if len(others) == 0 {
			return N(1)
		}
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]symbolic.Expr{coeff}, others...)}
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

// Pow is base^exponent, restricted (as in the teacher) to the algebraic
// simplifications needed for polynomial residuals: exponent folding for
// small integer powers, exp(0)=1, exp(1)=base.
type Pow struct{ base, exp symbolic.Expr }

func PowOf(base, exp symbolic.Expr) symbolic.Expr { return simplifyPow(base, exp) }

func simplifyPow(base, exp symbolic.Expr) symbolic.Expr {
	if en, ok := exp.(*Num); ok {
		if en.IsZero() {
			return N(1)
		}
		if en.IsOne() {
			return base
		}
		if bn, ok := base.(*Num); ok && en.val.IsInt() {
			e := en.val.Num().Int64()
			if e > 0 && e <= 32 {
				result := N(1)
				for i := int64(0); i < e; i++ {
					result = numMul(result, bn)
				}
				return result
			}
		}
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) String() string {
	baseStr := p.base.String()
	if _, isAdd := p.base.(*Add); isAdd {
		baseStr = "(" + baseStr + ")"
	}
	return fmt.Sprintf("%s^%s", baseStr, p.exp.String())
}
func (p *Pow) Diff(v symbolic.Var) symbolic.Expr {
	du := p.base.Diff(v)
	if en, ok := p.exp.(*Num); ok {
		newExp := AddOf(en, N(-1))
		return MulOf(en, PowOf(p.base, newExp), du)
	}
	panic("rational: Diff of non-constant exponent is not supported")
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
	result := 1.0
	if e == float64(int64(e)) && e >= 0 {
		for i := int64(0); i < int64(e); i++ {
			result *= b
		}
		return result, true
	}
	return 0, false
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
