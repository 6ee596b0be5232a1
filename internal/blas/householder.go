package blas

import "math"

// ConstructHouseholder builds, in place, the Householder vector and pivot
// scalar that zero the entries of v indexed [l, m) below pivot index p,
// leaving v[p] holding the reflector's leading element s and the
// remaining entries holding u = v - s*e_p. ive is the storage stride
// between logical elements of v.
//
// Requires 0 <= p < l < m; returns up, the separately-retained original
// pivot element needed by ApplyHouseholder.
//
// C.L. Lawson, R.J. Hanson, "Solving Least Squares Problems", ch. 10.
func ConstructHouseholder(p, l, m int, v []float64, ive int) (up float64) {
	if p < 0 || p >= l || l >= m {
		return 0
	}
	lp := p * ive
	l1 := l * ive
	lm := (m - 1) * ive

	maxV := math.Abs(v[lp])
	for j := l1; j <= lm; j += ive {
		maxV = math.Max(math.Abs(v[j]), maxV)
	}
	if maxV <= zero {
		return 0
	}

	invV := one / maxV
	sumV := math.Pow(v[lp]*invV, 2)
	for j := l1; j <= lm; j += ive {
		sumV += math.Pow(v[j]*invV, 2)
	}

	s := maxV * math.Sqrt(sumV)
	if v[lp] > zero {
		s = -s
	}
	up = v[lp] - s
	v[lp] = s
	return up
}

// ApplyHouseholder applies the Householder transformation built by
// ConstructHouseholder — Qc = c + b^-1(u^T c)u — to ncv column vectors
// stored in c with element stride ice and vector stride icv.
func ApplyHouseholder(p, l, m int, u []float64, iue int, up float64, c []float64, ice, icv, ncv int) {
	if p < 0 || p >= l || l >= m || ncv <= 0 {
		return
	}
	b := u[p*iue] * up
	if b >= zero {
		return
	}
	b = one / b

	base := ice * p
	incr := ice * (l - p)
	l1 := l * iue
	lm := (m - 1) * iue
	ln := base + icv*(ncv-1)

	for j := base; j <= ln; j += icv {
		c1, cm := j+incr, (j+incr)+(m-l-1)*ice
		sm := c[j] * up
		for iu, ic := l1, c1; iu <= lm && ic <= cm; {
			sm += c[ic] * u[iu]
			ic += ice
			iu += iue
		}
		if sm != zero {
			sm *= b
			c[j] += sm * up
			for iu, ic := l1, c1; iu <= lm && ic <= cm; {
				c[ic] += sm * u[iu]
				ic += ice
				iu += iue
			}
		}
	}
}
