package blas

import "math"

// HFTI solves the linear least-squares problem A*X ≅ B by Householder
// Forward Triangulation with column Interchanges, degrading gracefully
// to the minimum-norm solution when A is rank-deficient at tolerance
// tau. A is an m x n matrix stored column-major with leading dimension
// mda; it is overwritten with intermediate factorization data. B is an
// m x nb matrix stored column-major with leading dimension mdb; on
// return its first n rows hold the n x nb solution X. norm receives the
// residual 2-norm for each of the nb right-hand sides. h, g, and ip are
// caller-supplied scratch; h needs length >= n, g and ip length >=
// min(m,n).
//
// Returns the pseudo-rank k actually used.
//
// C.L. Lawson, R.J. Hanson, "Solving Least Squares Problems", ch. 14,
// Algorithm HFTI.
func HFTI(a []float64, mda, m, n int, b []float64, mdb, nb int, tau float64, norm, h, g []float64, ip []int) int {
	const factor = 0.001

	diag := min(m, n)
	if diag <= 0 {
		return 0
	}

	hmax := zero
	for j := 0; j < diag; j++ {
		lmax := j
		if j > 0 {
			v := math.NaN()
			for l := j; l < n; l++ {
				t := a[(j-1)+mda*l]
				if h[l] -= t * t; !(h[l] <= v) {
					lmax, v = l, h[l]
				}
			}
		}
		if j == 0 || factor*h[lmax] < hmax*epsilon {
			v := math.NaN()
			for l := j; l < n; l++ {
				sm := zero
				for _, t := range a[j+mda*l : m+mda*l] {
					sm += t * t
				}
				if h[l] = sm; !(h[l] <= v) {
					lmax, v = l, h[l]
				}
			}
			hmax = h[lmax]
		}

		ip[j] = lmax
		if ip[j] != j {
			c1, c2 := a[mda*j:mda*j+m], a[mda*lmax:mda*lmax+m]
			for i := 0; i < m; i++ {
				c1[i], c2[i] = c2[i], c1[i]
			}
			h[lmax] = h[j]
		}

		i := min(j+1, n-1)
		h[j] = ConstructHouseholder(j, j+1, m, a[mda*j:], 1)
		ApplyHouseholder(j, j+1, m, a[mda*j:], 1, h[j], a[mda*i:], 1, mda, n-j-1)
		ApplyHouseholder(j, j+1, m, a[mda*j:], 1, h[j], b, 1, mdb, nb)
	}

	k := diag
	for j := 0; j < diag; j++ {
		if math.Abs(a[j+mda*j]) <= tau {
			k = j
			break
		}
	}

	for jb := 0; jb < nb; jb++ {
		sm := zero
		if k < m {
			for _, t := range b[mdb*jb+k : mdb*jb+m] {
				sm += t * t
			}
		}
		norm[jb] = math.Sqrt(sm)
	}

	if k > 0 {
		if k < n {
			for i := k - 1; i >= 0; i-- {
				g[i] = ConstructHouseholder(i, k, n, a[i:], mda)
				ApplyHouseholder(i, k, n, a[i:], mda, g[i], a, mda, 1, i)
			}
		}

		for jb := 0; jb < nb; jb++ {
			cb := b[mdb*jb:]

			for i := k - 1; i >= 0; i-- {
				sm := zero
				for j := i + 1; j < k; j++ {
					sm += a[i+mda*j] * cb[j]
				}
				cb[i] = (cb[i] - sm) / a[i+mda*i]
			}

			if k < n {
				Dzero(cb[k:n])
				for i := 0; i < k; i++ {
					ApplyHouseholder(i, k, n, a[i:], mda, g[i], cb, 1, mdb, 1)
				}
			}

			for j := diag - 1; j >= 0; j-- {
				if l := ip[j]; l != j {
					cb[l], cb[j] = cb[j], cb[l]
				}
			}
		}
	} else if nb > 0 {
		for jb := 0; jb < nb; jb++ {
			Dzero(b[mdb*jb : mdb*jb+n])
		}
	}

	return k
}

const epsilon = 2.220446049250313e-16
