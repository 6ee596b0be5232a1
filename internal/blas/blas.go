// Package blas provides the Householder construction/application
// primitives and the HFTI rank-revealing least-squares solver the
// sensitivity core needs, ported from a pure-Go SLSQP implementation.
// gonum/floats and gonum/mat cover the rest of the module's dense
// linear algebra (dot products, norms, matrix staging); this package
// exists only for the handful of primitives — h1/h2 Householder
// construction, HFTI's column-pivoted triangulation — that gonum does
// not expose as a standalone, allocation-free routine over raw slices.
package blas

const (
	zero = 0.0
	one  = 1.0
)

// Dzero fills x with zero.
func Dzero(x []float64) {
	for i := range x {
		x[i] = zero
	}
}
