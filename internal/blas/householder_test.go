package blas_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parametric-mcp/pmcp/internal/blas"
)

func TestConstructHouseholder_ZeroesTrailingEntries(t *testing.T) {
	v := []float64{3, 4, 0}
	up := blas.ConstructHouseholder(0, 1, 3, v, 1)

	// The reflector's leading element should have magnitude
	// sqrt(3^2+4^2+0^2) = 5.
	assert.InDelta(t, 5, math.Abs(v[0]), 1e-9)
	assert.NotEqual(t, 0.0, up)
}

func TestConstructHouseholder_AllZeroVectorIsNoop(t *testing.T) {
	v := []float64{0, 0, 0}
	up := blas.ConstructHouseholder(0, 1, 3, v, 1)
	assert.Equal(t, 0.0, up)
}

func TestDzero(t *testing.T) {
	x := []float64{1, 2, 3}
	blas.Dzero(x)
	assert.Equal(t, []float64{0, 0, 0}, x)
}
