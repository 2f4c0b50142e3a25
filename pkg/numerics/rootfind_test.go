package numerics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBisect(t *testing.T) {
	f := func(x float64) float64 { return x*x - 2 }

	root, err := Bisect(f, 0, 2, 1e-10, 200)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, root, 1e-9)
}

func TestBisectNotBracketed(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }

	_, err := Bisect(f, -1, 1, 1e-10, 100)
	assert.ErrorIs(t, err, ErrRootNotBracketed)
}

func TestNewtonRaphson(t *testing.T) {
	f := func(x float64) float64 { return x*x*x - 8 }
	df := func(x float64) float64 { return 3 * x * x }

	root, err := NewtonRaphson(f, df, 3, 1e-12, 100)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, root, 1e-9)
}

func TestNewtonRaphsonZeroDerivative(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }
	df := func(x float64) float64 { return 0 }

	_, err := NewtonRaphson(f, df, 1, 1e-12, 100)
	assert.ErrorIs(t, err, ErrZeroDerivative)
}

func TestBrent(t *testing.T) {
	f := func(x float64) float64 { return math.Cos(x) - x }

	root, err := Brent(f, 0, 1, 1e-12, 200)
	require.NoError(t, err)
	// cos(x) = x 的不动点
	assert.InDelta(t, 0.7390851332151607, root, 1e-9)
}

func TestBrentNotBracketed(t *testing.T) {
	f := func(x float64) float64 { return x + 10 }

	_, err := Brent(f, 0, 1, 1e-12, 100)
	assert.ErrorIs(t, err, ErrRootNotBracketed)
}
