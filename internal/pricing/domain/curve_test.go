package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCurve(t *testing.T, method InterpolationMethod) *CurveData {
	t.Helper()
	curve, err := NewCurveData("USD", CurveTypeSwap, method, []YieldCurvePoint{
		{Maturity: 0.5, Rate: 0.020},
		{Maturity: 1.0, Rate: 0.025},
		{Maturity: 2.0, Rate: 0.030},
		{Maturity: 5.0, Rate: 0.035},
	})
	require.NoError(t, err)
	return curve
}

func TestCurveFlatExtrapolation(t *testing.T) {
	curve := testCurve(t, InterpCubicSpline)

	rate, err := curve.Rate(0.1)
	require.NoError(t, err)
	assert.InDelta(t, 0.020, rate, 1e-12)

	rate, err = curve.Rate(10)
	require.NoError(t, err)
	assert.InDelta(t, 0.035, rate, 1e-12)
}

func TestCurveLinearInterpolation(t *testing.T) {
	curve := testCurve(t, InterpLinear)

	rate, err := curve.Rate(1.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.0275, rate, 1e-12)
}

func TestCurveSplineInterpolatesNodes(t *testing.T) {
	for _, method := range []InterpolationMethod{InterpCubicSpline, InterpAkima} {
		curve := testCurve(t, method)
		rate, err := curve.Rate(1.0)
		require.NoError(t, err)
		assert.InDelta(t, 0.025, rate, 1e-9, "method %s", method)
	}
}

func TestCurveSparseFallsBackToLinear(t *testing.T) {
	// 节点不足 4 个时样条回退线性
	curve, err := NewCurveData("USD", CurveTypeSwap, InterpCubicSpline, []YieldCurvePoint{
		{Maturity: 1, Rate: 0.02},
		{Maturity: 3, Rate: 0.04},
	})
	require.NoError(t, err)

	rate, err := curve.Rate(2)
	require.NoError(t, err)
	assert.InDelta(t, 0.03, rate, 1e-12)
}

func TestCurveDiscountFactor(t *testing.T) {
	curve := testCurve(t, InterpLinear)

	df, err := curve.DiscountFactor(2)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-0.030*2), df, 1e-12)
}

func TestCurveForwardRate(t *testing.T) {
	curve := testCurve(t, InterpLinear)

	// f(1,2) = (r2·2 − r1·1)/(2 − 1)
	fwd, err := curve.ForwardRate(1, 2)
	require.NoError(t, err)
	assert.InDelta(t, (0.030*2-0.025*1)/1.0, fwd, 1e-12)

	_, err = curve.ForwardRate(2, 1)
	assert.Error(t, err)
}

func TestCurveDeduplicatesNodes(t *testing.T) {
	curve, err := NewCurveData("USD", CurveTypeSwap, InterpLinear, []YieldCurvePoint{
		{Maturity: 1, Rate: 0.02},
		{Maturity: 1, Rate: 0.03},
		{Maturity: 2, Rate: 0.04},
	})
	require.NoError(t, err)
	require.Len(t, curve.Points, 2)

	// 相同期限保留最后一个节点
	rate, err := curve.Rate(1)
	require.NoError(t, err)
	assert.InDelta(t, 0.03, rate, 1e-12)
}

func TestCurveValidation(t *testing.T) {
	_, err := NewCurveData("USD", CurveTypeSwap, InterpLinear, nil)
	assert.ErrorIs(t, err, ErrCurveEmpty)

	_, err = NewCurveData("USD", CurveTypeSwap, InterpLinear, []YieldCurvePoint{
		{Maturity: -1, Rate: 0.02},
	})
	assert.Error(t, err)
}
