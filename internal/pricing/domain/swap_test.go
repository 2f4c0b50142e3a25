package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatCurve(t *testing.T, rate float64) *CurveData {
	t.Helper()
	curve, err := NewCurveData("USD", CurveTypeSwap, InterpLinear, []YieldCurvePoint{
		{Maturity: 0.25, Rate: rate},
		{Maturity: 10, Rate: rate},
	})
	require.NoError(t, err)
	return curve
}

func TestInterestRateSwapAtParRate(t *testing.T) {
	curve := flatCurve(t, 0.03)

	parRate, err := SwapParRate(5, 2, curve)
	require.NoError(t, err)
	assert.Greater(t, parRate, 0.0)

	// 固定利率取平价利率时互换价值为零
	value, legs, err := InterestRateSwapValue(parRate, 5, 2, true, curve)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, value, 1e-9)
	assert.InDelta(t, legs.FixedPV, legs.FloatingPV, 1e-9)
}

func TestInterestRateSwapStubPeriod(t *testing.T) {
	curve := flatCurve(t, 0.03)

	// 1.25 年半年付：两个整期外还有 0.25 年零头期
	_, legs, err := InterestRateSwapValue(0.04, 1.25, 2, true, curve)
	require.NoError(t, err)

	expected := 0.04 * (0.5*math.Exp(-0.03*0.5) + 0.5*math.Exp(-0.03*1.0) + 0.25*math.Exp(-0.03*1.25))
	assert.InDelta(t, expected, legs.FixedPV, 1e-12)

	// 零头期期限下平价利率互换价值仍为零
	parRate, err := SwapParRate(1.25, 2, curve)
	require.NoError(t, err)
	value, _, err := InterestRateSwapValue(parRate, 1.25, 2, true, curve)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, value, 1e-9)
}

func TestInterestRateSwapPayReceiveAntisymmetry(t *testing.T) {
	curve := flatCurve(t, 0.03)

	payFixed, _, err := InterestRateSwapValue(0.025, 3, 2, true, curve)
	require.NoError(t, err)
	receiveFixed, _, err := InterestRateSwapValue(0.025, 3, 2, false, curve)
	require.NoError(t, err)

	assert.InDelta(t, -payFixed, receiveFixed, 1e-12)
	// 固定利率低于市场水平时支付固定方占优
	assert.Greater(t, payFixed, 0.0)
}

func TestInterestRateSwapValidation(t *testing.T) {
	curve := flatCurve(t, 0.03)

	_, _, err := InterestRateSwapValue(0.03, 5, 0, true, curve)
	assert.Error(t, err)

	value, legs, err := InterestRateSwapValue(0.03, 0, 2, true, curve)
	require.NoError(t, err)
	assert.Zero(t, value)
	assert.Zero(t, legs.FixedPV)
}

func TestCurrencySwapValue(t *testing.T) {
	domestic := flatCurve(t, 0.03)
	foreign := flatCurve(t, 0.01)

	// 完全对称的两腿（同名义、同利率、汇率 1）轧差为零
	value, err := CurrencySwapValue(100, 0.02, 100, 0.02, 1.0, 2, 2, true, domestic, domestic)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, value, 1e-9)

	// 外币贴现率更低时外币腿现值更高，收外币方向价值为正
	value, err = CurrencySwapValue(100, 0.02, 100, 0.02, 1.0, 2, 2, true, domestic, foreign)
	require.NoError(t, err)
	assert.Greater(t, value, 0.0)

	flipped, err := CurrencySwapValue(100, 0.02, 100, 0.02, 1.0, 2, 2, false, domestic, foreign)
	require.NoError(t, err)
	assert.InDelta(t, -value, flipped, 1e-12)
}

func TestEquitySwapValue(t *testing.T) {
	// 全收益腿 8% 对固定 3%，贴现后的差额
	value := EquitySwapValue(0.03, 0.08, 0.02, true, 0.02, 1)
	assert.InDelta(t, (0.08-0.03)*math.Exp(-0.02), value, 1e-9)

	// 仅价格收益时股票腿扣除股息率
	priceOnly := EquitySwapValue(0.03, 0.08, 0.02, false, 0.02, 1)
	assert.Less(t, priceOnly, value)

	// 已到期价值为零
	assert.Zero(t, EquitySwapValue(0.03, 0.08, 0.02, true, 0.02, 0))
}
