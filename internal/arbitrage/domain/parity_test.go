package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
)

// fairPair 生成满足期权平价的看涨/看跌价格对
func fairPair(s, k, tt, r, q, vol float64) (float64, float64) {
	in := pricing.BSMInput{S: s, K: k, T: tt, R: r, Q: q, V: vol}
	return pricing.BlackScholesPrice(pricing.OptionTypeCall, in),
		pricing.BlackScholesPrice(pricing.OptionTypePut, in)
}

func TestDetectConversionReversalFairPrices(t *testing.T) {
	call, put := fairPair(100, 100, 0.5, 0.03, 0.01, 0.2)

	opp, err := DetectConversionReversal(ParityInput{
		Symbol: "AAPL", CallPrice: call, PutPrice: put,
		Spot: 100, Strike: 100, T: 0.5, R: 0.03, Q: 0.01,
		Tolerance: 1e-9,
	})
	require.NoError(t, err)
	assert.Nil(t, opp)
}

func TestDetectConversion(t *testing.T) {
	call, put := fairPair(100, 100, 0.5, 0.03, 0, 0.2)

	// 看涨高估 0.5：转换套利，卖出高估侧
	opp, err := DetectConversionReversal(ParityInput{
		Symbol: "AAPL", CallPrice: call + 0.5, PutPrice: put,
		Spot: 100, Strike: 100, T: 0.5, R: 0.03,
		Tolerance: 1e-9,
	})
	require.NoError(t, err)
	require.NotNil(t, opp)
	assert.Equal(t, TypeConversion, opp.Type)
	assert.Equal(t, DirectionSellExpensive, opp.Direction)
	assert.InDelta(t, 0.5, opp.ProfitPotential.InexactFloat64(), 1e-9)
	assert.InDelta(t, 0.95, opp.Confidence, 1e-12)
	assert.InDelta(t, 0.5, opp.Details["parity_gap"], 1e-9)
}

func TestDetectReversal(t *testing.T) {
	call, put := fairPair(100, 100, 0.5, 0.03, 0, 0.2)

	opp, err := DetectConversionReversal(ParityInput{
		Symbol: "AAPL", CallPrice: call, PutPrice: put + 0.3,
		Spot: 100, Strike: 100, T: 0.5, R: 0.03,
		Tolerance: 1e-9,
	})
	require.NoError(t, err)
	require.NotNil(t, opp)
	assert.Equal(t, TypeReversal, opp.Type)
	assert.Equal(t, DirectionBuyCheap, opp.Direction)
	assert.InDelta(t, 0.3, opp.ProfitPotential.InexactFloat64(), 1e-9)
}

func TestParityGapWithDividends(t *testing.T) {
	call, put := fairPair(100, 95, 1, 0.04, 0.02, 0.3)

	gap := ParityGap(ParityInput{
		CallPrice: call, PutPrice: put,
		Spot: 100, Strike: 95, T: 1, R: 0.04, Q: 0.02,
	})
	assert.InDelta(t, 0.0, gap, 1e-9)
	assert.False(t, math.IsNaN(gap))
}
