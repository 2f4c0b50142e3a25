package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fairBox(s, k1, k2, tt, r, vol float64) BoxSpreadInput {
	c1, p1 := fairPair(s, k1, tt, r, 0, vol)
	c2, p2 := fairPair(s, k2, tt, r, 0, vol)
	return BoxSpreadInput{
		Symbol: "AAPL",
		Call1:  c1, Put1: p1, Call2: c2, Put2: p2,
		K1: k1, K2: k2, T: tt, R: r,
		Tolerance: 1e-9,
	}
}

func TestDetectBoxSpreadFairPrices(t *testing.T) {
	// 平价一致的期权组合下，盒式成本恰为 (K2−K1) 的现值
	in := fairBox(100, 95, 105, 0.5, 0.03, 0.2)

	cost := BoxSpreadCost(in)
	assert.InDelta(t, (in.K2-in.K1)*math.Exp(-in.R*in.T), cost, 1e-9)

	opp, err := DetectBoxSpread(in)
	require.NoError(t, err)
	assert.Nil(t, opp)
}

func TestDetectBoxSpreadCheap(t *testing.T) {
	in := fairBox(100, 95, 105, 0.5, 0.03, 0.2)
	// 低执行价看涨便宜 0.4，盒式整体被低估
	in.Call1 -= 0.4

	opp, err := DetectBoxSpread(in)
	require.NoError(t, err)
	require.NotNil(t, opp)
	assert.Equal(t, TypeBoxSpread, opp.Type)
	assert.Equal(t, DirectionBuyCheap, opp.Direction)
	assert.InDelta(t, 0.4, opp.ProfitPotential.InexactFloat64(), 1e-9)
	assert.InDelta(t, 0.99, opp.Confidence, 1e-12)
	assert.Equal(t, ComplexityHigh, opp.Complexity)
}

func TestDetectBoxSpreadExpensive(t *testing.T) {
	in := fairBox(100, 95, 105, 0.5, 0.03, 0.2)
	in.Put2 += 0.25

	opp, err := DetectBoxSpread(in)
	require.NoError(t, err)
	require.NotNil(t, opp)
	assert.Equal(t, DirectionSellExpensive, opp.Direction)
	assert.InDelta(t, 0.25, opp.ProfitPotential.InexactFloat64(), 1e-9)
}

func TestDetectBoxSpreadInvalidStrikes(t *testing.T) {
	in := fairBox(100, 95, 105, 0.5, 0.03, 0.2)
	in.K1, in.K2 = in.K2, in.K1

	_, err := DetectBoxSpread(in)
	assert.ErrorIs(t, err, ErrInvalidStrikeOrder)
}
