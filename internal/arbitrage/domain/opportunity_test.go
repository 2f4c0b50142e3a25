package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArbitrageOpportunityValidation(t *testing.T) {
	_, err := NewArbitrageOpportunity(TypeCarry, DirectionBuyCheap, "SPX", "", -1, 0.9, ComplexityLow, nil)
	assert.Error(t, err)

	_, err = NewArbitrageOpportunity(TypeCarry, DirectionBuyCheap, "SPX", "", 1, 1.5, ComplexityLow, nil)
	assert.Error(t, err)
}

func TestWithDetailsReturnsCopy(t *testing.T) {
	opp, err := NewArbitrageOpportunity(TypeCarry, DirectionBuyCheap, "SPX", "", 1, 0.9, ComplexityLow, nil)
	require.NoError(t, err)

	detailed := opp.WithDetails(map[string]float64{"gap": 0.5})

	// 原机会保持不变，明细只出现在副本上
	assert.Nil(t, opp.Details)
	assert.Equal(t, 0.5, detailed.Details["gap"])
	assert.Equal(t, opp.Symbol, detailed.Symbol)
}

func TestScoreComplexityWeights(t *testing.T) {
	newOpp := func(c Complexity) *ArbitrageOpportunity {
		opp, err := NewArbitrageOpportunity(TypeCarry, DirectionBuyCheap, "SPX", "", 10, 0.9, c, nil)
		require.NoError(t, err)
		return opp
	}

	assert.InDelta(t, 10*0.9*1.0, newOpp(ComplexityLow).Score(), 1e-9)
	assert.InDelta(t, 10*0.9*0.7, newOpp(ComplexityMedium).Score(), 1e-9)
	assert.InDelta(t, 10*0.9*0.5, newOpp(ComplexityHigh).Score(), 1e-9)
}

func TestScoreBoxSpreadBonus(t *testing.T) {
	box, err := NewArbitrageOpportunity(TypeBoxSpread, DirectionBuyCheap, "SPX", "", 10, 0.99, ComplexityHigh, nil)
	require.NoError(t, err)
	assert.InDelta(t, 10*0.99*0.5*1.5, box.Score(), 1e-9)

	// 置信度不足时无加成
	lowConf, err := NewArbitrageOpportunity(TypeBoxSpread, DirectionBuyCheap, "SPX", "", 10, 0.95, ComplexityHigh, nil)
	require.NoError(t, err)
	assert.InDelta(t, 10*0.95*0.5, lowConf.Score(), 1e-9)
}

func TestScoreRiskFactorPenalty(t *testing.T) {
	risky, err := NewArbitrageOpportunity(TypeVolatility, DirectionBuyCheap, "SPX", "", 10, 0.9, ComplexityHigh,
		[]string{RiskGamma, RiskVolatility, RiskModel, RiskExecution})
	require.NoError(t, err)
	assert.InDelta(t, 10*0.9*0.5*0.8, risky.Score(), 1e-9)

	// 恰好 3 个风险因子不打折
	ok, err := NewArbitrageOpportunity(TypeVolatility, DirectionBuyCheap, "SPX", "", 10, 0.9, ComplexityHigh,
		[]string{RiskGamma, RiskVolatility, RiskModel})
	require.NoError(t, err)
	assert.InDelta(t, 10*0.9*0.5, ok.Score(), 1e-9)
}
