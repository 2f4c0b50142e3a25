package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
)

func TestAttributePnL(t *testing.T) {
	greeks := pricing.NewGreeksFromFloats(0.54, 0.04, -0.02, 0.19, 0.12)
	in := AttributionInput{
		Greeks:    greeks,
		SpotMove:  2.0,
		VolMove:   0.01,
		RateMove:  0.001,
		DaysMoved: 1,
	}

	deltaPnL := 0.54 * 2.0
	gammaPnL := 0.5 * 0.04 * 4.0
	thetaPnL := -0.02
	vegaPnL := 0.19 * 0.01 * 100
	rhoPnL := 0.12 * 0.001 * 100
	explained := deltaPnL + gammaPnL + thetaPnL + vegaPnL + rhoPnL
	in.TotalPnL = explained

	result := AttributePnL(in)
	assert.InDelta(t, deltaPnL, result.DeltaPnL.InexactFloat64(), 1e-9)
	assert.InDelta(t, gammaPnL, result.GammaPnL.InexactFloat64(), 1e-9)
	assert.InDelta(t, thetaPnL, result.ThetaPnL.InexactFloat64(), 1e-9)
	assert.InDelta(t, vegaPnL, result.VegaPnL.InexactFloat64(), 1e-9)
	assert.InDelta(t, rhoPnL, result.RhoPnL.InexactFloat64(), 1e-9)

	// 总损益恰为解释部分时残差为零、解释率为 1
	assert.InDelta(t, 0.0, result.Residual.InexactFloat64(), 1e-9)
	assert.InDelta(t, 1.0, result.ExplanationRatio, 1e-9)
}

func TestAttributePnLResidual(t *testing.T) {
	greeks := pricing.NewGreeksFromFloats(0.5, 0, 0, 0, 0)
	result := AttributePnL(AttributionInput{
		Greeks:   greeks,
		TotalPnL: 1.5,
		SpotMove: 2.0,
	})

	// delta 解释 1.0，残差 0.5
	assert.InDelta(t, 1.0, result.DeltaPnL.InexactFloat64(), 1e-9)
	assert.InDelta(t, 0.5, result.Residual.InexactFloat64(), 1e-9)
	assert.InDelta(t, 1.0/1.5, result.ExplanationRatio, 1e-9)
}

func TestAttributePnLZeroTotal(t *testing.T) {
	result := AttributePnL(AttributionInput{TotalPnL: 0})
	assert.Zero(t, result.ExplanationRatio)
	assert.True(t, result.DeltaPnL.IsZero())
}

func TestAttributePnLNilGreeks(t *testing.T) {
	result := AttributePnL(AttributionInput{Greeks: nil, TotalPnL: 2, SpotMove: 1})
	// 无希腊字母时全部归入残差
	assert.InDelta(t, 2.0, result.Residual.InexactFloat64(), 1e-9)
}
