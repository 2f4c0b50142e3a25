package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
)

func TestAnalyzeSensitivityLongCall(t *testing.T) {
	p := NewPortfolio("test")
	pos, err := NewPosition(testCallOption(t, "AAPL_C100", 100), 10, 4.0)
	require.NoError(t, err)
	require.NoError(t, p.AddPosition(pos))

	md := map[string]pricing.MarketData{"AAPL_C100": testMD(t, "AAPL_C100", 100)}
	result := AnalyzeSensitivity(context.Background(), p, testEngine(), md, SensitivityConfig{})

	require.Len(t, result.Factors, 4)
	byFactor := make(map[string]FactorSensitivity, 4)
	for _, f := range result.Factors {
		byFactor[f.Factor] = f
	}

	// 多头看涨：现货、波动率、利率敏感性为正，时间衰减为负
	assert.Greater(t, byFactor["SPOT"].Sensitivity, 0.0)
	assert.Greater(t, byFactor["VOLATILITY"].Sensitivity, 0.0)
	assert.Greater(t, byFactor["RATE"].Sensitivity, 0.0)
	assert.Less(t, byFactor["TIME"].Sensitivity, 0.0)

	// 中心差分的上下值夹住基准值
	spot := byFactor["SPOT"]
	assert.Greater(t, spot.UpValue, result.BaseValue)
	assert.Less(t, spot.DownValue, result.BaseValue)
	assert.NotZero(t, spot.Elasticity)
}

func TestAnalyzeSensitivityDefaults(t *testing.T) {
	cfg := DefaultSensitivityConfig()
	assert.InDelta(t, 0.01, cfg.SpotShockPct, 1e-12)
	assert.InDelta(t, 0.01, cfg.VolShockAbs, 1e-12)
	assert.InDelta(t, 0.0025, cfg.RateShockAbs, 1e-12)
	assert.InDelta(t, 1.0, cfg.TimeDecayDay, 1e-12)
}
