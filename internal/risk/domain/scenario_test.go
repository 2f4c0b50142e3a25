package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
)

func TestScenarioApply(t *testing.T) {
	inst := testCallOption(t, "AAPL_C100", 100)
	base := testMD(t, "AAPL_C100", 100)

	crash := Scenario{SpotShockPct: -0.20, VolShockAbs: 0.15, RateShockAbs: -0.01}
	shocked := crash.Apply(base, inst)

	assert.InDelta(t, 80.0, shocked.SpotPrice, 1e-9)
	assert.InDelta(t, 0.35, shocked.Volatility, 1e-9)
	assert.InDelta(t, 0.02, shocked.RiskFreeRate, 1e-9)
	// 基准快照不可变
	assert.InDelta(t, 100.0, base.SpotPrice, 1e-12)
}

func TestScenarioApplyFloorsAtZero(t *testing.T) {
	inst := testCallOption(t, "AAPL_C100", 100)
	base := testMD(t, "AAPL_C100", 100)

	s := Scenario{VolShockAbs: -0.5, TimeShockDays: 1000}
	shocked := s.Apply(base, inst)
	assert.Zero(t, shocked.Volatility)
	assert.Zero(t, shocked.TimeToExpiry)
}

func TestRunScenarioLongCallCrash(t *testing.T) {
	p := NewPortfolio("test")
	pos, err := NewPosition(testCallOption(t, "AAPL_C100", 100), 1, 4.0)
	require.NoError(t, err)
	require.NoError(t, p.AddPosition(pos))

	md := map[string]pricing.MarketData{"AAPL_C100": testMD(t, "AAPL_C100", 100)}
	crash := Scenario{Name: "Market_Crash", SpotShockPct: -0.20}
	result := RunScenario(context.Background(), p, testEngine(), md, crash)

	// 现货暴跌对多头看涨为亏损，但亏损以权利金为界
	assert.True(t, result.PnL.IsNegative())
	assert.True(t, result.PnL.Neg().LessThanOrEqual(result.BaseValue))
	assert.Less(t, result.PnLPercent, 0.0)
}

func TestRunScenariosDefaultsToBuiltins(t *testing.T) {
	p := NewPortfolio("test")
	pos, err := NewPosition(testCallOption(t, "AAPL_C100", 100), 1, 4.0)
	require.NoError(t, err)
	require.NoError(t, p.AddPosition(pos))

	md := map[string]pricing.MarketData{"AAPL_C100": testMD(t, "AAPL_C100", 100)}
	results := RunScenarios(context.Background(), p, testEngine(), md, nil)

	require.Len(t, results, len(BuiltinScenarios()))
	names := make(map[string]bool, len(results))
	for _, r := range results {
		names[r.ScenarioName] = true
	}
	assert.True(t, names["Market_Crash"])
	assert.True(t, names["Vol_Spike"])
	assert.True(t, names["Time_Decay"])
}

func TestStressTestWorstCase(t *testing.T) {
	p := NewPortfolio("test")
	pos, err := NewPosition(testCallOption(t, "AAPL_C100", 100), 1, 4.0)
	require.NoError(t, err)
	require.NoError(t, p.AddPosition(pos))

	md := map[string]pricing.MarketData{"AAPL_C100": testMD(t, "AAPL_C100", 100)}
	report := StressTest(context.Background(), p, testEngine(), md, nil)

	require.NotEmpty(t, report.Results)
	assert.NotEmpty(t, report.WorstCase)
	for _, r := range report.Results {
		assert.True(t, report.WorstPnL.LessThanOrEqual(r.PnL))
	}
	// 多头看涨的最差场景是暴跌
	assert.Equal(t, "Market_Crash", report.WorstCase)
	assert.True(t, report.WorstPnL.IsNegative())
}
