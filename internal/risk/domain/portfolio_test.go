package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pricingapp "github.com/wyfcoding/quantengine/internal/pricing/application"
	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
)

func testEngine() PricingEngine {
	return pricingapp.NewPricingService(nil, nil, 200)
}

func testCallOption(t *testing.T, symbol string, strike float64) *pricing.Instrument {
	t.Helper()
	inst, err := pricing.NewVanillaOption(symbol, pricing.AssetCategoryEquity,
		pricing.OptionTypeCall, pricing.ExerciseStyleEuropean, strike, time.Now().AddDate(0, 6, 0), 1)
	require.NoError(t, err)
	return inst
}

func testMD(t *testing.T, symbol string, spot float64) pricing.MarketData {
	t.Helper()
	md, err := pricing.NewMarketData(symbol, spot, 0.03, 0, 0.2)
	require.NoError(t, err)
	return md.WithTimeToExpiry(0.5)
}

func TestPortfolioPositionLifecycle(t *testing.T) {
	p := NewPortfolio("test")
	pos, err := NewPosition(testCallOption(t, "AAPL_C100", 100), 10, 4.5)
	require.NoError(t, err)

	require.NoError(t, p.AddPosition(pos))
	assert.Equal(t, 1, p.Size())

	// 同标的重复加入
	err = p.AddPosition(pos)
	assert.ErrorIs(t, err, ErrPositionExists)

	// 更新数量
	require.NoError(t, p.UpdatePosition("AAPL_C100", -5))
	got, ok := p.Position("AAPL_C100")
	require.True(t, ok)
	assert.Equal(t, -5.0, got.Quantity)

	// 数量为零等价于移除
	require.NoError(t, p.UpdatePosition("AAPL_C100", 0))
	assert.Equal(t, 0, p.Size())

	assert.ErrorIs(t, p.RemovePosition("AAPL_C100"), ErrPositionNotFound)
	assert.ErrorIs(t, p.UpdatePosition("MISSING", 1), ErrPositionNotFound)
}

func TestNewPositionValidation(t *testing.T) {
	_, err := NewPosition(nil, 1, 0)
	assert.Error(t, err)

	_, err = NewPosition(testCallOption(t, "AAPL_C100", 100), 0, 0)
	assert.Error(t, err)
}

func TestPortfolioValue(t *testing.T) {
	p := NewPortfolio("test")
	pos, err := NewPosition(testCallOption(t, "AAPL_C100", 100), 10, 4.5)
	require.NoError(t, err)
	require.NoError(t, p.AddPosition(pos))

	md := map[string]pricing.MarketData{"AAPL_C100": testMD(t, "AAPL_C100", 100)}
	valuation := p.Value(context.Background(), testEngine(), md)

	require.Len(t, valuation.Positions, 1)
	assert.Empty(t, valuation.Warnings)
	assert.False(t, valuation.Positions[0].UsedFallback)
	// 市值 = 单位价值 × 数量
	assert.InDelta(t,
		valuation.Positions[0].UnitValue.InexactFloat64()*10,
		valuation.TotalValue.InexactFloat64(), 1e-9)
}

func TestPortfolioValueFallback(t *testing.T) {
	p := NewPortfolio("test")
	pos, err := NewPosition(testCallOption(t, "AAPL_C100", 100), 10, 4.5)
	require.NoError(t, err)
	require.NoError(t, p.AddPosition(pos))

	// 无市场数据时退回入场价估值并告警，不中断
	valuation := p.Value(context.Background(), testEngine(), nil)
	require.Len(t, valuation.Positions, 1)
	assert.True(t, valuation.Positions[0].UsedFallback)
	assert.Len(t, valuation.Warnings, 1)
	assert.InDelta(t, 45.0, valuation.TotalValue.InexactFloat64(), 1e-9)
}

func TestAggregateGreeksOptionsOnly(t *testing.T) {
	p := NewPortfolio("test")

	callPos, err := NewPosition(testCallOption(t, "AAPL_C100", 100), 10, 4.5)
	require.NoError(t, err)
	require.NoError(t, p.AddPosition(callPos))

	fwd, err := pricing.NewEquityForward("SPX_FWD", pricing.AssetCategoryEquity, 103, time.Now().AddDate(1, 0, 0), 1)
	require.NoError(t, err)
	fwdPos, err := NewPosition(fwd, 5, 0)
	require.NoError(t, err)
	require.NoError(t, p.AddPosition(fwdPos))

	md := map[string]pricing.MarketData{
		"AAPL_C100": testMD(t, "AAPL_C100", 100),
		"SPX_FWD":   testMD(t, "SPX_FWD", 100),
	}
	greeks, warnings := p.AggregateGreeks(context.Background(), testEngine(), md)

	// 远期不贡献希腊字母；期权 delta 按数量放大
	assert.Empty(t, warnings)
	assert.Greater(t, greeks.Delta.InexactFloat64(), 5.0)
	assert.Less(t, greeks.Delta.InexactFloat64(), 10.0)
}

func TestGetSummary(t *testing.T) {
	p := NewPortfolio("book-a")
	pos, err := NewPosition(testCallOption(t, "AAPL_C100", 100), 1, 4.5)
	require.NoError(t, err)
	require.NoError(t, p.AddPosition(pos))

	md := map[string]pricing.MarketData{"AAPL_C100": testMD(t, "AAPL_C100", 100)}
	summary := p.GetSummary(context.Background(), testEngine(), md)

	assert.Equal(t, "book-a", summary.Name)
	assert.Equal(t, 1, summary.PositionCount)
	require.NotNil(t, summary.Greeks)
	assert.Greater(t, summary.TotalValue.InexactFloat64(), 0.0)
}
