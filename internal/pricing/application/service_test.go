package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/quantengine/internal/pricing/domain"
	"github.com/wyfcoding/quantengine/internal/pricing/infrastructure"
)

func newTestService(t *testing.T) (*PricingService, *infrastructure.InMemoryMarketData) {
	t.Helper()
	provider := infrastructure.NewInMemoryMarketData(0.03)
	return NewPricingService(provider, nil, 500), provider
}

func testMarketData(t *testing.T, spot, rate, q, vol, ttm float64) domain.MarketData {
	t.Helper()
	md, err := domain.NewMarketData("TEST", spot, rate, q, vol)
	require.NoError(t, err)
	return md.WithTimeToExpiry(ttm)
}

func TestPriceEuropeanCall(t *testing.T) {
	svc, _ := newTestService(t)
	inst, err := domain.NewVanillaOption("AAPL_C100", domain.AssetCategoryEquity,
		domain.OptionTypeCall, domain.ExerciseStyleEuropean, 100, time.Now().AddDate(0, 3, 0), 1)
	require.NoError(t, err)

	md := testMarketData(t, 100, 0.02, 0, 0.20, 0.25)
	result, err := svc.Price(context.Background(), inst, md)
	require.NoError(t, err)

	// S=K=100, T=0.25, r=2%, σ=20% 的欧式看涨约 4.2322
	assert.InDelta(t, 4.2322, result.FairValue.InexactFloat64(), 1e-3)
	assert.Equal(t, domain.PricingModelBlackScholes, result.Model)
	assert.True(t, result.HasIntrinsic)
	assert.True(t, result.IntrinsicValue.IsZero())
	assert.InDelta(t, result.FairValue.InexactFloat64(), result.TimeValue.InexactFloat64(), 1e-12)
	require.NotNil(t, result.Greeks)
	assert.InDelta(t, 0.5398, result.Greeks.Delta.InexactFloat64(), 1e-3)
}

func TestPriceAmericanPutUsesBinomial(t *testing.T) {
	svc, _ := newTestService(t)
	inst, err := domain.NewVanillaOption("AAPL_P120", domain.AssetCategoryEquity,
		domain.OptionTypePut, domain.ExerciseStyleAmerican, 120, time.Now().AddDate(1, 0, 0), 1)
	require.NoError(t, err)

	md := testMarketData(t, 100, 0.05, 0, 0.20, 1)
	result, err := svc.Price(context.Background(), inst, md)
	require.NoError(t, err)

	assert.Equal(t, domain.PricingModelBinomial, result.Model)
	// 美式价格不低于内在价值
	assert.GreaterOrEqual(t, result.FairValue.InexactFloat64(), 20.0)
	assert.InDelta(t, 20.0, result.IntrinsicValue.InexactFloat64(), 1e-12)
}

func TestPriceForward(t *testing.T) {
	svc, _ := newTestService(t)
	inst, err := domain.NewEquityForward("SPX_FWD", domain.AssetCategoryEquity, 103, time.Now().AddDate(1, 0, 0), 10)
	require.NoError(t, err)

	md := testMarketData(t, 100, 0.03, 0, 0.15, 1)
	result, err := svc.Price(context.Background(), inst, md)
	require.NoError(t, err)
	assert.Equal(t, domain.PricingModelCarry, result.Model)
	assert.False(t, result.HasIntrinsic)
}

func TestPriceFRARequiresCurve(t *testing.T) {
	svc, provider := newTestService(t)
	inst, err := domain.NewFRA("FRA_1x2", 0.03, 1, 2, time.Now().AddDate(1, 0, 0), 100)
	require.NoError(t, err)
	md := testMarketData(t, 100, 0.03, 0, 0.15, 1)

	// 未配置曲线时定价失败
	_, err = svc.Price(context.Background(), inst, md)
	assert.ErrorIs(t, err, domain.ErrCurveNotFound)

	curve, err := domain.NewCurveData("USD", domain.CurveTypeSwap, domain.InterpLinear, []domain.YieldCurvePoint{
		{Maturity: 0.25, Rate: 0.03},
		{Maturity: 5, Rate: 0.03},
	})
	require.NoError(t, err)
	provider.SetCurve("USD", curve)

	result, err := svc.Price(context.Background(), inst, md)
	require.NoError(t, err)
	// 平坦曲线下协议利率等于远期利率，价值为零
	assert.InDelta(t, 0.0, result.FairValue.InexactFloat64(), 1e-9)
}

func TestPriceInterestRateSwap(t *testing.T) {
	svc, provider := newTestService(t)
	curve, err := domain.NewCurveData("USD", domain.CurveTypeSwap, domain.InterpLinear, []domain.YieldCurvePoint{
		{Maturity: 0.25, Rate: 0.03},
		{Maturity: 10, Rate: 0.03},
	})
	require.NoError(t, err)
	provider.SetCurve("USD", curve)

	inst, err := domain.NewInterestRateSwap("IRS_5Y", 0.02, 2, true, time.Now().AddDate(5, 0, 0), 1000000)
	require.NoError(t, err)
	md := testMarketData(t, 100, 0.03, 0, 0.15, 5)

	result, err := svc.Price(context.Background(), inst, md)
	require.NoError(t, err)
	assert.Equal(t, domain.PricingModelCurve, result.Model)
	// 固定利率低于市场水平，支付固定方价值为正
	assert.Greater(t, result.FairValue.InexactFloat64(), 0.0)
	assert.Contains(t, result.Details, "par_rate")
}

func TestCalculateGreeksRejectsNonOption(t *testing.T) {
	svc, _ := newTestService(t)
	inst, err := domain.NewEquityForward("SPX_FWD", domain.AssetCategoryEquity, 103, time.Now().AddDate(1, 0, 0), 1)
	require.NoError(t, err)

	_, err = svc.CalculateGreeks(context.Background(), inst, testMarketData(t, 100, 0.03, 0, 0.15, 1))
	assert.Error(t, err)
}

func TestImpliedVolatilityRoundTripThroughService(t *testing.T) {
	svc, _ := newTestService(t)
	inst, err := domain.NewVanillaOption("AAPL_C110", domain.AssetCategoryEquity,
		domain.OptionTypeCall, domain.ExerciseStyleEuropean, 110, time.Now().AddDate(0, 6, 0), 1)
	require.NoError(t, err)

	md := testMarketData(t, 100, 0.03, 0, 0.35, 0.5)
	priced, err := svc.Price(context.Background(), inst, md)
	require.NoError(t, err)

	iv, err := svc.ImpliedVolatility(context.Background(), inst, md, priced.FairValue.InexactFloat64())
	require.NoError(t, err)
	assert.InDelta(t, 0.35, iv, 1e-6)
}

func TestPriceOnForwardBlack76(t *testing.T) {
	svc, _ := newTestService(t)
	inst, err := domain.NewVanillaOption("FUT_C100", domain.AssetCategoryCommodity,
		domain.OptionTypeCall, domain.ExerciseStyleEuropean, 100, time.Now().AddDate(0, 6, 0), 1)
	require.NoError(t, err)

	md := testMarketData(t, 98, 0.03, 0, 0.25, 0.5)
	result, err := svc.PriceOnForward(context.Background(), inst, md)
	require.NoError(t, err)
	assert.Equal(t, domain.PricingModelBlack76, result.Model)
	assert.Greater(t, result.FairValue.InexactFloat64(), 0.0)
}
