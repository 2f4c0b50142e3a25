package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
)

func TestDetectCarryArbitrage(t *testing.T) {
	theoretical := pricing.TheoreticalForwardPrice(pricing.CarryForwardInput{
		S: 100, T: 1, R: 0.05, Q: 0.02,
	})

	// 观察价等于理论价：无机会
	opp, err := DetectCarryArbitrage(CarryInput{
		Symbol: "SPX", ObservedForward: theoretical,
		Spot: 100, T: 1, R: 0.05, Q: 0.02, Tolerance: 1e-9,
	})
	require.NoError(t, err)
	assert.Nil(t, opp)

	// 远期高估 2：正向持有成本套利，利润为偏离的现值
	opp, err = DetectCarryArbitrage(CarryInput{
		Symbol: "SPX", ObservedForward: theoretical + 2,
		Spot: 100, T: 1, R: 0.05, Q: 0.02, Tolerance: 1e-9,
	})
	require.NoError(t, err)
	require.NotNil(t, opp)
	assert.Equal(t, TypeCarry, opp.Type)
	assert.Equal(t, DirectionSellExpensive, opp.Direction)
	assert.InDelta(t, 2*math.Exp(-0.05), opp.ProfitPotential.InexactFloat64(), 1e-9)
	assert.NotContains(t, opp.RiskFactors, RiskStorageCost)
}

func TestDetectCarryArbitrageCommodity(t *testing.T) {
	in := CarryInput{
		Symbol: "WTI", ObservedForward: 70,
		Spot: 80, T: 0.5, R: 0.03,
		StorageCost: 0.02, ConvenienceYield: 0.01,
		Tolerance: 1e-9,
	}

	opp, err := DetectCarryArbitrage(in)
	require.NoError(t, err)
	require.NotNil(t, opp)
	assert.Equal(t, DirectionBuyCheap, opp.Direction)
	assert.Contains(t, opp.RiskFactors, RiskStorageCost)
}

func TestDetectCalendarSpread(t *testing.T) {
	base := pricing.BSMInput{S: 100, K: 100, R: 0.03, V: 0.2}
	nearIn, farIn := base, base
	nearIn.T, farIn.T = 0.25, 1.0
	near := pricing.BlackScholesPrice(pricing.OptionTypeCall, nearIn)
	far := pricing.BlackScholesPrice(pricing.OptionTypeCall, farIn)

	// 观察到的时间价值差等于理论差：无机会
	opp, err := DetectCalendarSpread(CalendarInput{
		Symbol: "AAPL", OptionType: pricing.OptionTypeCall,
		NearPrice: near, FarPrice: far,
		Spot: 100, Strike: 100, NearT: 0.25, FarT: 1.0, R: 0.03, Volatility: 0.2,
		Tolerance: 1e-9,
	})
	require.NoError(t, err)
	assert.Nil(t, opp)

	// 远月高估 0.4
	opp, err = DetectCalendarSpread(CalendarInput{
		Symbol: "AAPL", OptionType: pricing.OptionTypeCall,
		NearPrice: near, FarPrice: far + 0.4,
		Spot: 100, Strike: 100, NearT: 0.25, FarT: 1.0, R: 0.03, Volatility: 0.2,
		Tolerance: 1e-9,
	})
	require.NoError(t, err)
	require.NotNil(t, opp)
	assert.Equal(t, TypeCalendar, opp.Type)
	assert.Equal(t, DirectionSellExpensive, opp.Direction)
	assert.InDelta(t, 0.4, opp.ProfitPotential.InexactFloat64(), 1e-9)
	assert.InDelta(t, 0.80, opp.Confidence, 1e-12)
}

func TestDetectCalendarSpreadInvalidMaturities(t *testing.T) {
	_, err := DetectCalendarSpread(CalendarInput{
		Symbol: "AAPL", OptionType: pricing.OptionTypeCall,
		NearT: 1.0, FarT: 0.5,
	})
	assert.ErrorIs(t, err, ErrInvalidMaturityOrder)
}

func TestDetectVolatilityArbitrage(t *testing.T) {
	// 价差低于阈值：无机会
	opp, err := DetectVolatilityArbitrage(VolArbInput{
		Symbol: "AAPL", OptionType: pricing.OptionTypeCall,
		Spot: 100, Strike: 100, T: 0.5, R: 0.03,
		RealizedVol: 0.20, ImpliedVol: 0.205,
	})
	require.NoError(t, err)
	assert.Nil(t, opp)

	// 隐含 0.30 对已实现 0.20：相对价差 50%，置信度触顶
	opp, err = DetectVolatilityArbitrage(VolArbInput{
		Symbol: "AAPL", OptionType: pricing.OptionTypeCall,
		Spot: 100, Strike: 100, T: 0.5, R: 0.03,
		RealizedVol: 0.20, ImpliedVol: 0.30,
	})
	require.NoError(t, err)
	require.NotNil(t, opp)
	assert.Equal(t, TypeVolatility, opp.Type)
	assert.Equal(t, DirectionSellExpensive, opp.Direction)
	assert.InDelta(t, 0.95, opp.Confidence, 1e-12)
	assert.Equal(t, ComplexityHigh, opp.Complexity)
	assert.InDelta(t, 0.5, opp.Details["vol_spread_pct"], 1e-12)

	// 隐含低于已实现：买入方向
	opp, err = DetectVolatilityArbitrage(VolArbInput{
		Symbol: "AAPL", OptionType: pricing.OptionTypeCall,
		Spot: 100, Strike: 100, T: 0.5, R: 0.03,
		RealizedVol: 0.30, ImpliedVol: 0.20,
	})
	require.NoError(t, err)
	require.NotNil(t, opp)
	assert.Equal(t, DirectionBuyCheap, opp.Direction)
}

func TestDetectVolatilityArbitrageValidation(t *testing.T) {
	_, err := DetectVolatilityArbitrage(VolArbInput{
		Symbol: "AAPL", OptionType: pricing.OptionTypeCall,
		RealizedVol: 0, ImpliedVol: 0.2,
	})
	assert.Error(t, err)
}

func TestVolArbConfidenceSlope(t *testing.T) {
	// 相对价差 10%，默认斜率 5 → 置信度 0.5
	opp, err := DetectVolatilityArbitrage(VolArbInput{
		Symbol: "AAPL", OptionType: pricing.OptionTypeCall,
		Spot: 100, Strike: 100, T: 0.5, R: 0.03,
		RealizedVol: 0.20, ImpliedVol: 0.22,
	})
	require.NoError(t, err)
	require.NotNil(t, opp)
	assert.InDelta(t, 0.5, opp.Confidence, 1e-9)
}
