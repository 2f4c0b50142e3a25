package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
)

func testScanInput() ScanInput {
	call, put := fairPair(100, 100, 0.5, 0.03, 0, 0.2)
	box := fairBox(100, 95, 105, 0.5, 0.03, 0.2)
	box.Call1 -= 0.4

	theoretical := pricing.TheoreticalForwardPrice(pricing.CarryForwardInput{S: 100, T: 1, R: 0.05})

	return ScanInput{
		ParityPairs: []ParityInput{
			{Symbol: "AAPL", CallPrice: call + 0.5, PutPrice: put, Spot: 100, Strike: 100, T: 0.5, R: 0.03},
			{Symbol: "MSFT", CallPrice: call, PutPrice: put, Spot: 100, Strike: 100, T: 0.5, R: 0.03},
		},
		BoxSpreads: []BoxSpreadInput{box},
		CarryPositions: []CarryInput{
			{Symbol: "SPX", ObservedForward: theoretical + 2, Spot: 100, T: 1, R: 0.05},
		},
		VolPositions: []VolArbInput{
			{Symbol: "TSLA", OptionType: pricing.OptionTypeCall, Spot: 100, Strike: 100, T: 0.5, R: 0.03,
				RealizedVol: 0.20, ImpliedVol: 0.30},
		},
	}
}

func TestComprehensiveScan(t *testing.T) {
	scanner := NewScanner(DefaultScannerConfig())

	opps, errs := scanner.ComprehensiveScan(testScanInput())
	assert.Empty(t, errs)
	// MSFT 的平价对无偏离，其余各产出一个机会
	require.Len(t, opps, 4)
	assert.Equal(t, TypeConversion, opps[0].Type)
	assert.Equal(t, TypeBoxSpread, opps[1].Type)
	assert.Equal(t, TypeCarry, opps[2].Type)
	assert.Equal(t, TypeVolatility, opps[3].Type)
}

func TestComprehensiveScanIdempotent(t *testing.T) {
	scanner := NewScanner(DefaultScannerConfig())
	in := testScanInput()

	first, _ := scanner.ComprehensiveScan(in)
	second, _ := scanner.ComprehensiveScan(in)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Type, second[i].Type)
		assert.Equal(t, first[i].Symbol, second[i].Symbol)
		assert.True(t, first[i].ProfitPotential.Equal(second[i].ProfitPotential))
	}
}

func TestComprehensiveScanCollectsErrors(t *testing.T) {
	scanner := NewScanner(DefaultScannerConfig())
	in := testScanInput()
	// 非法的盒式输入不应中断其余检测
	in.BoxSpreads = append(in.BoxSpreads, BoxSpreadInput{Symbol: "BAD", K1: 105, K2: 95, T: 0.5, R: 0.03})

	opps, errs := scanner.ComprehensiveScan(in)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrInvalidStrikeOrder)
	assert.Len(t, opps, 4)
}

func TestRankOpportunities(t *testing.T) {
	scanner := NewScanner(DefaultScannerConfig())
	opps, _ := scanner.ComprehensiveScan(testScanInput())

	ranked := RankOpportunities(opps)
	require.Len(t, ranked, len(opps))
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score(), ranked[i].Score())
	}
	// 原切片顺序不变
	assert.Equal(t, TypeConversion, opps[0].Type)
}

func TestRankOpportunitiesStableOnTies(t *testing.T) {
	a, err := NewArbitrageOpportunity(TypeCarry, DirectionBuyCheap, "A", "", 10, 0.9, ComplexityLow, nil)
	require.NoError(t, err)
	b, err := NewArbitrageOpportunity(TypeCarry, DirectionBuyCheap, "B", "", 10, 0.9, ComplexityLow, nil)
	require.NoError(t, err)

	ranked := RankOpportunities([]*ArbitrageOpportunity{a, b})
	assert.Equal(t, "A", ranked[0].Symbol)
	assert.Equal(t, "B", ranked[1].Symbol)
}

func TestFilterOpportunities(t *testing.T) {
	scanner := NewScanner(DefaultScannerConfig())
	opps, _ := scanner.ComprehensiveScan(testScanInput())

	// 仅保留中等及以下复杂度
	filtered := FilterOpportunities(opps, FilterCriteria{MaxComplexity: ComplexityMedium})
	for _, opp := range filtered {
		assert.NotEqual(t, ComplexityHigh, opp.Complexity)
	}

	// 类型白名单
	filtered = FilterOpportunities(opps, FilterCriteria{AllowedTypes: []ArbitrageType{TypeCarry}})
	require.Len(t, filtered, 1)
	assert.Equal(t, TypeCarry, filtered[0].Type)

	// 最小置信度
	filtered = FilterOpportunities(opps, FilterCriteria{MinConfidence: 0.99})
	require.Len(t, filtered, 1)
	assert.Equal(t, TypeBoxSpread, filtered[0].Type)
}

func TestExecutionPlanAllTypes(t *testing.T) {
	for _, arbType := range []ArbitrageType{TypeConversion, TypeReversal, TypeBoxSpread, TypeCarry, TypeCalendar, TypeVolatility} {
		opp, err := NewArbitrageOpportunity(arbType, DirectionBuyCheap, "SPX", "", 1, 0.9, ComplexityMedium, nil)
		require.NoError(t, err)

		steps, err := ExecutionPlan(opp)
		require.NoError(t, err, "type %s", arbType)
		assert.NotEmpty(t, steps)
	}

	bad := &ArbitrageOpportunity{Type: ArbitrageType("UNKNOWN")}
	_, err := ExecutionPlan(bad)
	assert.ErrorIs(t, err, ErrUnsupportedStrategy)
}
