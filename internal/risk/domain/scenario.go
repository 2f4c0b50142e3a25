package domain

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
)

// Scenario 命名冲击集：对基准市场数据的现货/波动率/利率/期限偏移
type Scenario struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	SpotShockPct  float64 `json:"spot_shock_pct"`  // 相对冲击，-0.20 为下跌 20%
	VolShockAbs   float64 `json:"vol_shock_abs"`   // 绝对冲击，0.15 为 +15 个波动率点
	RateShockAbs  float64 `json:"rate_shock_abs"`  // 绝对冲击
	TimeShockDays float64 `json:"time_shock_days"` // 期限缩短天数
}

// BuiltinScenarios 五个内置压力场景；调用方可整体替换或增删
func BuiltinScenarios() []Scenario {
	return []Scenario{
		{
			Name:         "Market_Crash",
			Description:  "equity crash with vol spike and flight to quality",
			SpotShockPct: -0.20, VolShockAbs: 0.15, RateShockAbs: -0.01,
		},
		{
			Name:        "Vol_Spike",
			Description: "volatility doubles with spot unchanged",
			VolShockAbs: 0.20,
		},
		{
			Name:         "Rate_Shock",
			Description:  "parallel 200bp rate rise",
			RateShockAbs: 0.02,
		},
		{
			Name:          "Time_Decay",
			Description:   "one month passes with markets unchanged",
			TimeShockDays: 30,
		},
		{
			Name:         "Bull_Market",
			Description:  "strong rally with vol compression",
			SpotShockPct: 0.15, VolShockAbs: -0.05,
		},
	}
}

// Apply 在基准市场数据上派生冲击后的快照
func (s Scenario) Apply(base pricing.MarketData, inst *pricing.Instrument) pricing.MarketData {
	shocked := base
	if s.SpotShockPct != 0 {
		shocked = shocked.WithSpot(base.SpotPrice * (1 + s.SpotShockPct))
	}
	if s.VolShockAbs != 0 {
		shocked = shocked.WithVolatility(math.Max(base.Volatility+s.VolShockAbs, 0))
	}
	if s.RateShockAbs != 0 {
		shocked = shocked.WithRiskFreeRate(base.RiskFreeRate + s.RateShockAbs)
	}
	if s.TimeShockDays != 0 {
		t := base.ResolveTimeToExpiry(inst) - s.TimeShockDays/365.0
		shocked = shocked.WithTimeToExpiry(math.Max(t, 0))
	}
	return shocked
}

// ScenarioResult 单场景压力测试结果
type ScenarioResult struct {
	ScenarioName string          `json:"scenario_name"`
	BaseValue    decimal.Decimal `json:"base_value"`
	ShockedValue decimal.Decimal `json:"shocked_value"`
	PnL          decimal.Decimal `json:"pnl"`
	PnLPercent   float64         `json:"pnl_percent"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// RunScenario 对组合应用单一场景并重估值
func RunScenario(ctx context.Context, portfolio *Portfolio, engine PricingEngine, marketData map[string]pricing.MarketData, scenario Scenario) *ScenarioResult {
	base := portfolio.Value(ctx, engine, marketData)

	shockedMD := make(map[string]pricing.MarketData, len(marketData))
	for _, pos := range portfolio.Positions() {
		md, ok := marketData[pos.Symbol]
		if !ok {
			continue
		}
		shockedMD[pos.Symbol] = scenario.Apply(md, pos.Instrument)
	}
	shocked := portfolio.Value(ctx, engine, shockedMD)

	pnl := shocked.TotalValue.Sub(base.TotalValue)
	pnlPct := 0.0
	if !base.TotalValue.IsZero() {
		pnlPct = pnl.Div(base.TotalValue).InexactFloat64() * 100
	}

	var warnings []string
	warnings = append(warnings, base.Warnings...)
	for _, w := range shocked.Warnings {
		warnings = append(warnings, fmt.Sprintf("shocked: %s", w))
	}

	return &ScenarioResult{
		ScenarioName: scenario.Name,
		BaseValue:    base.TotalValue,
		ShockedValue: shocked.TotalValue,
		PnL:          pnl,
		PnLPercent:   pnlPct,
		Warnings:     warnings,
	}
}

// RunScenarios 批量运行场景；scenarios 为空时使用内置场景
func RunScenarios(ctx context.Context, portfolio *Portfolio, engine PricingEngine, marketData map[string]pricing.MarketData, scenarios []Scenario) []*ScenarioResult {
	if len(scenarios) == 0 {
		scenarios = BuiltinScenarios()
	}

	results := make([]*ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		results = append(results, RunScenario(ctx, portfolio, engine, marketData, sc))
	}
	return results
}

// StressReport 压力测试汇总
type StressReport struct {
	Results     []*ScenarioResult `json:"results"`
	WorstCase   string            `json:"worst_case"`
	WorstPnL    decimal.Decimal   `json:"worst_pnl"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// StressTest 运行全部场景并汇总最差情形
func StressTest(ctx context.Context, portfolio *Portfolio, engine PricingEngine, marketData map[string]pricing.MarketData, scenarios []Scenario) *StressReport {
	results := RunScenarios(ctx, portfolio, engine, marketData, scenarios)

	report := &StressReport{Results: results, GeneratedAt: time.Now()}
	for _, r := range results {
		if report.WorstCase == "" || r.PnL.LessThan(report.WorstPnL) {
			report.WorstCase = r.ScenarioName
			report.WorstPnL = r.PnL
		}
	}
	return report
}
