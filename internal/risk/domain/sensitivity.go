package domain

import (
	"context"
	"time"

	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
)

// SensitivityConfig 单因子冲击大小配置
type SensitivityConfig struct {
	SpotShockPct float64 `json:"spot_shock_pct"` // 默认 ±1%
	VolShockAbs  float64 `json:"vol_shock_abs"`  // 默认 ±1 个波动率点
	RateShockAbs float64 `json:"rate_shock_abs"` // 默认 ±25bp
	TimeDecayDay float64 `json:"time_decay_day"` // 默认 1 天
}

// DefaultSensitivityConfig 默认冲击配置
func DefaultSensitivityConfig() SensitivityConfig {
	return SensitivityConfig{
		SpotShockPct: 0.01,
		VolShockAbs:  0.01,
		RateShockAbs: 0.0025,
		TimeDecayDay: 1,
	}
}

// FactorSensitivity 单因子敏感性
type FactorSensitivity struct {
	Factor      string  `json:"factor"`
	ShockSize   float64 `json:"shock_size"`
	UpValue     float64 `json:"up_value"`
	DownValue   float64 `json:"down_value"`
	Sensitivity float64 `json:"sensitivity"` // ΔValue / shock（中心差分）
	Elasticity  float64 `json:"elasticity"`  // %ΔValue / %Δ因子
}

// SensitivityResult 组合敏感性分析结果
type SensitivityResult struct {
	BaseValue    float64             `json:"base_value"`
	Factors      []FactorSensitivity `json:"factors"`
	CalculatedAt time.Time           `json:"calculated_at"`
}

// AnalyzeSensitivity 逐因子冲击重估：现货、波动率、利率（双边）与时间衰减（单边）
func AnalyzeSensitivity(ctx context.Context, portfolio *Portfolio, engine PricingEngine, marketData map[string]pricing.MarketData, cfg SensitivityConfig) *SensitivityResult {
	def := DefaultSensitivityConfig()
	if cfg.SpotShockPct <= 0 {
		cfg.SpotShockPct = def.SpotShockPct
	}
	if cfg.VolShockAbs <= 0 {
		cfg.VolShockAbs = def.VolShockAbs
	}
	if cfg.RateShockAbs <= 0 {
		cfg.RateShockAbs = def.RateShockAbs
	}
	if cfg.TimeDecayDay <= 0 {
		cfg.TimeDecayDay = def.TimeDecayDay
	}

	baseValue := portfolio.Value(ctx, engine, marketData).TotalValue.InexactFloat64()
	result := &SensitivityResult{BaseValue: baseValue, CalculatedAt: time.Now()}

	revalue := func(apply func(pricing.MarketData, *pricing.Instrument) pricing.MarketData) float64 {
		shocked := make(map[string]pricing.MarketData, len(marketData))
		for _, pos := range portfolio.Positions() {
			if md, ok := marketData[pos.Symbol]; ok {
				shocked[pos.Symbol] = apply(md, pos.Instrument)
			}
		}
		return portfolio.Value(ctx, engine, shocked).TotalValue.InexactFloat64()
	}

	// 现货 ±SpotShockPct（相对冲击）
	spotUp := revalue(func(md pricing.MarketData, _ *pricing.Instrument) pricing.MarketData {
		return md.WithSpot(md.SpotPrice * (1 + cfg.SpotShockPct))
	})
	spotDown := revalue(func(md pricing.MarketData, _ *pricing.Instrument) pricing.MarketData {
		return md.WithSpot(md.SpotPrice * (1 - cfg.SpotShockPct))
	})
	result.Factors = append(result.Factors, centralFactor("SPOT", cfg.SpotShockPct, baseValue, spotUp, spotDown))

	// 波动率 ±VolShockAbs（绝对冲击）
	volUp := revalue(func(md pricing.MarketData, _ *pricing.Instrument) pricing.MarketData {
		return md.WithVolatility(md.Volatility + cfg.VolShockAbs)
	})
	volDown := revalue(func(md pricing.MarketData, _ *pricing.Instrument) pricing.MarketData {
		v := md.Volatility - cfg.VolShockAbs
		if v < 0 {
			v = 0
		}
		return md.WithVolatility(v)
	})
	result.Factors = append(result.Factors, centralFactor("VOLATILITY", cfg.VolShockAbs, baseValue, volUp, volDown))

	// 利率 ±RateShockAbs（绝对冲击）
	rateUp := revalue(func(md pricing.MarketData, _ *pricing.Instrument) pricing.MarketData {
		return md.WithRiskFreeRate(md.RiskFreeRate + cfg.RateShockAbs)
	})
	rateDown := revalue(func(md pricing.MarketData, _ *pricing.Instrument) pricing.MarketData {
		return md.WithRiskFreeRate(md.RiskFreeRate - cfg.RateShockAbs)
	})
	result.Factors = append(result.Factors, centralFactor("RATE", cfg.RateShockAbs, baseValue, rateUp, rateDown))

	// 时间衰减：单边缩短 TimeDecayDay 天
	decayShock := cfg.TimeDecayDay / 365.0
	timeDown := revalue(func(md pricing.MarketData, inst *pricing.Instrument) pricing.MarketData {
		t := md.ResolveTimeToExpiry(inst) - decayShock
		if t < 0 {
			t = 0
		}
		return md.WithTimeToExpiry(t)
	})
	timeSens := FactorSensitivity{
		Factor:      "TIME",
		ShockSize:   -decayShock,
		DownValue:   timeDown,
		Sensitivity: (timeDown - baseValue) / decayShock,
	}
	if baseValue != 0 {
		timeSens.Elasticity = (timeDown - baseValue) / baseValue / decayShock
	}
	result.Factors = append(result.Factors, timeSens)

	return result
}

// centralFactor 中心差分敏感性
func centralFactor(name string, shock, base, up, down float64) FactorSensitivity {
	f := FactorSensitivity{
		Factor:      name,
		ShockSize:   shock,
		UpValue:     up,
		DownValue:   down,
		Sensitivity: (up - down) / (2 * shock),
	}
	if base != 0 {
		f.Elasticity = (up - down) / (2 * base) / shock
	}
	return f
}
