package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
)

// AttributionInput 损益归因输入：期初希腊字母与两期市场状态
type AttributionInput struct {
	Greeks    *pricing.Greeks
	TotalPnL  float64
	SpotMove  float64 // Δ现货
	VolMove   float64 // Δ波动率（绝对）
	RateMove  float64 // Δ利率（绝对）
	DaysMoved float64 // 经过的自然日
}

// PnLAttribution 损益按希腊字母分解
type PnLAttribution struct {
	TotalPnL         decimal.Decimal `json:"total_pnl"`
	DeltaPnL         decimal.Decimal `json:"delta_pnl"`
	GammaPnL         decimal.Decimal `json:"gamma_pnl"`
	ThetaPnL         decimal.Decimal `json:"theta_pnl"`
	VegaPnL          decimal.Decimal `json:"vega_pnl"`
	RhoPnL           decimal.Decimal `json:"rho_pnl"`
	Residual         decimal.Decimal `json:"residual"`
	ExplanationRatio float64         `json:"explanation_ratio"` // |explained/total|，总损益为零时为零
	CalculatedAt     time.Time       `json:"calculated_at"`
}

// AttributePnL 一阶/二阶希腊字母损益归因
// delta·ΔS + ½γ·ΔS² + θ·Δ天 + vega·Δσ·100 + rho·Δr·100，残差为未解释部分
func AttributePnL(in AttributionInput) *PnLAttribution {
	if in.Greeks == nil {
		in.Greeks = &pricing.Greeks{}
	}

	deltaPnL := in.Greeks.Delta.InexactFloat64() * in.SpotMove
	gammaPnL := 0.5 * in.Greeks.Gamma.InexactFloat64() * in.SpotMove * in.SpotMove
	thetaPnL := in.Greeks.Theta.InexactFloat64() * in.DaysMoved
	// vega/rho 存储口径为每 1% 变化的价值变动
	vegaPnL := in.Greeks.Vega.InexactFloat64() * in.VolMove * 100
	rhoPnL := in.Greeks.Rho.InexactFloat64() * in.RateMove * 100

	explained := deltaPnL + gammaPnL + thetaPnL + vegaPnL + rhoPnL
	residual := in.TotalPnL - explained

	ratio := 0.0
	if in.TotalPnL != 0 {
		ratio = math.Abs(explained / in.TotalPnL)
	}

	return &PnLAttribution{
		TotalPnL:         decimal.NewFromFloat(in.TotalPnL),
		DeltaPnL:         decimal.NewFromFloat(deltaPnL),
		GammaPnL:         decimal.NewFromFloat(gammaPnL),
		ThetaPnL:         decimal.NewFromFloat(thetaPnL),
		VegaPnL:          decimal.NewFromFloat(vegaPnL),
		RhoPnL:           decimal.NewFromFloat(rhoPnL),
		Residual:         decimal.NewFromFloat(residual),
		ExplanationRatio: ratio,
		CalculatedAt:     time.Now(),
	}
}
