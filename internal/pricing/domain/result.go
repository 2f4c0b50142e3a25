package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingModelType 定价模型
type PricingModelType string

const (
	PricingModelBlackScholes PricingModelType = "BLACK_SCHOLES"
	PricingModelBlack76      PricingModelType = "BLACK_76"
	PricingModelBinomial     PricingModelType = "BINOMIAL"
	PricingModelCarry        PricingModelType = "CARRY_ARBITRAGE"
	PricingModelCurve        PricingModelType = "CURVE_DISCOUNT"
)

// Greeks 希腊字母（含二阶 vanna/volga/charm）
// theta 为每日历日，vega/rho 为每 1 个百分点变化
type Greeks struct {
	Delta decimal.Decimal `json:"delta"`
	Gamma decimal.Decimal `json:"gamma"`
	Theta decimal.Decimal `json:"theta"`
	Vega  decimal.Decimal `json:"vega"`
	Rho   decimal.Decimal `json:"rho"`
	Vanna decimal.Decimal `json:"vanna"`
	Volga decimal.Decimal `json:"volga"`
	Charm decimal.Decimal `json:"charm"`
}

// NewGreeksFromFloats 由 float64 一阶希腊字母构造（二阶字段留零）
func NewGreeksFromFloats(delta, gamma, theta, vega, rho float64) *Greeks {
	return &Greeks{
		Delta: decimal.NewFromFloat(delta),
		Gamma: decimal.NewFromFloat(gamma),
		Theta: decimal.NewFromFloat(theta),
		Vega:  decimal.NewFromFloat(vega),
		Rho:   decimal.NewFromFloat(rho),
	}
}

// PricingResult 定价结果
// 由单次定价调用产出，构造后不可变
type PricingResult struct {
	Symbol         string           `json:"symbol"`
	FairValue      decimal.Decimal  `json:"fair_value"`
	IntrinsicValue decimal.Decimal  `json:"intrinsic_value"`
	TimeValue      decimal.Decimal  `json:"time_value"`
	HasIntrinsic   bool             `json:"has_intrinsic"`
	Greeks         *Greeks          `json:"greeks,omitempty"`
	Model          PricingModelType `json:"model"`
	// 诊断明细，仅供人读，下游逻辑不得分支依赖
	Details      map[string]float64 `json:"details,omitempty"`
	CalculatedAt time.Time          `json:"calculated_at"`
}

// NewPricingResult 创建仅含公允价值的定价结果
func NewPricingResult(symbol string, fairValue float64, model PricingModelType) *PricingResult {
	return &PricingResult{
		Symbol:       symbol,
		FairValue:    decimal.NewFromFloat(fairValue),
		Model:        model,
		CalculatedAt: time.Now(),
	}
}

// NewOptionPricingResult 创建期权定价结果
// 时间价值在构造时一次性派生：公允价值 − 内在价值
func NewOptionPricingResult(symbol string, fairValue, intrinsic float64, greeks *Greeks, model PricingModelType) *PricingResult {
	fv := decimal.NewFromFloat(fairValue)
	iv := decimal.NewFromFloat(intrinsic)
	return &PricingResult{
		Symbol:         symbol,
		FairValue:      fv,
		IntrinsicValue: iv,
		TimeValue:      fv.Sub(iv),
		HasIntrinsic:   true,
		Greeks:         greeks,
		Model:          model,
		CalculatedAt:   time.Now(),
	}
}

// WithDetails 返回携带诊断明细的浅拷贝，原结果保持不变
func (r *PricingResult) WithDetails(details map[string]float64) *PricingResult {
	out := *r
	out.Details = details
	return &out
}
