package domain

import (
	"fmt"
	"math"

	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
)

// VolArbInput 波动率套利检测输入
type VolArbInput struct {
	Symbol      string
	OptionType  pricing.OptionType
	Spot        float64
	Strike      float64
	T           float64
	R           float64
	Q           float64
	RealizedVol float64 // 历史/已实现波动率
	ImpliedVol  float64 // 市场隐含波动率
	// SpreadThreshold 触发阈值（相对波动率价差，默认 0.05）
	SpreadThreshold float64
	// ConfidenceSlope/ConfidenceCap 置信度映射参数：min(cap, spread×slope)
	// 经验线性映射而非统计推断，保留为可调参数
	ConfidenceSlope float64
	ConfidenceCap   float64
}

// DefaultVolArbParams 填充波动率套利默认参数
func (in *VolArbInput) applyDefaults() {
	if in.SpreadThreshold <= 0 {
		in.SpreadThreshold = 0.05
	}
	if in.ConfidenceSlope <= 0 {
		in.ConfidenceSlope = 5.0
	}
	if in.ConfidenceCap <= 0 {
		in.ConfidenceCap = 0.95
	}
}

// DetectVolatilityArbitrage 比较按已实现波动率与隐含波动率两次估值的期权价差
// 相对波动率价差未超过阈值时返回 nil
func DetectVolatilityArbitrage(in VolArbInput) (*ArbitrageOpportunity, error) {
	in.applyDefaults()
	if in.RealizedVol <= 0 || in.ImpliedVol <= 0 {
		return nil, NewValidationError("volatility", "realized and implied vols must be positive")
	}

	spread := math.Abs(in.ImpliedVol-in.RealizedVol) / in.RealizedVol
	if spread <= in.SpreadThreshold {
		return nil, nil
	}

	base := pricing.BSMInput{S: in.Spot, K: in.Strike, T: in.T, R: in.R, Q: in.Q}
	realizedIn := base
	realizedIn.V = in.RealizedVol
	impliedIn := base
	impliedIn.V = in.ImpliedVol

	realizedValue := pricing.BlackScholesPrice(in.OptionType, realizedIn)
	impliedValue := pricing.BlackScholesPrice(in.OptionType, impliedIn)
	gap := impliedValue - realizedValue

	direction := DirectionSellExpensive
	desc := fmt.Sprintf("implied vol %.4f rich vs realized %.4f: sell option, delta-hedge", in.ImpliedVol, in.RealizedVol)
	if gap < 0 {
		direction = DirectionBuyCheap
		desc = fmt.Sprintf("implied vol %.4f cheap vs realized %.4f: buy option, delta-hedge", in.ImpliedVol, in.RealizedVol)
	}

	confidence := math.Min(in.ConfidenceCap, spread*in.ConfidenceSlope)
	opp, err := NewArbitrageOpportunity(
		TypeVolatility, direction, in.Symbol, desc,
		math.Abs(gap), confidence, ComplexityHigh,
		[]string{RiskGamma, RiskVolatility, RiskModel, RiskExecution},
	)
	if err != nil {
		return nil, err
	}
	return opp.WithDetails(map[string]float64{
		"realized_vol":   in.RealizedVol,
		"implied_vol":    in.ImpliedVol,
		"vol_spread_pct": spread,
		"realized_value": realizedValue,
		"implied_value":  impliedValue,
	}), nil
}
