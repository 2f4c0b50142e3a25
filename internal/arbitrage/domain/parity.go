package domain

import (
	"fmt"
	"math"
)

// ParityInput 期权平价检测输入
type ParityInput struct {
	Symbol    string
	CallPrice float64
	PutPrice  float64
	Spot      float64
	Strike    float64
	T         float64 // 剩余期限 (年)
	R         float64 // 无风险利率
	Q         float64 // 股息率
	Tolerance float64
}

// ParityGap 期权平价偏离 C − P − (S·e^(−qT) − K·e^(−rT))
// 正值表示看涨相对高估，负值表示看跌相对高估
func ParityGap(in ParityInput) float64 {
	return in.CallPrice - in.PutPrice - (in.Spot*math.Exp(-in.Q*in.T) - in.Strike*math.Exp(-in.R*in.T))
}

// DetectConversionReversal 基于期权平价检测转换/反向转换套利
// 偏离绝对值未超过容差时返回 nil
func DetectConversionReversal(in ParityInput) (*ArbitrageOpportunity, error) {
	gap := ParityGap(in)
	if math.Abs(gap) <= in.Tolerance {
		return nil, nil
	}

	arbType := TypeConversion
	direction := DirectionSellExpensive
	desc := fmt.Sprintf("call overpriced by %.6f vs parity: sell call, buy put, buy underlying", gap)
	if gap < 0 {
		arbType = TypeReversal
		direction = DirectionBuyCheap
		desc = fmt.Sprintf("put overpriced by %.6f vs parity: buy call, sell put, short underlying", -gap)
	}

	opp, err := NewArbitrageOpportunity(
		arbType, direction, in.Symbol, desc,
		math.Abs(gap), 0.95, ComplexityMedium,
		[]string{RiskEarlyExercise, RiskDividend, RiskExecution},
	)
	if err != nil {
		return nil, err
	}
	return opp.WithDetails(map[string]float64{
		"parity_gap": gap,
		"call_price": in.CallPrice,
		"put_price":  in.PutPrice,
		"spot":       in.Spot,
		"strike":     in.Strike,
	}), nil
}
