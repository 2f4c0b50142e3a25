package domain

import (
	"fmt"
	"math"
)

// BoxSpreadInput 盒式价差检测输入
// 组合：买入 K1 看涨 + 卖出 K2 看涨 + 买入 K2 看跌 + 卖出 K1 看跌
type BoxSpreadInput struct {
	Symbol    string
	Call1     float64 // K1 看涨价格
	Put1      float64 // K1 看跌价格
	Call2     float64 // K2 看涨价格
	Put2      float64 // K2 看跌价格
	K1        float64
	K2        float64
	T         float64
	R         float64
	Tolerance float64
}

// BoxSpreadCost 盒式价差净成本 (C1 − C2) + (P2 − P1)
func BoxSpreadCost(in BoxSpreadInput) float64 {
	return (in.Call1 - in.Call2) + (in.Put2 - in.Put1)
}

// DetectBoxSpread 检测盒式价差套利
// 到期保证收益 K2 − K1 的现值与组合净成本比较；偏离未超过容差时返回 nil
func DetectBoxSpread(in BoxSpreadInput) (*ArbitrageOpportunity, error) {
	if in.K1 >= in.K2 {
		return nil, ErrInvalidStrikeOrder
	}

	theoretical := (in.K2 - in.K1) * math.Exp(-in.R*in.T)
	cost := BoxSpreadCost(in)
	gap := theoretical - cost
	if math.Abs(gap) <= in.Tolerance {
		return nil, nil
	}

	direction := DirectionBuyCheap
	desc := fmt.Sprintf("box costs %.6f vs guaranteed payoff PV %.6f: buy the box", cost, theoretical)
	if gap < 0 {
		direction = DirectionSellExpensive
		desc = fmt.Sprintf("box costs %.6f vs guaranteed payoff PV %.6f: sell the box", cost, theoretical)
	}

	opp, err := NewArbitrageOpportunity(
		TypeBoxSpread, direction, in.Symbol, desc,
		math.Abs(gap), 0.99, ComplexityHigh,
		[]string{RiskEarlyExercise, RiskExecution, RiskPinAtExpiry},
	)
	if err != nil {
		return nil, err
	}
	return opp.WithDetails(map[string]float64{
		"box_cost":       cost,
		"theoretical_pv": theoretical,
		"k1":             in.K1,
		"k2":             in.K2,
	}), nil
}
