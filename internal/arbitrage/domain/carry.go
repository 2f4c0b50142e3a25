package domain

import (
	"fmt"
	"math"

	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
)

// CarryInput 持有成本套利检测输入
type CarryInput struct {
	Symbol           string
	ObservedForward  float64
	Spot             float64
	T                float64
	R                float64
	Q                float64
	StorageCost      float64
	ConvenienceYield float64
	Tolerance        float64
}

// DetectCarryArbitrage 比较观察到的远期/期货价格与持有成本理论价格
// 偏离的现值为利润潜力；未超过容差时返回 nil
func DetectCarryArbitrage(in CarryInput) (*ArbitrageOpportunity, error) {
	theoretical := pricing.TheoreticalForwardPrice(pricing.CarryForwardInput{
		S: in.Spot, T: in.T, R: in.R, Q: in.Q,
		StorageCost: in.StorageCost, ConvenienceYield: in.ConvenienceYield,
	})
	gap := in.ObservedForward - theoretical
	if math.Abs(gap) <= in.Tolerance {
		return nil, nil
	}

	direction := DirectionSellExpensive
	desc := fmt.Sprintf("forward rich by %.6f vs carry: sell forward, buy spot (cash-and-carry)", gap)
	if gap < 0 {
		direction = DirectionBuyCheap
		desc = fmt.Sprintf("forward cheap by %.6f vs carry: buy forward, short spot (reverse cash-and-carry)", -gap)
	}

	riskFactors := []string{RiskDividend, RiskInterestRate}
	if in.StorageCost > 0 || in.ConvenienceYield > 0 {
		riskFactors = append(riskFactors, RiskStorageCost)
	}

	opp, err := NewArbitrageOpportunity(
		TypeCarry, direction, in.Symbol, desc,
		math.Abs(gap)*math.Exp(-in.R*in.T), 0.90, ComplexityMedium,
		riskFactors,
	)
	if err != nil {
		return nil, err
	}
	return opp.WithDetails(map[string]float64{
		"observed_forward":    in.ObservedForward,
		"theoretical_forward": theoretical,
		"spot":                in.Spot,
	}), nil
}
