package domain

import (
	"fmt"
	"math"

	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
)

// CalendarInput 日历价差检测输入（同一执行价、不同到期的两个期权）
type CalendarInput struct {
	Symbol     string
	OptionType pricing.OptionType
	NearPrice  float64
	FarPrice   float64
	Spot       float64
	Strike     float64
	NearT      float64
	FarT       float64
	R          float64
	Q          float64
	Volatility float64
	Tolerance  float64
}

// DetectCalendarSpread 比较观察到的时间价值差与两次 Black-Scholes 估值的理论差
// 偏离未超过容差时返回 nil
func DetectCalendarSpread(in CalendarInput) (*ArbitrageOpportunity, error) {
	if in.NearT >= in.FarT {
		return nil, ErrInvalidMaturityOrder
	}

	base := pricing.BSMInput{
		S: in.Spot, K: in.Strike, R: in.R, Q: in.Q, V: in.Volatility,
	}
	nearIn := base
	nearIn.T = in.NearT
	farIn := base
	farIn.T = in.FarT

	theoreticalDecay := pricing.BlackScholesPrice(in.OptionType, farIn) - pricing.BlackScholesPrice(in.OptionType, nearIn)
	observedDecay := in.FarPrice - in.NearPrice
	gap := observedDecay - theoreticalDecay
	if math.Abs(gap) <= in.Tolerance {
		return nil, nil
	}

	direction := DirectionSellExpensive
	desc := fmt.Sprintf("calendar spread rich by %.6f: sell far, buy near", gap)
	if gap < 0 {
		direction = DirectionBuyCheap
		desc = fmt.Sprintf("calendar spread cheap by %.6f: buy far, sell near", -gap)
	}

	opp, err := NewArbitrageOpportunity(
		TypeCalendar, direction, in.Symbol, desc,
		math.Abs(gap), 0.80, ComplexityMedium,
		[]string{RiskVolatility, RiskGamma, RiskModel},
	)
	if err != nil {
		return nil, err
	}
	return opp.WithDetails(map[string]float64{
		"observed_decay":    observedDecay,
		"theoretical_decay": theoreticalDecay,
		"near_t":            in.NearT,
		"far_t":             in.FarT,
	}), nil
}
