package domain

import (
	"math"
)

// SwapLegResult 互换单腿估值
type SwapLegResult struct {
	FixedPV    float64
	FloatingPV float64
}

// couponPeriod 固定腿支付期：支付时点与计息区间年限
type couponPeriod struct {
	t       float64
	accrual float64
}

// couponSchedule 生成固定腿支付期：整期之后补上期末不足一期的零头期
func couponSchedule(maturity float64, paymentFreq int) []couponPeriod {
	interval := 1.0 / float64(paymentFreq)
	full := int(math.Floor(maturity/interval + 1e-9))

	periods := make([]couponPeriod, 0, full+1)
	for i := 1; i <= full; i++ {
		periods = append(periods, couponPeriod{t: float64(i) * interval, accrual: interval})
	}
	if stub := maturity - float64(full)*interval; stub > 1e-9 {
		periods = append(periods, couponPeriod{t: maturity, accrual: stub})
	}
	return periods
}

// InterestRateSwapValue 利率互换估值（每单位名义）
// 固定腿为生成的支付日贴现票息之和；浮动腿近似为 1 − DF(T)；
// 支付固定方价值 = 浮动腿现值 − 固定腿现值（收取固定方取反）
func InterestRateSwapValue(fixedRate float64, maturity float64, paymentFreq int, payFixed bool, curve *CurveData) (float64, *SwapLegResult, error) {
	if paymentFreq <= 0 {
		return 0, nil, NewValidationError("payment_freq", "must be positive")
	}
	if maturity <= 0 {
		return 0, &SwapLegResult{}, nil
	}

	fixedPV := 0.0
	for _, p := range couponSchedule(maturity, paymentFreq) {
		df, err := curve.DiscountFactor(p.t)
		if err != nil {
			return 0, nil, err
		}
		fixedPV += fixedRate * p.accrual * df
	}

	dfEnd, err := curve.DiscountFactor(maturity)
	if err != nil {
		return 0, nil, err
	}
	floatingPV := 1.0 - dfEnd

	value := floatingPV - fixedPV
	if !payFixed {
		value = -value
	}
	return value, &SwapLegResult{FixedPV: fixedPV, FloatingPV: floatingPV}, nil
}

// SwapParRate 互换平价利率 = (1 − 终端贴现因子) / 年金因子
func SwapParRate(maturity float64, paymentFreq int, curve *CurveData) (float64, error) {
	if paymentFreq <= 0 || maturity <= 0 {
		return 0, NewValidationError("maturity", "maturity and payment_freq must be positive")
	}

	annuity := 0.0
	for _, p := range couponSchedule(maturity, paymentFreq) {
		df, err := curve.DiscountFactor(p.t)
		if err != nil {
			return 0, err
		}
		annuity += p.accrual * df
	}
	if annuity == 0 {
		return 0, NewPricingError(string(PricingModelCurve), "zero annuity factor", nil)
	}

	dfEnd, err := curve.DiscountFactor(maturity)
	if err != nil {
		return 0, err
	}
	return (1 - dfEnd) / annuity, nil
}

// CurrencySwapValue 货币互换估值（本币计）
// 两腿各自在本币/外币曲线上独立估值，外币腿按即期汇率折算为本币后轧差
func CurrencySwapValue(
	domesticNotional, domesticRate float64,
	foreignNotional, foreignRate float64,
	fxSpot float64,
	maturity float64, paymentFreq int, payDomestic bool,
	domesticCurve, foreignCurve *CurveData,
) (float64, error) {
	domesticPV, err := fixedLegPV(domesticNotional, domesticRate, maturity, paymentFreq, domesticCurve)
	if err != nil {
		return 0, err
	}
	foreignPV, err := fixedLegPV(foreignNotional, foreignRate, maturity, paymentFreq, foreignCurve)
	if err != nil {
		return 0, err
	}

	value := foreignPV*fxSpot - domesticPV
	if !payDomestic {
		value = -value
	}
	return value, nil
}

// fixedLegPV 固定腿现值：票息年金 + 期末本金交换
func fixedLegPV(notional, rate, maturity float64, paymentFreq int, curve *CurveData) (float64, error) {
	if paymentFreq <= 0 {
		return 0, NewValidationError("payment_freq", "must be positive")
	}
	pv := 0.0
	for _, p := range couponSchedule(maturity, paymentFreq) {
		df, err := curve.DiscountFactor(p.t)
		if err != nil {
			return 0, err
		}
		pv += notional * rate * p.accrual * df
	}

	dfEnd, err := curve.DiscountFactor(maturity)
	if err != nil {
		return 0, err
	}
	return pv + notional*dfEnd, nil
}

// EquitySwapValue 股票互换估值（每单位名义）
// 股票腿现值 = 预期收益（全收益或仅价格收益）按无风险利率贴现；
// 固定腿对称计算；两者之差为公允价值（收取股票腿方向）
func EquitySwapValue(fixedRate, expectedReturn, dividendYield float64, totalReturn bool, r, t float64) float64 {
	if t <= 0 {
		return 0
	}

	equityReturn := expectedReturn
	if !totalReturn {
		equityReturn -= dividendYield
	}

	df := math.Exp(-r * t)
	equityPV := equityReturn * t * df
	fixedPV := fixedRate * t * df
	return equityPV - fixedPV
}
