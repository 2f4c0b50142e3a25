package domain

import (
	"math"
)

// CarryForwardInput 持有成本远期定价输入
type CarryForwardInput struct {
	S                float64 // 现货价格
	T                float64 // 到期时间 (年)
	R                float64 // 无风险利率
	Q                float64 // 股息率
	StorageCost      float64 // 仓储成本（年化，商品）
	ConvenienceYield float64 // 便利收益（年化，商品）
}

// TheoreticalForwardPrice 持有成本理论远期价格
// 股票类：S·e^((r−q)T)；商品类叠加仓储成本与便利收益：S·e^((r+storage−convenience)T)
func TheoreticalForwardPrice(in CarryForwardInput) float64 {
	carry := in.R - in.Q + in.StorageCost - in.ConvenienceYield
	return in.S * math.Exp(carry*in.T)
}

// ForwardContractValue 存量远期合约公允价值（每单位名义）
// (合约价 − 理论远期价)·e^(−rT)
// T <= 0 退化为即期收益 (现货 − 合约价) 的相反数对应的支付方向
func ForwardContractValue(contractPrice float64, in CarryForwardInput) float64 {
	if in.T <= 0 {
		return contractPrice - in.S
	}
	theoretical := TheoreticalForwardPrice(in)
	return (contractPrice - theoretical) * math.Exp(-in.R*in.T)
}

// FRAValue 远期利率协议价值（每单位名义）
// 远期利率取连续复利口径 f = (r2·T2 − r1·T1)/(T2 − T1)，整笔以 e^(−r2·T2) 贴现。
// 单次定价调用内统一使用连续复利一种口径，不与单利 (ACT/360) 混用
func FRAValue(contractRate, startMaturity, endMaturity float64, curve *CurveData) (float64, error) {
	if endMaturity <= startMaturity {
		return 0, NewValidationError("end_maturity", "must be greater than start_maturity")
	}

	forwardRate, err := curve.ForwardRate(startMaturity, endMaturity)
	if err != nil {
		return 0, err
	}
	dfEnd, err := curve.DiscountFactor(endMaturity)
	if err != nil {
		return 0, err
	}

	period := endMaturity - startMaturity
	return (forwardRate - contractRate) * period * dfEnd, nil
}

// FixedIncomeForwardValue 固定收益远期定价（每单位名义，面值 1）
// 现货价格先扣除到期前票息的现值（半年付息假设），再按无风险利率滚动至远期日；
// 合约价值 = (合约价 − 理论远期价)·e^(−rT)
func FixedIncomeForwardValue(contractPrice, bondPrice, couponRate, r, t float64) float64 {
	if t <= 0 {
		return contractPrice - bondPrice
	}

	adjustedSpot := bondPrice - presentValueOfCoupons(couponRate, r, t)
	theoretical := adjustedSpot * math.Exp(r*t)
	return (contractPrice - theoretical) * math.Exp(-r*t)
}

// presentValueOfCoupons 到期前票息现值（半年一付，面值 1）
func presentValueOfCoupons(couponRate, r, t float64) float64 {
	const interval = 0.5
	coupon := couponRate * interval

	pv := 0.0
	for ti := interval; ti < t; ti += interval {
		pv += coupon * math.Exp(-r*ti)
	}
	return pv
}
