package domain

import (
	"math"
)

// BSMInput Black-Scholes-Merton 模型输入
type BSMInput struct {
	S float64 // 标的资产价格
	K float64 // 执行价格
	T float64 // 到期时间 (年)
	R float64 // 无风险利率
	Q float64 // 股息率
	V float64 // 波动率
}

func (in BSMInput) d1d2() (float64, float64) {
	sqrtT := math.Sqrt(in.T)
	d1 := (math.Log(in.S/in.K) + (in.R-in.Q+0.5*in.V*in.V)*in.T) / (in.V * sqrtT)
	return d1, d1 - in.V*sqrtT
}

// intrinsic 即期内在价值
func intrinsicValue(optionType OptionType, s, k float64) float64 {
	if optionType == OptionTypeCall {
		return math.Max(s-k, 0)
	}
	return math.Max(k-s, 0)
}

// BlackScholesPrice 计算欧式期权 Black-Scholes-Merton 价格
// T <= 0 退化为即期内在价值；V == 0 退化为确定性远期收益的贴现值
func BlackScholesPrice(optionType OptionType, in BSMInput) float64 {
	if in.T <= 0 {
		return intrinsicValue(optionType, in.S, in.K)
	}
	if in.V <= 0 {
		forward := in.S * math.Exp((in.R-in.Q)*in.T)
		return math.Exp(-in.R*in.T) * intrinsicValue(optionType, forward, in.K)
	}

	d1, d2 := in.d1d2()
	if optionType == OptionTypeCall {
		return in.S*math.Exp(-in.Q*in.T)*normCdf(d1) - in.K*math.Exp(-in.R*in.T)*normCdf(d2)
	}
	return in.K*math.Exp(-in.R*in.T)*normCdf(-d2) - in.S*math.Exp(-in.Q*in.T)*normCdf(-d1)
}

// Black76Input Black 模型输入（期货/远期上的期权）
type Black76Input struct {
	F float64 // 远期价格
	K float64 // 执行价格
	T float64 // 到期时间 (年)
	R float64 // 贴现利率
	V float64 // 波动率
}

// Black76Price 计算远期/期货期权的 Black 模型价格
// 用远期价格替代现货，无股息项，整体按 r 贴现
func Black76Price(optionType OptionType, in Black76Input) float64 {
	if in.T <= 0 {
		return intrinsicValue(optionType, in.F, in.K)
	}
	if in.V <= 0 {
		return math.Exp(-in.R*in.T) * intrinsicValue(optionType, in.F, in.K)
	}

	sqrtT := math.Sqrt(in.T)
	d1 := (math.Log(in.F/in.K) + 0.5*in.V*in.V*in.T) / (in.V * sqrtT)
	d2 := d1 - in.V*sqrtT

	df := math.Exp(-in.R * in.T)
	if optionType == OptionTypeCall {
		return df * (in.F*normCdf(d1) - in.K*normCdf(d2))
	}
	return df * (in.K*normCdf(-d2) - in.F*normCdf(-d1))
}

// normCdf 标准正态分布累积分布函数
func normCdf(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// normPdf 标准正态分布概率密度函数
func normPdf(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}
