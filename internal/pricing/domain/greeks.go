package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// CalculateGreeks 基于 d1/d2 解析式计算希腊字母（不使用有限差分）
// theta 折算为每日历日 (除以 365)，vega/rho 折算为每 1 个百分点变化 (除以 100)
// T <= 0 时全部为零
func CalculateGreeks(optionType OptionType, in BSMInput) *Greeks {
	if in.T <= 0 || in.V <= 0 {
		return &Greeks{}
	}

	d1, d2 := in.d1d2()
	sqrtT := math.Sqrt(in.T)
	expQT := math.Exp(-in.Q * in.T)
	expRT := math.Exp(-in.R * in.T)
	pdf1 := normPdf(d1)

	var delta, theta, rho float64
	gamma := expQT * pdf1 / (in.S * in.V * sqrtT)
	vega := in.S * expQT * pdf1 * sqrtT / 100

	thetaCommon := -in.S * expQT * pdf1 * in.V / (2 * sqrtT)
	if optionType == OptionTypeCall {
		delta = expQT * normCdf(d1)
		theta = (thetaCommon - in.R*in.K*expRT*normCdf(d2) + in.Q*in.S*expQT*normCdf(d1)) / 365
		rho = in.K * in.T * expRT * normCdf(d2) / 100
	} else {
		delta = expQT * (normCdf(d1) - 1)
		theta = (thetaCommon + in.R*in.K*expRT*normCdf(-d2) - in.Q*in.S*expQT*normCdf(-d1)) / 365
		rho = -in.K * in.T * expRT * normCdf(-d2) / 100
	}

	// 二阶敏感度
	vanna := -expQT * pdf1 * d2 / in.V
	volga := in.S * expQT * pdf1 * sqrtT * d1 * d2 / in.V

	charmCommon := expQT * pdf1 * (2*(in.R-in.Q)*in.T - d2*in.V*sqrtT) / (2 * in.T * in.V * sqrtT)
	var charm float64
	if optionType == OptionTypeCall {
		charm = in.Q*expQT*normCdf(d1) - charmCommon
	} else {
		charm = -in.Q*expQT*normCdf(-d1) - charmCommon
	}

	return &Greeks{
		Delta: decimal.NewFromFloat(delta),
		Gamma: decimal.NewFromFloat(gamma),
		Theta: decimal.NewFromFloat(theta),
		Vega:  decimal.NewFromFloat(vega),
		Rho:   decimal.NewFromFloat(rho),
		Vanna: decimal.NewFromFloat(vanna),
		Volga: decimal.NewFromFloat(volga),
		Charm: decimal.NewFromFloat(charm),
	}
}
