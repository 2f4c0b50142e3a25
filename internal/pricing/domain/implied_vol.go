package domain

import (
	"math"

	"github.com/wyfcoding/quantengine/pkg/numerics"
)

const (
	impliedVolLower   = 0.001
	impliedVolUpper   = 5.0
	impliedVolTol     = 1e-8
	impliedVolMaxIter = 200
)

// ImpliedVolatility 由市场价格反推 Black-Scholes 隐含波动率
// 在 [0.001, 5.0] 区间上用 Brent 法求根；区间内无根时返回 NaN 哨兵值而非错误
func ImpliedVolatility(optionType OptionType, marketPrice float64, in BSMInput) float64 {
	if marketPrice <= 0 || in.T <= 0 {
		return math.NaN()
	}

	objective := func(vol float64) float64 {
		in.V = vol
		return BlackScholesPrice(optionType, in) - marketPrice
	}

	vol, err := numerics.Brent(objective, impliedVolLower, impliedVolUpper, impliedVolTol, impliedVolMaxIter)
	if err != nil {
		return math.NaN()
	}
	return vol
}
