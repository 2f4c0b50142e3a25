package domain

import (
	"math"
)

// BinomialInput Cox-Ross-Rubinstein 二叉树模型输入
type BinomialInput struct {
	S     float64 // 标的资产价格
	K     float64 // 执行价格
	T     float64 // 到期时间 (年)
	R     float64 // 无风险利率
	Q     float64 // 股息率
	V     float64 // 波动率
	Steps int     // 树的步数
	// Bermudan 行权时点（年化，相对估值时点）；仅 BERMUDAN 风格使用
	ExerciseTimes []float64
}

// BinomialTreePrice 二叉树定价，支持美式与 Bermudan 提前行权
// 每步 u = e^(σ√Δt)，d = 1/u，风险中性上行概率 p = (e^((r−q)Δt) − d)/(u − d)
// 终端收益沿 N+1 个叶节点展开后向后归纳；提前行权仅在立即行权价值严格大于
// 持有价值时发生（平局持有）。步数增大时欧式等价参数下收敛于 Black-Scholes 价格
func BinomialTreePrice(optionType OptionType, style ExerciseStyle, in BinomialInput) (float64, error) {
	if in.Steps <= 0 {
		return 0, NewPricingError(string(PricingModelBinomial), "step count must be positive", nil)
	}
	if in.T <= 0 {
		return intrinsicValue(optionType, in.S, in.K), nil
	}
	if in.V <= 0 {
		forward := in.S * math.Exp((in.R-in.Q)*in.T)
		return math.Exp(-in.R*in.T) * intrinsicValue(optionType, forward, in.K), nil
	}

	n := in.Steps
	dt := in.T / float64(n)
	u := math.Exp(in.V * math.Sqrt(dt))
	d := 1 / u
	p := (math.Exp((in.R-in.Q)*dt) - d) / (u - d)
	if p < 0 || p > 1 {
		return 0, NewPricingError(string(PricingModelBinomial), "risk-neutral probability outside [0,1], model parameters inconsistent", nil)
	}
	discount := math.Exp(-in.R * dt)

	// 终端收益
	values := make([]float64, n+1)
	for j := 0; j <= n; j++ {
		spot := in.S * math.Pow(u, float64(j)) * math.Pow(d, float64(n-j))
		values[j] = intrinsicValue(optionType, spot, in.K)
	}

	// 后向归纳
	for step := n - 1; step >= 0; step-- {
		exercisable := style == ExerciseStyleAmerican ||
			(style == ExerciseStyleBermudan && bermudanExercisable(float64(step)*dt, dt, in.ExerciseTimes))

		for j := 0; j <= step; j++ {
			continuation := discount * (p*values[j+1] + (1-p)*values[j])
			if exercisable {
				spot := in.S * math.Pow(u, float64(j)) * math.Pow(d, float64(step-j))
				if immediate := intrinsicValue(optionType, spot, in.K); immediate > continuation {
					continuation = immediate
				}
			}
			values[j] = continuation
		}
	}

	return values[0], nil
}

// bermudanExercisable 判断某一步的时点是否落在允许行权的时间窗内（半步容差）
func bermudanExercisable(t, dt float64, exerciseTimes []float64) bool {
	for _, et := range exerciseTimes {
		if math.Abs(t-et) <= dt/2 {
			return true
		}
	}
	return false
}
