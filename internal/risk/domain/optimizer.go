package domain

import (
	"math"
	"time"

	"gonum.org/v1/gonum/optimize"
)

// OptimizationObjective 组合优化目标
type OptimizationObjective string

const (
	ObjectiveMaxSharpe   OptimizationObjective = "MAX_SHARPE"
	ObjectiveMinVariance OptimizationObjective = "MIN_VARIANCE"
	ObjectiveMaxReturn   OptimizationObjective = "MAX_RETURN"
)

// OptimizationInput 均值-方差组合优化输入
type OptimizationInput struct {
	Symbols         []string              `json:"symbols"`
	ExpectedReturns []float64             `json:"expected_returns"` // 年化
	Covariance      [][]float64           `json:"covariance"`       // 年化协方差矩阵
	Objective       OptimizationObjective `json:"objective"`
	RiskFreeRate    float64               `json:"risk_free_rate"`
	TargetReturn    *float64              `json:"target_return,omitempty"` // 可选目标收益约束
	MinWeight       float64               `json:"min_weight"`              // 默认 -0.20
	MaxWeight       float64               `json:"max_weight"`              // 默认 +0.40
}

// OptimizationResult 优化结果
// Converged 为 false 时权重不可用，Reason 说明失败原因
type OptimizationResult struct {
	Converged       bool               `json:"converged"`
	Reason          string             `json:"reason,omitempty"`
	Weights         map[string]float64 `json:"weights,omitempty"`
	ExpectedReturn  float64            `json:"expected_return"`
	Volatility      float64            `json:"volatility"`
	SharpeRatio     float64            `json:"sharpe_ratio"`
	CalculatedAt    time.Time          `json:"calculated_at"`
}

func portfolioReturn(weights, returns []float64) float64 {
	sum := 0.0
	for i, w := range weights {
		sum += w * returns[i]
	}
	return sum
}

func portfolioVariance(weights []float64, cov [][]float64) float64 {
	sum := 0.0
	for i, wi := range weights {
		for j, wj := range weights {
			sum += wi * wj * cov[i][j]
		}
	}
	return sum
}

// OptimizePortfolio 均值-方差组合优化
// 约束（权重和为 1、可选目标收益、逐资产上下限）以平方罚函数并入目标，
// 从等权起点用 L-BFGS 数值梯度求解；未收敛时返回结构化失败结果而非错误
func OptimizePortfolio(in OptimizationInput) (*OptimizationResult, error) {
	n := len(in.Symbols)
	if n == 0 {
		return nil, NewValidationError("symbols", "must not be empty")
	}
	if len(in.ExpectedReturns) != n || len(in.Covariance) != n {
		return nil, NewValidationError("input", "expected_returns and covariance must match symbol count")
	}
	for i := range in.Covariance {
		if len(in.Covariance[i]) != n {
			return nil, NewValidationError("covariance", "row %d has wrong length", i)
		}
	}
	if in.MinWeight == 0 && in.MaxWeight == 0 {
		in.MinWeight = -0.20
		in.MaxWeight = 0.40
	}
	if in.MinWeight >= in.MaxWeight {
		return nil, NewValidationError("weight_bounds", "min_weight must be below max_weight")
	}
	if in.Objective == "" {
		in.Objective = ObjectiveMaxSharpe
	}

	const penaltyWeight = 1e6

	objective := func(w []float64) float64 {
		ret := portfolioReturn(w, in.ExpectedReturns)
		variance := portfolioVariance(w, in.Covariance)

		var value float64
		switch in.Objective {
		case ObjectiveMinVariance:
			value = variance
		case ObjectiveMaxReturn:
			value = -ret
		default: // MAX_SHARPE
			vol := math.Sqrt(math.Max(variance, 1e-12))
			value = -(ret - in.RiskFreeRate) / vol
		}

		// 全额投资约束
		sum := 0.0
		for _, wi := range w {
			sum += wi
		}
		value += penaltyWeight * (sum - 1) * (sum - 1)

		// 目标收益约束
		if in.TargetReturn != nil {
			diff := ret - *in.TargetReturn
			value += penaltyWeight * diff * diff
		}

		// 逐资产权重上下限
		for _, wi := range w {
			if wi < in.MinWeight {
				d := in.MinWeight - wi
				value += penaltyWeight * d * d
			}
			if wi > in.MaxWeight {
				d := wi - in.MaxWeight
				value += penaltyWeight * d * d
			}
		}
		return value
	}

	x0 := make([]float64, n)
	for i := range x0 {
		x0[i] = 1.0 / float64(n)
	}

	// Grad 缺省时 Minimize 用有限差分近似梯度
	problem := optimize.Problem{Func: objective}
	solution, err := optimize.Minimize(problem, x0, &optimize.Settings{
		MajorIterations: 2000,
	}, &optimize.LBFGS{})
	if err != nil {
		return &OptimizationResult{
			Converged:    false,
			Reason:       err.Error(),
			CalculatedAt: time.Now(),
		}, nil
	}
	if status := solution.Status; status != optimize.Success && status != optimize.FunctionConvergence && status != optimize.GradientThreshold {
		return &OptimizationResult{
			Converged:    false,
			Reason:       "solver stopped without convergence: " + status.String(),
			CalculatedAt: time.Now(),
		}, nil
	}

	weights := solution.X
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-1) > 0.01 {
		return &OptimizationResult{
			Converged:    false,
			Reason:       "full-investment constraint violated after optimization",
			CalculatedAt: time.Now(),
		}, nil
	}

	ret := portfolioReturn(weights, in.ExpectedReturns)
	vol := math.Sqrt(math.Max(portfolioVariance(weights, in.Covariance), 0))
	sharpe := 0.0
	if vol > 0 {
		sharpe = (ret - in.RiskFreeRate) / vol
	}

	weightMap := make(map[string]float64, n)
	for i, sym := range in.Symbols {
		weightMap[sym] = weights[i]
	}

	return &OptimizationResult{
		Converged:      true,
		Weights:        weightMap,
		ExpectedReturn: ret,
		Volatility:     vol,
		SharpeRatio:    sharpe,
		CalculatedAt:   time.Now(),
	}, nil
}
