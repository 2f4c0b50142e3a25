package domain

import (
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/wyfcoding/quantengine/pkg/numerics"
)

// RiskMetrics 组合风险指标（损失方向取负值口径）
type RiskMetrics struct {
	VaR95        decimal.Decimal `json:"var_95"`
	VaR99        decimal.Decimal `json:"var_99"`
	CVaR95       decimal.Decimal `json:"cvar_95"`
	CVaR99       decimal.Decimal `json:"cvar_99"`
	MaxDrawdown  float64         `json:"max_drawdown"`
	Volatility   float64         `json:"volatility"` // 年化
	SharpeRatio  float64         `json:"sharpe_ratio"`
	SortinoRatio float64         `json:"sortino_ratio"`
	CalmarRatio  float64         `json:"calmar_ratio"`
	Beta         float64         `json:"beta"`
	CalculatedAt time.Time       `json:"calculated_at"`
}

// HistoricalVaR 历史模拟法 VaR：收益分布的 (1−confidence) 经验分位数
// 最近秩约定：尾部秩不足一个观测时取最小观测，短样本不失败；损失口径下通常为负值
func HistoricalVaR(returns []float64, confidence float64) (float64, error) {
	if len(returns) < 2 {
		return 0, ErrInsufficientReturns
	}
	if confidence <= 0 || confidence >= 1 {
		return 0, NewValidationError("confidence", "must be in (0, 1)")
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	rank := int(math.Ceil((1 - confidence) * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1], nil
}

// HistoricalCVaR 条件 VaR：不高于 VaR 分位数的收益均值
// 尾部样本为空时退化为 VaR 本身
func HistoricalCVaR(returns []float64, confidence float64) (float64, error) {
	varValue, err := HistoricalVaR(returns, confidence)
	if err != nil {
		return 0, err
	}

	var tail []float64
	for _, r := range returns {
		if r <= varValue {
			tail = append(tail, r)
		}
	}
	if len(tail) == 0 {
		return varValue, nil
	}
	return stats.Mean(tail)
}

// ParametricVaR 参数法 VaR：正态假设下 μ + z·σ
func ParametricVaR(returns []float64, confidence float64) (float64, error) {
	if len(returns) < 2 {
		return 0, ErrInsufficientReturns
	}
	mean, err := stats.Mean(returns)
	if err != nil {
		return 0, err
	}
	sd, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return 0, err
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1}
	z := normal.Quantile(1 - confidence)
	return mean + z*sd, nil
}

// MaxDrawdown 由收益序列重建价值路径后的最大回撤
// min((value − runningMax)/runningMax)，非正值
func MaxDrawdown(returns []float64) float64 {
	value := 1.0
	runningMax := 1.0
	maxDD := 0.0

	for _, r := range returns {
		value *= 1 + r
		if value > runningMax {
			runningMax = value
		}
		dd := (value - runningMax) / runningMax
		if dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// SharpeRatio 年化夏普比率 = 年化超额收益 / 年化波动率
// 波动率为零时返回零
func SharpeRatio(returns []float64, riskFreeRate float64) float64 {
	mean, err := stats.Mean(returns)
	if err != nil {
		return 0
	}
	sd, err := stats.StandardDeviationSample(returns)
	if err != nil || sd == 0 {
		return 0
	}

	annualizedExcess := mean*numerics.TradingDaysPerYear - riskFreeRate
	annualizedVol := sd * math.Sqrt(numerics.TradingDaysPerYear)
	return annualizedExcess / annualizedVol
}

// SortinoRatio 索提诺比率：分母用下行波动（仅负收益）
// 无负收益时退化为全样本波动率
func SortinoRatio(returns []float64, riskFreeRate float64) float64 {
	mean, err := stats.Mean(returns)
	if err != nil {
		return 0
	}

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}

	var sd float64
	if len(downside) > 1 {
		sd, err = stats.StandardDeviationSample(downside)
	} else {
		sd, err = stats.StandardDeviationSample(returns)
	}
	if err != nil || sd == 0 {
		return 0
	}

	annualizedExcess := mean*numerics.TradingDaysPerYear - riskFreeRate
	return annualizedExcess / (sd * math.Sqrt(numerics.TradingDaysPerYear))
}

// CalmarRatio 卡玛比率 = 年化超额收益 / |最大回撤|
// 回撤为零时返回零
func CalmarRatio(returns []float64, riskFreeRate float64) float64 {
	maxDD := MaxDrawdown(returns)
	if maxDD == 0 {
		return 0
	}
	mean, err := stats.Mean(returns)
	if err != nil {
		return 0
	}
	return (mean*numerics.TradingDaysPerYear - riskFreeRate) / math.Abs(maxDD)
}

// Beta 相对基准的贝塔 = Cov(returns, benchmark) / Var(benchmark)
// 序列长度不匹配或基准方差为零时返回零
func Beta(returns, benchmark []float64) float64 {
	if len(returns) != len(benchmark) || len(returns) < 2 {
		return 0
	}
	cov, err := stats.Covariance(returns, benchmark)
	if err != nil {
		return 0
	}
	benchVar, err := stats.Variance(benchmark)
	if err != nil || benchVar == 0 {
		return 0
	}
	return cov / benchVar
}

// ComputeRiskMetrics 计算完整风险指标集
// VaR/CVaR 按当前组合价值换算为货币金额；benchmark 可为 nil（贝塔为零）
func ComputeRiskMetrics(returns, benchmark []float64, riskFreeRate, portfolioValue float64) (*RiskMetrics, error) {
	var95, err := HistoricalVaR(returns, 0.95)
	if err != nil {
		return nil, err
	}
	var99, err := HistoricalVaR(returns, 0.99)
	if err != nil {
		return nil, err
	}
	cvar95, err := HistoricalCVaR(returns, 0.95)
	if err != nil {
		return nil, err
	}
	cvar99, err := HistoricalCVaR(returns, 0.99)
	if err != nil {
		return nil, err
	}

	sd, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return nil, err
	}

	value := decimal.NewFromFloat(portfolioValue)
	return &RiskMetrics{
		VaR95:        decimal.NewFromFloat(var95).Mul(value),
		VaR99:        decimal.NewFromFloat(var99).Mul(value),
		CVaR95:       decimal.NewFromFloat(cvar95).Mul(value),
		CVaR99:       decimal.NewFromFloat(cvar99).Mul(value),
		MaxDrawdown:  MaxDrawdown(returns),
		Volatility:   sd * math.Sqrt(numerics.TradingDaysPerYear),
		SharpeRatio:  SharpeRatio(returns, riskFreeRate),
		SortinoRatio: SortinoRatio(returns, riskFreeRate),
		CalmarRatio:  CalmarRatio(returns, riskFreeRate),
		Beta:         Beta(returns, benchmark),
		CalculatedAt: time.Now(),
	}, nil
}
