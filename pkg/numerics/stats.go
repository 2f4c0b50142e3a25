package numerics

import (
	"errors"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

var ErrInsufficientSamples = errors.New("insufficient samples for estimation")

// TradingDaysPerYear 年化折算使用的交易日数量
const TradingDaysPerYear = 252.0

// EWMAVolatility 指数加权移动平均波动率 (RiskMetrics 风格)
// lambda 为衰减因子，常用 0.94；返回年化波动率
func EWMAVolatility(returns []float64, lambda float64) (float64, error) {
	if len(returns) < 2 {
		return 0, ErrInsufficientSamples
	}
	if lambda <= 0 || lambda >= 1 {
		lambda = 0.94
	}

	variance := returns[0] * returns[0]
	for _, r := range returns[1:] {
		variance = lambda*variance + (1-lambda)*r*r
	}
	return math.Sqrt(variance * TradingDaysPerYear), nil
}

// GARCHVolatility 简化 GARCH(1,1) 波动率估计
// sigma²(t) = omega + alpha·r²(t-1) + beta·sigma²(t-1)
// 长期方差由样本方差锚定，omega = 样本方差 × (1 - alpha - beta)
func GARCHVolatility(returns []float64, alpha, beta float64) (float64, error) {
	if len(returns) < 2 {
		return 0, ErrInsufficientSamples
	}
	if alpha+beta >= 1 || alpha < 0 || beta < 0 {
		alpha, beta = 0.1, 0.85
	}

	sampleVar, err := stats.Variance(returns)
	if err != nil {
		return 0, err
	}
	omega := sampleVar * (1 - alpha - beta)

	variance := sampleVar
	for _, r := range returns {
		variance = omega + alpha*r*r + beta*variance
	}
	return math.Sqrt(variance * TradingDaysPerYear), nil
}

// HistoricalVolatility 样本标准差年化波动率
func HistoricalVolatility(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, ErrInsufficientSamples
	}
	sd, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return 0, err
	}
	return sd * math.Sqrt(TradingDaysPerYear), nil
}

// CorrelationMatrix 计算多资产收益率序列的相关系数矩阵
// 所有序列长度必须一致
func CorrelationMatrix(series [][]float64) ([][]float64, error) {
	n := len(series)
	if n == 0 {
		return nil, ErrInsufficientSamples
	}
	length := len(series[0])
	for _, s := range series {
		if len(s) != length {
			return nil, errors.New("return series length mismatch")
		}
	}

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1.0
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			rho, err := stats.Correlation(series[i], series[j])
			if err != nil {
				return nil, err
			}
			matrix[i][j] = rho
			matrix[j][i] = rho
		}
	}
	return matrix, nil
}

// JarqueBeraResult 正态性检验结果
type JarqueBeraResult struct {
	Statistic float64 // JB 统计量
	Skewness  float64
	Kurtosis  float64 // 超额峰度
	IsNormal  bool    // 统计量是否低于 5% 显著性水平的卡方临界值 (5.991)
}

// JarqueBera 对收益率序列做 Jarque-Bera 正态性检验
func JarqueBera(returns []float64) (*JarqueBeraResult, error) {
	n := len(returns)
	if n < 4 {
		return nil, ErrInsufficientSamples
	}

	skew := stat.Skew(returns, nil)
	exKurt := stat.ExKurtosis(returns, nil)
	jb := float64(n) / 6.0 * (skew*skew + exKurt*exKurt/4.0)

	return &JarqueBeraResult{
		Statistic: jb,
		Skewness:  skew,
		Kurtosis:  exKurt,
		IsNormal:  jb < 5.991,
	}, nil
}
