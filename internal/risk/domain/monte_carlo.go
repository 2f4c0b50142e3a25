package domain

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	algorithm "github.com/wyfcoding/pkg/algorithm"

	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
)

// MonteCarloConfig 蒙特卡洛模拟参数
type MonteCarloConfig struct {
	Paths   int     `json:"paths"`   // 模拟路径数，默认 10000
	Workers int     `json:"workers"` // 并行工作协程数，默认 4
	Horizon float64 `json:"horizon"` // 时间跨度 (年)，默认 1/252
	Drift   float64 `json:"drift"`   // 风险中性漂移；零值时用各标的无风险利率
	Seed    uint64  `json:"seed"`    // 非零时固定随机种子（测试用）
}

func (c *MonteCarloConfig) applyDefaults() {
	if c.Paths <= 0 {
		c.Paths = 10000
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Horizon <= 0 {
		c.Horizon = 1.0 / 252
	}
}

// MonteCarloDistribution 模拟结果分布
// 每条路径等概率 1/N；失败路径被跳过并计数，不计入分布
type MonteCarloDistribution struct {
	BaseValue    decimal.Decimal `json:"base_value"`
	PnLs         []float64       `json:"pnls"` // 升序
	VaR95        decimal.Decimal `json:"var_95"`
	VaR99        decimal.Decimal `json:"var_99"`
	ES95         decimal.Decimal `json:"es_95"`
	ES99         decimal.Decimal `json:"es_99"`
	MeanPnL      float64         `json:"mean_pnl"`
	SkippedPaths int             `json:"skipped_paths"`
	Elapsed      time.Duration   `json:"elapsed"`
}

// RunMonteCarlo 组合蒙特卡洛模拟
// 每条路径抽取对数正态终端价格乘数，在派生的不可变市场数据副本上重估组合；
// 路径分发时检查取消信号，取消时返回 ErrSimulationCancelled
func RunMonteCarlo(ctx context.Context, portfolio *Portfolio, engine PricingEngine, marketData map[string]pricing.MarketData, cfg MonteCarloConfig) (*MonteCarloDistribution, error) {
	cfg.applyDefaults()
	start := time.Now()

	base := portfolio.Value(ctx, engine, marketData)
	baseValue := base.TotalValue.InexactFloat64()
	baseWarnings := len(base.Warnings)

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	type pathResult struct {
		pnl     float64
		skipped bool
	}

	jobs := make(chan uint64)
	results := make(chan pathResult, cfg.Workers)

	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pathIdx := range jobs {
				rng := rand.New(rand.NewPCG(seed, pathIdx))

				shockedMD := make(map[string]pricing.MarketData, len(marketData))
				for symbol, md := range marketData {
					drift := cfg.Drift
					if drift == 0 {
						drift = md.RiskFreeRate
					}
					// 对数正态终端价格 S·exp((μ − σ²/2)T + σ√T·Z)
					z := rng.NormFloat64()
					mult := math.Exp((drift-0.5*md.Volatility*md.Volatility)*cfg.Horizon +
						md.Volatility*math.Sqrt(cfg.Horizon)*z)
					shockedMD[symbol] = md.WithSpot(md.SpotPrice * mult)
				}

				v := portfolio.Value(ctx, engine, shockedMD)
				// 该路径出现了基准估值没有的失败时跳过，不污染分布
				skipped := len(v.Warnings) > baseWarnings
				results <- pathResult{pnl: v.TotalValue.InexactFloat64() - baseValue, skipped: skipped}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var cancelled bool
	var cancelMu sync.Mutex
	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Paths; i++ {
			select {
			case <-ctx.Done():
				cancelMu.Lock()
				cancelled = true
				cancelMu.Unlock()
				return
			case jobs <- uint64(i):
			}
		}
	}()

	pnls := make([]float64, 0, cfg.Paths)
	skipped := 0
	for r := range results {
		if r.skipped {
			skipped++
			continue
		}
		pnls = append(pnls, r.pnl)
	}

	cancelMu.Lock()
	wasCancelled := cancelled
	cancelMu.Unlock()
	if wasCancelled {
		return nil, ErrSimulationCancelled
	}
	if len(pnls) == 0 {
		return nil, ErrInsufficientReturns
	}

	slices.Sort(pnls)
	mean := 0.0
	for _, p := range pnls {
		mean += p
	}
	mean /= float64(len(pnls))

	return &MonteCarloDistribution{
		BaseValue:    base.TotalValue,
		PnLs:         pnls,
		VaR95:        decimal.NewFromFloat(tailQuantile(pnls, 0.05)),
		VaR99:        decimal.NewFromFloat(tailQuantile(pnls, 0.01)),
		ES95:         decimal.NewFromFloat(tailMean(pnls, 0.05)),
		ES99:         decimal.NewFromFloat(tailMean(pnls, 0.01)),
		MeanPnL:      mean,
		SkippedPaths: skipped,
		Elapsed:      time.Since(start),
	}, nil
}

// tailQuantile 升序序列的 alpha 分位数
func tailQuantile(sorted []float64, alpha float64) float64 {
	idx := int(math.Floor(float64(len(sorted)) * alpha))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// tailMean 升序序列不高于 alpha 分位数的尾部均值
func tailMean(sorted []float64, alpha float64) float64 {
	idx := int(math.Floor(float64(len(sorted)) * alpha))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	sum := 0.0
	for i := 0; i <= idx; i++ {
		sum += sorted[i]
	}
	return sum / float64(idx+1)
}

// CorrelatedAsset 关联模拟中的单项资产
type CorrelatedAsset struct {
	Symbol         string  `json:"symbol"`
	Value          float64 `json:"value"` // 当前持仓市值
	Volatility     float64 `json:"volatility"`
	ExpectedReturn float64 `json:"expected_return"`
}

// CorrelatedRiskInput 多资产关联蒙特卡洛输入
type CorrelatedRiskInput struct {
	Assets            []CorrelatedAsset `json:"assets"`
	CorrelationMatrix [][]float64       `json:"correlation_matrix"`
	Horizon           float64           `json:"horizon"`
	Paths             int               `json:"paths"`
	Confidence        float64           `json:"confidence"`
	Seed              uint64            `json:"seed"`
}

// CorrelatedRiskResult 多资产关联模拟结果
type CorrelatedRiskResult struct {
	TotalValue decimal.Decimal `json:"total_value"`
	VaR        decimal.Decimal `json:"var"`
	ES         decimal.Decimal `json:"es"`
}

// CalculateCorrelatedRisk 相关性结构下的组合 VaR/ES
// 协方差矩阵 Cov(i,j) = ρ(i,j)·σi·σj·T 经 Cholesky 分解生成关联收益
func CalculateCorrelatedRisk(input CorrelatedRiskInput) (*CorrelatedRiskResult, error) {
	n := len(input.Assets)
	if n == 0 {
		return nil, NewValidationError("assets", "must not be empty")
	}
	if len(input.CorrelationMatrix) != n {
		return nil, NewValidationError("correlation_matrix", "dimension mismatch: %d assets, %d rows", n, len(input.CorrelationMatrix))
	}
	if input.Paths <= 0 {
		input.Paths = 10000
	}
	if input.Confidence <= 0 || input.Confidence >= 1 {
		input.Confidence = 0.95
	}
	if input.Horizon <= 0 {
		input.Horizon = 1.0 / 252
	}

	covData := make([][]float64, n)
	for i := 0; i < n; i++ {
		if len(input.CorrelationMatrix[i]) != n {
			return nil, NewValidationError("correlation_matrix", "row %d has %d columns, want %d", i, len(input.CorrelationMatrix[i]), n)
		}
		covData[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			covData[i][j] = input.CorrelationMatrix[i][j] *
				input.Assets[i].Volatility * input.Assets[j].Volatility * input.Horizon
		}
	}

	covMatrix, err := algorithm.NewMatrixFromData(covData)
	if err != nil {
		return nil, err
	}
	chol, err := covMatrix.Cholesky()
	if err != nil {
		return nil, err
	}

	seed := input.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, 0))

	totalValue := 0.0
	drifts := make([]float64, n)
	for i, a := range input.Assets {
		totalValue += a.Value
		drifts[i] = (a.ExpectedReturn - 0.5*a.Volatility*a.Volatility) * input.Horizon
	}

	pnls := make([]float64, input.Paths)
	z := make([]float64, n)
	for p := 0; p < input.Paths; p++ {
		for i := range z {
			z[i] = rng.NormFloat64()
		}
		x, err := chol.MultiplyVector(z)
		if err != nil {
			return nil, err
		}

		simValue := 0.0
		for i, a := range input.Assets {
			simValue += a.Value * math.Exp(drifts[i]+x[i])
		}
		pnls[p] = simValue - totalValue
	}

	slices.Sort(pnls)
	alpha := 1 - input.Confidence
	return &CorrelatedRiskResult{
		TotalValue: decimal.NewFromFloat(totalValue),
		VaR:        decimal.NewFromFloat(tailQuantile(pnls, alpha)),
		ES:         decimal.NewFromFloat(tailMean(pnls, alpha)),
	}, nil
}
