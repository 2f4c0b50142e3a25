// Package application 编排风险分析用例：组合管理、指标计算、情景压力测试、
// 蒙特卡洛模拟、敏感性分析、损益归因与组合优化
package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/logging"

	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
	"github.com/wyfcoding/quantengine/internal/risk/domain"
)

// MetricsRepository 风险指标持久化端口
type MetricsRepository interface {
	SaveMetrics(ctx context.Context, portfolioName string, metrics *domain.RiskMetrics) error
}

// RiskService 风险应用服务
// 组合注册表内部用互斥锁保护；单个组合的头寸修改仍须由调用方串行化
type RiskService struct {
	engine    domain.PricingEngine
	repo      MetricsRepository
	publisher domain.EventPublisher

	mu         sync.RWMutex
	portfolios map[string]*domain.Portfolio

	// VaR 越限预警阈值（占组合价值比例的货币金额，负值）；零值关闭预警
	varAlertThreshold float64
}

// NewRiskService 创建风险服务
// repo 与 publisher 均可为 nil（不持久化、不发事件）
func NewRiskService(engine domain.PricingEngine, repo MetricsRepository, publisher domain.EventPublisher, varAlertThreshold float64) *RiskService {
	return &RiskService{
		engine:            engine,
		repo:              repo,
		publisher:         publisher,
		portfolios:        make(map[string]*domain.Portfolio),
		varAlertThreshold: varAlertThreshold,
	}
}

// CreatePortfolio 注册新组合
func (s *RiskService) CreatePortfolio(name string) (*domain.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.portfolios[name]; exists {
		return nil, fmt.Errorf("portfolio %s already exists", name)
	}
	p := domain.NewPortfolio(name)
	s.portfolios[name] = p
	return p, nil
}

// Portfolio 按名称取组合
func (s *RiskService) Portfolio(name string) (*domain.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.portfolios[name]
	if !ok {
		return nil, fmt.Errorf("portfolio %s: %w", name, domain.ErrPositionNotFound)
	}
	return p, nil
}

// AddPosition 向组合加入头寸
func (s *RiskService) AddPosition(name string, inst *pricing.Instrument, quantity, entryPrice float64) error {
	p, err := s.Portfolio(name)
	if err != nil {
		return err
	}
	pos, err := domain.NewPosition(inst, quantity, entryPrice)
	if err != nil {
		return err
	}
	return p.AddPosition(pos)
}

// RemovePosition 从组合移除头寸
func (s *RiskService) RemovePosition(name, symbol string) error {
	p, err := s.Portfolio(name)
	if err != nil {
		return err
	}
	return p.RemovePosition(symbol)
}

// UpdatePosition 更新头寸数量
func (s *RiskService) UpdatePosition(name, symbol string, quantity float64) error {
	p, err := s.Portfolio(name)
	if err != nil {
		return err
	}
	return p.UpdatePosition(symbol, quantity)
}

// GetSummary 组合概要（估值 + 希腊字母聚合）
func (s *RiskService) GetSummary(ctx context.Context, name string, marketData map[string]pricing.MarketData) (*domain.Summary, error) {
	p, err := s.Portfolio(name)
	if err != nil {
		return nil, err
	}
	return p.GetSummary(ctx, s.engine, marketData), nil
}

// ComputeMetrics 由历史收益序列计算组合风险指标，并持久化与发布事件
func (s *RiskService) ComputeMetrics(ctx context.Context, name string, returns, benchmark []float64, riskFreeRate float64, marketData map[string]pricing.MarketData) (*domain.RiskMetrics, error) {
	p, err := s.Portfolio(name)
	if err != nil {
		return nil, err
	}

	value := p.Value(ctx, s.engine, marketData).TotalValue.InexactFloat64()
	metrics, err := domain.ComputeRiskMetrics(returns, benchmark, riskFreeRate, value)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		if saveErr := s.repo.SaveMetrics(ctx, name, metrics); saveErr != nil {
			// 持久化失败不影响指标返回
			logging.Error(ctx, "failed to persist risk metrics", "portfolio", name, "error", saveErr)
		}
	}
	s.publishMetricsEvents(ctx, name, metrics)
	return metrics, nil
}

func (s *RiskService) publishMetricsEvents(ctx context.Context, name string, metrics *domain.RiskMetrics) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishMetricsComputed(domain.MetricsComputedEvent{
		PortfolioName: name,
		VaR95:         metrics.VaR95.String(),
		CVaR95:        metrics.CVaR95.String(),
		MaxDrawdown:   metrics.MaxDrawdown,
		SharpeRatio:   metrics.SharpeRatio,
		ComputedAt:    metrics.CalculatedAt,
	}); err != nil {
		logging.Error(ctx, "failed to publish metrics event", "portfolio", name, "error", err)
	}

	if s.varAlertThreshold < 0 && metrics.VaR95.LessThan(decimal.NewFromFloat(s.varAlertThreshold)) {
		alert := domain.RiskAlertEvent{
			PortfolioName: name,
			AlertType:     "VAR_BREACH",
			Metric:        "var_95",
			Value:         metrics.VaR95.String(),
			Threshold:     decimal.NewFromFloat(s.varAlertThreshold).String(),
			TriggeredAt:   time.Now(),
		}
		if err := s.publisher.PublishRiskAlert(alert); err != nil {
			logging.Error(ctx, "failed to publish risk alert", "portfolio", name, "error", err)
		}
	}
}

// StressTest 对组合运行命名情景压力测试；scenarios 为空时使用内置场景
func (s *RiskService) StressTest(ctx context.Context, name string, marketData map[string]pricing.MarketData, scenarios []domain.Scenario) (*domain.StressReport, error) {
	p, err := s.Portfolio(name)
	if err != nil {
		return nil, err
	}
	report := domain.StressTest(ctx, p, s.engine, marketData, scenarios)

	if s.publisher != nil && report.WorstPnL.IsNegative() {
		alert := domain.RiskAlertEvent{
			PortfolioName: name,
			AlertType:     "STRESS_LOSS",
			Metric:        report.WorstCase,
			Value:         report.WorstPnL.String(),
			TriggeredAt:   time.Now(),
		}
		if err := s.publisher.PublishRiskAlert(alert); err != nil {
			logging.Error(ctx, "failed to publish stress alert", "portfolio", name, "error", err)
		}
	}
	return report, nil
}

// RunMonteCarlo 组合蒙特卡洛模拟
func (s *RiskService) RunMonteCarlo(ctx context.Context, name string, marketData map[string]pricing.MarketData, cfg domain.MonteCarloConfig) (*domain.MonteCarloDistribution, error) {
	p, err := s.Portfolio(name)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	dist, err := domain.RunMonteCarlo(ctx, p, s.engine, marketData, cfg)
	if err != nil {
		return nil, err
	}
	logging.Debug(ctx, "monte carlo completed",
		"portfolio", name, "paths", len(dist.PnLs), "skipped", dist.SkippedPaths, "elapsed", time.Since(start))
	return dist, nil
}

// AnalyzeSensitivity 组合单因子敏感性分析
func (s *RiskService) AnalyzeSensitivity(ctx context.Context, name string, marketData map[string]pricing.MarketData, cfg domain.SensitivityConfig) (*domain.SensitivityResult, error) {
	p, err := s.Portfolio(name)
	if err != nil {
		return nil, err
	}
	return domain.AnalyzeSensitivity(ctx, p, s.engine, marketData, cfg), nil
}

// AttributePnL 损益归因
func (s *RiskService) AttributePnL(in domain.AttributionInput) *domain.PnLAttribution {
	return domain.AttributePnL(in)
}

// Optimize 均值-方差组合优化
func (s *RiskService) Optimize(ctx context.Context, in domain.OptimizationInput) (*domain.OptimizationResult, error) {
	result, err := domain.OptimizePortfolio(in)
	if err != nil {
		return nil, err
	}
	if !result.Converged {
		logging.Warn(ctx, "portfolio optimization did not converge", "reason", result.Reason)
	}
	return result, nil
}

// CorrelatedRisk 多资产关联蒙特卡洛 VaR/ES
func (s *RiskService) CorrelatedRisk(ctx context.Context, in domain.CorrelatedRiskInput) (*domain.CorrelatedRiskResult, error) {
	return domain.CalculateCorrelatedRisk(in)
}
