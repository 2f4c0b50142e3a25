package domain

import "time"

// RiskAlertEvent 风险预警事件：VaR 或压力损失越限时发布
type RiskAlertEvent struct {
	PortfolioName string    `json:"portfolio_name"`
	AlertType     string    `json:"alert_type"` // VAR_BREACH / STRESS_LOSS
	Metric        string    `json:"metric"`
	Value         string    `json:"value"`
	Threshold     string    `json:"threshold"`
	TriggeredAt   time.Time `json:"triggered_at"`
}

// MetricsComputedEvent 风险指标计算完成事件
type MetricsComputedEvent struct {
	PortfolioName string    `json:"portfolio_name"`
	VaR95         string    `json:"var_95"`
	CVaR95        string    `json:"cvar_95"`
	MaxDrawdown   float64   `json:"max_drawdown"`
	SharpeRatio   float64   `json:"sharpe_ratio"`
	ComputedAt    time.Time `json:"computed_at"`
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	// PublishRiskAlert 发布风险预警事件
	PublishRiskAlert(event RiskAlertEvent) error

	// PublishMetricsComputed 发布指标计算完成事件
	PublishMetricsComputed(event MetricsComputedEvent) error
}
