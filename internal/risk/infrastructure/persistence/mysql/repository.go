// Package mysql 风险指标的 MySQL 持久化
package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/wyfcoding/quantengine/internal/risk/application"
	"github.com/wyfcoding/quantengine/internal/risk/domain"
)

// RiskMetricsModel 风险指标数据库模型
type RiskMetricsModel struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	PortfolioName string    `gorm:"column:portfolio_name;type:varchar(64);index;not null"`
	VaR95         string    `gorm:"column:var_95;type:decimal(32,18)"`
	VaR99         string    `gorm:"column:var_99;type:decimal(32,18)"`
	CVaR95        string    `gorm:"column:cvar_95;type:decimal(32,18)"`
	CVaR99        string    `gorm:"column:cvar_99;type:decimal(32,18)"`
	MaxDrawdown   float64   `gorm:"column:max_drawdown;type:decimal(12,8)"`
	Volatility    float64   `gorm:"column:volatility;type:decimal(12,8)"`
	SharpeRatio   float64   `gorm:"column:sharpe_ratio;type:decimal(12,8)"`
	SortinoRatio  float64   `gorm:"column:sortino_ratio;type:decimal(12,8)"`
	CalmarRatio   float64   `gorm:"column:calmar_ratio;type:decimal(12,8)"`
	Beta          float64   `gorm:"column:beta;type:decimal(12,8)"`
	CalculatedAt  int64     `gorm:"column:calculated_at;type:bigint;not null;index"`
}

func (RiskMetricsModel) TableName() string { return "risk_metrics" }

type metricsRepository struct {
	db *gorm.DB
}

// NewMetricsRepository 创建风险指标仓储
func NewMetricsRepository(db *gorm.DB) application.MetricsRepository {
	return &metricsRepository{db: db}
}

func (r *metricsRepository) SaveMetrics(ctx context.Context, portfolioName string, m *domain.RiskMetrics) error {
	model := &RiskMetricsModel{
		PortfolioName: portfolioName,
		VaR95:         m.VaR95.String(),
		VaR99:         m.VaR99.String(),
		CVaR95:        m.CVaR95.String(),
		CVaR99:        m.CVaR99.String(),
		MaxDrawdown:   m.MaxDrawdown,
		Volatility:    m.Volatility,
		SharpeRatio:   m.SharpeRatio,
		SortinoRatio:  m.SortinoRatio,
		CalmarRatio:   m.CalmarRatio,
		Beta:          m.Beta,
		CalculatedAt:  m.CalculatedAt.UnixMilli(),
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// AutoMigrate 建表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&RiskMetricsModel{})
}
