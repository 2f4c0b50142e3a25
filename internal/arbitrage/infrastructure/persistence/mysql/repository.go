// Package mysql 套利机会的 MySQL 持久化
package mysql

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wyfcoding/quantengine/internal/arbitrage/application"
	"github.com/wyfcoding/quantengine/internal/arbitrage/domain"
)

// OpportunityModel 套利机会数据库模型
type OpportunityModel struct {
	ID              string    `gorm:"column:id;type:varchar(36);primaryKey"`
	ScanID          string    `gorm:"column:scan_id;type:varchar(36);index;not null"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	Type            string    `gorm:"column:type;type:varchar(32);index;not null"`
	Direction       string    `gorm:"column:direction;type:varchar(16)"`
	Symbol          string    `gorm:"column:symbol;type:varchar(32);index"`
	Description     string    `gorm:"column:description;type:varchar(255)"`
	ProfitPotential string    `gorm:"column:profit_potential;type:decimal(32,18);not null"`
	Confidence      float64   `gorm:"column:confidence;type:decimal(6,4)"`
	Complexity      string    `gorm:"column:complexity;type:varchar(8)"`
	RiskFactors     string    `gorm:"column:risk_factors;type:text"`
	DetectedAt      int64     `gorm:"column:detected_at;type:bigint;index"`
}

func (OpportunityModel) TableName() string { return "arbitrage_opportunities" }

type opportunityRepository struct {
	db *gorm.DB
}

// NewOpportunityRepository 创建套利机会仓储
func NewOpportunityRepository(db *gorm.DB) application.OpportunityRepository {
	return &opportunityRepository{db: db}
}

func (r *opportunityRepository) SaveBatch(ctx context.Context, scanID string, opps []*domain.ArbitrageOpportunity) error {
	models := make([]OpportunityModel, 0, len(opps))
	for _, opp := range opps {
		factors, err := json.Marshal(opp.RiskFactors)
		if err != nil {
			return err
		}
		models = append(models, OpportunityModel{
			ID:              opp.ID,
			ScanID:          scanID,
			Type:            string(opp.Type),
			Direction:       string(opp.Direction),
			Symbol:          opp.Symbol,
			Description:     opp.Description,
			ProfitPotential: opp.ProfitPotential.String(),
			Confidence:      opp.Confidence,
			Complexity:      string(opp.Complexity),
			RiskFactors:     string(factors),
			DetectedAt:      opp.DetectedAt.UnixMilli(),
		})
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *opportunityRepository) ListByScan(ctx context.Context, scanID string) ([]*domain.ArbitrageOpportunity, error) {
	var models []OpportunityModel
	err := r.db.WithContext(ctx).
		Where("scan_id = ?", scanID).
		Order("detected_at asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	opps := make([]*domain.ArbitrageOpportunity, 0, len(models))
	for _, m := range models {
		profit, err := decimal.NewFromString(m.ProfitPotential)
		if err != nil {
			return nil, err
		}
		var factors []string
		if m.RiskFactors != "" {
			if err := json.Unmarshal([]byte(m.RiskFactors), &factors); err != nil {
				return nil, err
			}
		}
		opps = append(opps, &domain.ArbitrageOpportunity{
			ID:              m.ID,
			Type:            domain.ArbitrageType(m.Type),
			Direction:       domain.Direction(m.Direction),
			Symbol:          m.Symbol,
			Description:     m.Description,
			ProfitPotential: profit,
			Confidence:      m.Confidence,
			Complexity:      domain.Complexity(m.Complexity),
			RiskFactors:     factors,
			DetectedAt:      time.UnixMilli(m.DetectedAt),
		})
	}
	return opps, nil
}

// AutoMigrate 建表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&OpportunityModel{})
}
