package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/wyfcoding/quantengine/internal/pricing/application"
	"github.com/wyfcoding/quantengine/internal/pricing/domain"
)

type pricingResultRepository struct {
	db *gorm.DB
}

// NewPricingResultRepository 创建定价结果仓储
func NewPricingResultRepository(db *gorm.DB) application.ResultRepository {
	return &pricingResultRepository{db: db}
}

func (r *pricingResultRepository) Save(ctx context.Context, res *domain.PricingResult) error {
	return r.db.WithContext(ctx).Create(toPricingResultModel(res)).Error
}

// GetLatest 取某一标的最近一次定价结果
func (r *pricingResultRepository) GetLatest(ctx context.Context, symbol string) (*domain.PricingResult, error) {
	var m PricingResultModel
	err := r.db.WithContext(ctx).Where("symbol = ?", symbol).Order("calculated_at desc").First(&m).Error
	if err != nil {
		return nil, err
	}
	return toPricingResult(&m)
}

// ListBySymbol 按标的列出历史定价结果（时间倒序）
func (r *pricingResultRepository) ListBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.PricingResult, error) {
	if limit <= 0 {
		limit = 100
	}
	var models []PricingResultModel
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("calculated_at desc").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	results := make([]*domain.PricingResult, 0, len(models))
	for i := range models {
		res, err := toPricingResult(&models[i])
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// AutoMigrate 建表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&PricingResultModel{})
}
