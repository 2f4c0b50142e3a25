package mysql

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/quantengine/internal/pricing/domain"
)

// PricingResultModel 定价结果数据库模型
type PricingResultModel struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
	Symbol         string    `gorm:"column:symbol;type:varchar(32);index;not null"`
	FairValue      string    `gorm:"column:fair_value;type:decimal(32,18);not null"`
	IntrinsicValue string    `gorm:"column:intrinsic_value;type:decimal(32,18)"`
	TimeValue      string    `gorm:"column:time_value;type:decimal(32,18)"`
	Delta          string    `gorm:"column:delta;type:decimal(32,18)"`
	Gamma          string    `gorm:"column:gamma;type:decimal(32,18)"`
	Theta          string    `gorm:"column:theta;type:decimal(32,18)"`
	Vega           string    `gorm:"column:vega;type:decimal(32,18)"`
	Rho            string    `gorm:"column:rho;type:decimal(32,18)"`
	PricingModel   string    `gorm:"column:pricing_model;type:varchar(32);index"`
	CalculatedAt   int64     `gorm:"column:calculated_at;type:bigint;not null;index"`
}

func (PricingResultModel) TableName() string { return "pricing_results" }

// mapping helpers

func toPricingResultModel(res *domain.PricingResult) *PricingResultModel {
	if res == nil {
		return nil
	}
	m := &PricingResultModel{
		Symbol:       res.Symbol,
		FairValue:    res.FairValue.String(),
		PricingModel: string(res.Model),
		CalculatedAt: res.CalculatedAt.UnixMilli(),
	}
	if res.HasIntrinsic {
		m.IntrinsicValue = res.IntrinsicValue.String()
		m.TimeValue = res.TimeValue.String()
	}
	if res.Greeks != nil {
		m.Delta = res.Greeks.Delta.String()
		m.Gamma = res.Greeks.Gamma.String()
		m.Theta = res.Greeks.Theta.String()
		m.Vega = res.Greeks.Vega.String()
		m.Rho = res.Greeks.Rho.String()
	}
	return m
}

func toPricingResult(m *PricingResultModel) (*domain.PricingResult, error) {
	if m == nil {
		return nil, nil
	}
	fv, err := decimal.NewFromString(m.FairValue)
	if err != nil {
		return nil, err
	}
	res := &domain.PricingResult{
		Symbol:       m.Symbol,
		FairValue:    fv,
		Model:        domain.PricingModelType(m.PricingModel),
		CalculatedAt: time.UnixMilli(m.CalculatedAt),
	}
	if m.IntrinsicValue != "" {
		if res.IntrinsicValue, err = decimal.NewFromString(m.IntrinsicValue); err != nil {
			return nil, err
		}
		if res.TimeValue, err = decimal.NewFromString(m.TimeValue); err != nil {
			return nil, err
		}
		res.HasIntrinsic = true
	}
	if m.Delta != "" {
		g := &domain.Greeks{}
		if g.Delta, err = decimal.NewFromString(m.Delta); err != nil {
			return nil, err
		}
		if g.Gamma, err = decimal.NewFromString(m.Gamma); err != nil {
			return nil, err
		}
		if g.Theta, err = decimal.NewFromString(m.Theta); err != nil {
			return nil, err
		}
		if g.Vega, err = decimal.NewFromString(m.Vega); err != nil {
			return nil, err
		}
		if g.Rho, err = decimal.NewFromString(m.Rho); err != nil {
			return nil, err
		}
		res.Greeks = g
	}
	return res, nil
}
