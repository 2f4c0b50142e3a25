// Package domain 实现组合风险分析的领域模型：头寸估值、风险指标、
// 情景压力测试、蒙特卡洛模拟、敏感性分析、损益归因与组合优化
package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
)

// PricingEngine 组合估值依赖的定价能力
type PricingEngine interface {
	Price(ctx context.Context, inst *pricing.Instrument, md pricing.MarketData) (*pricing.PricingResult, error)
	CalculateGreeks(ctx context.Context, inst *pricing.Instrument, md pricing.MarketData) (*pricing.Greeks, error)
}

// Position 组合中的一个头寸
type Position struct {
	Symbol     string              `json:"symbol"`
	Instrument *pricing.Instrument `json:"instrument"`
	Quantity   float64             `json:"quantity"` // 正为多头，负为空头，不可为零
	EntryPrice float64             `json:"entry_price"`
	EntryTime  time.Time           `json:"entry_time"`
}

// NewPosition 创建头寸
func NewPosition(inst *pricing.Instrument, quantity, entryPrice float64) (*Position, error) {
	if inst == nil {
		return nil, NewValidationError("instrument", "must not be nil")
	}
	if quantity == 0 {
		return nil, NewValidationError("quantity", "must be non-zero")
	}
	return &Position{
		Symbol:     inst.Symbol,
		Instrument: inst,
		Quantity:   quantity,
		EntryPrice: entryPrice,
		EntryTime:  time.Now(),
	}, nil
}

// Portfolio 投资组合
// 头寸列表由单一调用方独占：并发修改同一组合须由调用方自行串行化
type Portfolio struct {
	Name      string
	positions map[string]*Position
	CreatedAt time.Time
}

// NewPortfolio 创建空组合
func NewPortfolio(name string) *Portfolio {
	return &Portfolio{
		Name:      name,
		positions: make(map[string]*Position),
		CreatedAt: time.Now(),
	}
}

// AddPosition 加入头寸；同标的已存在时返回错误
func (p *Portfolio) AddPosition(pos *Position) error {
	if pos == nil {
		return NewValidationError("position", "must not be nil")
	}
	if _, exists := p.positions[pos.Symbol]; exists {
		return fmt.Errorf("position %s: %w", pos.Symbol, ErrPositionExists)
	}
	p.positions[pos.Symbol] = pos
	return nil
}

// RemovePosition 移除头寸
func (p *Portfolio) RemovePosition(symbol string) error {
	if _, exists := p.positions[symbol]; !exists {
		return fmt.Errorf("position %s: %w", symbol, ErrPositionNotFound)
	}
	delete(p.positions, symbol)
	return nil
}

// UpdatePosition 更新头寸数量；数量为零等价于移除
func (p *Portfolio) UpdatePosition(symbol string, quantity float64) error {
	pos, exists := p.positions[symbol]
	if !exists {
		return fmt.Errorf("position %s: %w", symbol, ErrPositionNotFound)
	}
	if quantity == 0 {
		delete(p.positions, symbol)
		return nil
	}
	pos.Quantity = quantity
	return nil
}

// Positions 返回头寸快照切片（按标的排序由调用方负责）
func (p *Portfolio) Positions() []*Position {
	out := make([]*Position, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, pos)
	}
	return out
}

// Position 按标的查头寸
func (p *Portfolio) Position(symbol string) (*Position, bool) {
	pos, ok := p.positions[symbol]
	return pos, ok
}

// Size 头寸数量
func (p *Portfolio) Size() int {
	return len(p.positions)
}

// PositionValuation 单头寸估值明细
type PositionValuation struct {
	Symbol       string          `json:"symbol"`
	Quantity     float64         `json:"quantity"`
	UnitValue    decimal.Decimal `json:"unit_value"`
	MarketValue  decimal.Decimal `json:"market_value"`
	UsedFallback bool            `json:"used_fallback"` // 定价失败时按入场价估值
}

// PortfolioValuation 组合估值结果
type PortfolioValuation struct {
	TotalValue decimal.Decimal     `json:"total_value"`
	Positions  []PositionValuation `json:"positions"`
	Warnings   []string            `json:"warnings,omitempty"`
	ValuedAt   time.Time           `json:"valued_at"`
}

// Value 对组合逐头寸估值
// 单个头寸定价失败时退回入场价估值并记录警告，不中断整个组合的估值
func (p *Portfolio) Value(ctx context.Context, engine PricingEngine, marketData map[string]pricing.MarketData) *PortfolioValuation {
	valuation := &PortfolioValuation{ValuedAt: time.Now()}
	total := decimal.Zero

	for _, pos := range p.Positions() {
		pv := PositionValuation{Symbol: pos.Symbol, Quantity: pos.Quantity}

		md, hasMD := marketData[pos.Symbol]
		var result *pricing.PricingResult
		var err error
		if hasMD {
			result, err = engine.Price(ctx, pos.Instrument, md)
		} else {
			err = fmt.Errorf("no market data for %s", pos.Symbol)
		}

		if err != nil {
			pv.UnitValue = decimal.NewFromFloat(pos.EntryPrice)
			pv.UsedFallback = true
			valuation.Warnings = append(valuation.Warnings,
				fmt.Sprintf("%s: pricing failed, valued at entry price: %v", pos.Symbol, err))
		} else {
			pv.UnitValue = result.FairValue
		}

		pv.MarketValue = pv.UnitValue.Mul(decimal.NewFromFloat(pos.Quantity))
		total = total.Add(pv.MarketValue)
		valuation.Positions = append(valuation.Positions, pv)
	}

	valuation.TotalValue = total
	return valuation
}

// AggregateGreeks 聚合组合希腊字母：仅期权头寸按数量加权求和
func (p *Portfolio) AggregateGreeks(ctx context.Context, engine PricingEngine, marketData map[string]pricing.MarketData) (*pricing.Greeks, []string) {
	agg := &pricing.Greeks{}
	var warnings []string

	for _, pos := range p.Positions() {
		if !pos.Instrument.IsOption() {
			continue
		}
		md, ok := marketData[pos.Symbol]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: no market data, excluded from greeks", pos.Symbol))
			continue
		}
		g, err := engine.CalculateGreeks(ctx, pos.Instrument, md)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: greeks failed: %v", pos.Symbol, err))
			continue
		}

		qty := decimal.NewFromFloat(pos.Quantity)
		agg.Delta = agg.Delta.Add(g.Delta.Mul(qty))
		agg.Gamma = agg.Gamma.Add(g.Gamma.Mul(qty))
		agg.Theta = agg.Theta.Add(g.Theta.Mul(qty))
		agg.Vega = agg.Vega.Add(g.Vega.Mul(qty))
		agg.Rho = agg.Rho.Add(g.Rho.Mul(qty))
	}
	return agg, warnings
}

// Summary 组合概要
type Summary struct {
	Name          string          `json:"name"`
	PositionCount int             `json:"position_count"`
	TotalValue    decimal.Decimal `json:"total_value"`
	Greeks        *pricing.Greeks `json:"greeks"`
	Warnings      []string        `json:"warnings,omitempty"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// GetSummary 组合概要：估值加希腊字母聚合
func (p *Portfolio) GetSummary(ctx context.Context, engine PricingEngine, marketData map[string]pricing.MarketData) *Summary {
	valuation := p.Value(ctx, engine, marketData)
	greeks, greekWarnings := p.AggregateGreeks(ctx, engine, marketData)

	return &Summary{
		Name:          p.Name,
		PositionCount: p.Size(),
		TotalValue:    valuation.TotalValue,
		Greeks:        greeks,
		Warnings:      append(valuation.Warnings, greekWarnings...),
		GeneratedAt:   time.Now(),
	}
}
