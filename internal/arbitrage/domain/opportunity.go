// Package domain 实现套利检测的领域模型：跨工具无套利关系的偏离识别、
// 机会评分与合成工具构造
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ArbitrageType 套利策略类型
type ArbitrageType string

const (
	TypeConversion   ArbitrageType = "CONVERSION"   // 买入期权平价组合，卖出高估的看涨
	TypeReversal     ArbitrageType = "REVERSAL"     // 反向转换，卖出高估的看跌
	TypeBoxSpread    ArbitrageType = "BOX_SPREAD"   // 盒式价差
	TypeCarry        ArbitrageType = "CARRY"        // 持有成本套利
	TypeCalendar     ArbitrageType = "CALENDAR"     // 日历价差
	TypeVolatility   ArbitrageType = "VOLATILITY"   // 波动率套利
)

// Direction 套利方向
type Direction string

const (
	DirectionBuyCheap      Direction = "BUY_CHEAP"
	DirectionSellExpensive Direction = "SELL_EXPENSIVE"
)

// Complexity 执行复杂度
type Complexity string

const (
	ComplexityLow    Complexity = "LOW"
	ComplexityMedium Complexity = "MEDIUM"
	ComplexityHigh   Complexity = "HIGH"
)

// 常见残余风险因子
const (
	RiskEarlyExercise   = "EARLY_EXERCISE"
	RiskDividend        = "DIVIDEND_RISK"
	RiskGamma           = "GAMMA_RISK"
	RiskVolatility      = "VOLATILITY_RISK"
	RiskModel           = "MODEL_RISK"
	RiskExecution       = "EXECUTION_RISK"
	RiskStorageCost     = "STORAGE_COST_UNCERTAINTY"
	RiskInterestRate    = "INTEREST_RATE_RISK"
	RiskLiquidity       = "LIQUIDITY_RISK"
	RiskPinAtExpiry     = "PIN_RISK"
)

// ArbitrageOpportunity 套利机会（构造后不可变）
type ArbitrageOpportunity struct {
	ID              string            `json:"id"`
	Type            ArbitrageType     `json:"type"`
	Direction       Direction         `json:"direction"`
	Symbol          string            `json:"symbol"`
	Description     string            `json:"description"`
	ProfitPotential decimal.Decimal   `json:"profit_potential"`
	Confidence      float64           `json:"confidence"`
	Complexity      Complexity        `json:"complexity"`
	RiskFactors     []string          `json:"risk_factors"`
	Details         map[string]float64 `json:"details,omitempty"`
	DetectedAt      time.Time         `json:"detected_at"`
}

// NewArbitrageOpportunity 创建套利机会并校验不变量：利润潜力非负、置信度在 [0,1]
func NewArbitrageOpportunity(
	arbType ArbitrageType, direction Direction, symbol, description string,
	profitPotential, confidence float64,
	complexity Complexity, riskFactors []string,
) (*ArbitrageOpportunity, error) {
	if profitPotential < 0 {
		return nil, NewValidationError("profit_potential", "must be non-negative")
	}
	if confidence < 0 || confidence > 1 {
		return nil, NewValidationError("confidence", "must be in [0, 1]")
	}

	return &ArbitrageOpportunity{
		Type:            arbType,
		Direction:       direction,
		Symbol:          symbol,
		Description:     description,
		ProfitPotential: decimal.NewFromFloat(profitPotential),
		Confidence:      confidence,
		Complexity:      complexity,
		RiskFactors:     riskFactors,
		DetectedAt:      time.Now(),
	}, nil
}

// WithDetails 返回携带诊断明细的浅拷贝（明细仅供展示，代码不依赖其内容分支）
func (o *ArbitrageOpportunity) WithDetails(details map[string]float64) *ArbitrageOpportunity {
	out := *o
	out.Details = details
	return &out
}

func complexityWeight(c Complexity) float64 {
	switch c {
	case ComplexityLow:
		return 1.0
	case ComplexityMedium:
		return 0.7
	case ComplexityHigh:
		return 0.5
	default:
		return 0.5
	}
}

// Score 机会综合评分 = 利润 × 置信度 × 复杂度权重
// 高置信度盒式价差享受 1.5 倍加成；残余风险因子超过 3 个打 0.8 折
func (o *ArbitrageOpportunity) Score() float64 {
	score := o.ProfitPotential.InexactFloat64() * o.Confidence * complexityWeight(o.Complexity)
	if o.Type == TypeBoxSpread && o.Confidence >= 0.99 {
		score *= 1.5
	}
	if len(o.RiskFactors) > 3 {
		score *= 0.8
	}
	return score
}
