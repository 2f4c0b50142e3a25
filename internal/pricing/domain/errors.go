// Package domain 包含衍生品定价引擎的领域模型：金融工具、市场数据快照、定价模型与校验规则
package domain

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/wyfcoding/quantengine/pkg/logger"
)

var (
	ErrUnsupportedInstrument    = errors.New("unsupported instrument kind for pricing model")
	ErrUnsupportedExerciseStyle = errors.New("unsupported exercise style for pricing model")
	ErrCurveEmpty               = errors.New("yield curve has no points")
	ErrCurveNotFound            = errors.New("yield curve not found")
	ErrMissingOptionTerms       = errors.New("instrument is missing option terms")
	ErrMissingForwardTerms      = errors.New("instrument is missing forward terms")
	ErrMissingSwapTerms         = errors.New("instrument is missing swap terms")
)

// ValidationError 构造期输入校验错误
// 所有非法输入在构造时同步失败，绝不延迟到定价阶段
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError 创建校验错误
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PricingError 定价算法内部错误（模型与工具不匹配、求解不收敛等）
type PricingError struct {
	Model  string
	Reason string
	Err    error
}

func (e *PricingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pricing failed in %s: %s: %v", e.Model, e.Reason, e.Err)
	}
	return fmt.Sprintf("pricing failed in %s: %s", e.Model, e.Reason)
}

func (e *PricingError) Unwrap() error { return e.Err }

// NewPricingError 创建定价错误
func NewPricingError(model, reason string, err error) *PricingError {
	return &PricingError{Model: model, Reason: reason, Err: err}
}

// ValidatePositive 校验严格正数
func ValidatePositive(value float64, name string) error {
	if math.IsNaN(value) || value <= 0 {
		return NewValidationError(name, "must be strictly positive, got %v", value)
	}
	return nil
}

// ValidateNonNegative 校验非负数
func ValidateNonNegative(value float64, name string) error {
	if math.IsNaN(value) || value < 0 {
		return NewValidationError(name, "must be non-negative, got %v", value)
	}
	return nil
}

// ValidateRate 校验利率；绝对值超过 100% 仅告警，不拒绝
func ValidateRate(rate float64, name string) error {
	if math.IsNaN(rate) {
		return NewValidationError(name, "must be a number")
	}
	if math.Abs(rate) > 1.0 {
		logger.Warn(context.Background(), "rate outside usual range", "field", name, "rate", rate)
	}
	return nil
}

// ValidateVolatility 校验波动率；负值拒绝，超过 500% 仅告警
func ValidateVolatility(vol float64, name string) error {
	if math.IsNaN(vol) || vol < 0 {
		return NewValidationError(name, "must be non-negative, got %v", vol)
	}
	if vol > 5.0 {
		logger.Warn(context.Background(), "volatility outside usual range", "field", name, "volatility", vol)
	}
	return nil
}

// ValidateProbability 校验概率/置信度在 [0, 1] 区间内
func ValidateProbability(p float64, name string) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return NewValidationError(name, "must be within [0, 1], got %v", p)
	}
	return nil
}
