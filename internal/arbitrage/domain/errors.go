package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedStrategy 未知的套利策略类型
	ErrUnsupportedStrategy = errors.New("unsupported arbitrage strategy")
	// ErrInvalidStrikeOrder 盒式价差要求 K1 < K2
	ErrInvalidStrikeOrder = errors.New("strikes must satisfy k1 < k2")
	// ErrInvalidMaturityOrder 日历价差要求近月期限小于远月期限
	ErrInvalidMaturityOrder = errors.New("near maturity must be less than far maturity")
)

// ValidationError 构造期输入校验错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError 创建校验错误
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
