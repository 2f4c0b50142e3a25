package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPositionExists 同标的头寸已存在
	ErrPositionExists = errors.New("position already exists")
	// ErrPositionNotFound 头寸不存在
	ErrPositionNotFound = errors.New("position not found")
	// ErrInsufficientReturns 收益率样本不足
	ErrInsufficientReturns = errors.New("insufficient return observations")
	// ErrOptimizationFailed 组合优化未收敛
	ErrOptimizationFailed = errors.New("portfolio optimization did not converge")
	// ErrSimulationCancelled 蒙特卡洛模拟被调用方取消
	ErrSimulationCancelled = errors.New("simulation cancelled")
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
