package numerics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoricalVolatility(t *testing.T) {
	// 常数收益序列波动率为零
	flat := []float64{0.01, 0.01, 0.01, 0.01}
	vol, err := HistoricalVolatility(flat)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, vol, 1e-12)

	returns := []float64{0.02, -0.01, 0.015, -0.005, 0.01}
	vol, err = HistoricalVolatility(returns)
	require.NoError(t, err)
	assert.Greater(t, vol, 0.0)
}

func TestHistoricalVolatilityInsufficientSamples(t *testing.T) {
	_, err := HistoricalVolatility([]float64{0.01})
	assert.ErrorIs(t, err, ErrInsufficientSamples)
}

func TestEWMAVolatility(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.015, -0.01, 0.005}

	vol, err := EWMAVolatility(returns, 0.94)
	require.NoError(t, err)
	assert.Greater(t, vol, 0.0)

	// 非法 lambda 回退默认值，结果一致
	volDefault, err := EWMAVolatility(returns, 1.5)
	require.NoError(t, err)
	assert.InDelta(t, vol, volDefault, 1e-12)
}

func TestGARCHVolatility(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.015, -0.01, 0.005, 0.02, -0.015}

	vol, err := GARCHVolatility(returns, 0.1, 0.85)
	require.NoError(t, err)
	assert.Greater(t, vol, 0.0)
}

func TestCorrelationMatrix(t *testing.T) {
	a := []float64{0.01, 0.02, -0.01, 0.03, -0.02}
	b := []float64{0.02, 0.04, -0.02, 0.06, -0.04} // a 的 2 倍，完全相关

	matrix, err := CorrelationMatrix([][]float64{a, b})
	require.NoError(t, err)
	require.Len(t, matrix, 2)
	assert.InDelta(t, 1.0, matrix[0][0], 1e-12)
	assert.InDelta(t, 1.0, matrix[1][1], 1e-12)
	assert.InDelta(t, 1.0, matrix[0][1], 1e-9)
	assert.InDelta(t, matrix[0][1], matrix[1][0], 1e-12)
}

func TestCorrelationMatrixLengthMismatch(t *testing.T) {
	_, err := CorrelationMatrix([][]float64{{0.01, 0.02}, {0.01}})
	assert.Error(t, err)
}

func TestJarqueBera(t *testing.T) {
	// 对称无厚尾的序列不应拒绝正态假设
	symmetric := []float64{-0.02, -0.01, 0, 0.01, 0.02, -0.015, 0.015, -0.005, 0.005, 0}
	result, err := JarqueBera(symmetric)
	require.NoError(t, err)
	assert.True(t, result.IsNormal)
	assert.False(t, math.IsNaN(result.Statistic))

	_, err = JarqueBera([]float64{0.01, 0.02})
	assert.ErrorIs(t, err, ErrInsufficientSamples)
}
