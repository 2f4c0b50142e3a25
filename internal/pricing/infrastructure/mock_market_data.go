// Package infrastructure 提供定价模块的外部依赖实现：内存行情源与 MySQL 持久化
package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/wyfcoding/quantengine/internal/pricing/domain"
)

// InMemoryMarketData 内存行情源
// 供测试与本地运行使用；真实行情源（多供应商、缓存、降级）在引擎外部实现
type InMemoryMarketData struct {
	mu        sync.RWMutex
	spots     map[string]float64
	yields    map[string]float64
	vols      map[string]float64
	rates     map[string]float64 // currency -> flat rate
	curves    map[string]*domain.CurveData
	defaultRF float64
}

// NewInMemoryMarketData 创建内存行情源
func NewInMemoryMarketData(defaultRiskFreeRate float64) *InMemoryMarketData {
	return &InMemoryMarketData{
		spots:     make(map[string]float64),
		yields:    make(map[string]float64),
		vols:      make(map[string]float64),
		rates:     make(map[string]float64),
		curves:    make(map[string]*domain.CurveData),
		defaultRF: defaultRiskFreeRate,
	}
}

// SetQuote 写入某一标的的现货价、股息率与波动率
func (m *InMemoryMarketData) SetQuote(symbol string, spot, dividendYield, volatility float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spots[symbol] = spot
	m.yields[symbol] = dividendYield
	m.vols[symbol] = volatility
}

// SetRate 写入某一币种的平坦无风险利率
func (m *InMemoryMarketData) SetRate(currency string, rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates[currency] = rate
}

// SetCurve 写入某一币种的收益率曲线
func (m *InMemoryMarketData) SetCurve(currency string, curve *domain.CurveData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.curves[currency] = curve
}

func (m *InMemoryMarketData) GetSpotPrice(ctx context.Context, symbol string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	spot, ok := m.spots[symbol]
	if !ok {
		return 0, fmt.Errorf("no spot price for symbol %s", symbol)
	}
	return spot, nil
}

func (m *InMemoryMarketData) GetRiskFreeRate(ctx context.Context, currency string, maturity float64) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if curve, ok := m.curves[currency]; ok {
		return curve.Rate(maturity)
	}
	if rate, ok := m.rates[currency]; ok {
		return rate, nil
	}
	return m.defaultRF, nil
}

func (m *InMemoryMarketData) GetDividendYield(ctx context.Context, symbol string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.yields[symbol], nil
}

func (m *InMemoryMarketData) GetVolatility(ctx context.Context, symbol string, maturity, strike float64) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vol, ok := m.vols[symbol]
	if !ok {
		return 0, fmt.Errorf("no volatility for symbol %s", symbol)
	}
	return vol, nil
}

func (m *InMemoryMarketData) GetYieldCurve(ctx context.Context, currency string, curveType domain.CurveType) (*domain.CurveData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	curve, ok := m.curves[currency]
	if !ok {
		return nil, domain.ErrCurveNotFound
	}
	return curve, nil
}

var _ domain.MarketDataProvider = (*InMemoryMarketData)(nil)
