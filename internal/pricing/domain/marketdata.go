package domain

import (
	"context"
	"time"
)

// MarketData 不可变市场数据快照
// 每次定价调用构造一份；情景/压力变体通过 copy-with-override 派生新实例
type MarketData struct {
	Symbol        string    `json:"symbol"`
	SpotPrice     float64   `json:"spot_price"`
	RiskFreeRate  float64   `json:"risk_free_rate"`
	DividendYield float64   `json:"dividend_yield"`
	Volatility    float64   `json:"volatility"`
	// 剩余期限覆盖值（年）；负值表示未设置，以工具自身期限为准
	TimeToExpiry float64 `json:"time_to_expiry"`
	// 可选的执行价/远期价参考
	Strike       float64   `json:"strike"`
	ForwardPrice float64   `json:"forward_price"`
	AsOf         time.Time `json:"as_of"`
}

// NewMarketData 创建市场数据快照并做构造期校验
func NewMarketData(symbol string, spot, riskFreeRate, dividendYield, volatility float64) (MarketData, error) {
	if err := ValidatePositive(spot, "spot_price"); err != nil {
		return MarketData{}, err
	}
	if err := ValidateRate(riskFreeRate, "risk_free_rate"); err != nil {
		return MarketData{}, err
	}
	if err := ValidateNonNegative(dividendYield, "dividend_yield"); err != nil {
		return MarketData{}, err
	}
	if err := ValidateVolatility(volatility, "volatility"); err != nil {
		return MarketData{}, err
	}

	return MarketData{
		Symbol:        symbol,
		SpotPrice:     spot,
		RiskFreeRate:  riskFreeRate,
		DividendYield: dividendYield,
		Volatility:    volatility,
		TimeToExpiry:  -1,
		AsOf:          time.Now(),
	}, nil
}

// WithSpot 派生新快照：替换现货价
func (m MarketData) WithSpot(spot float64) MarketData {
	m.SpotPrice = spot
	return m
}

// WithVolatility 派生新快照：替换波动率
func (m MarketData) WithVolatility(vol float64) MarketData {
	m.Volatility = vol
	return m
}

// WithRiskFreeRate 派生新快照：替换无风险利率
func (m MarketData) WithRiskFreeRate(rate float64) MarketData {
	m.RiskFreeRate = rate
	return m
}

// WithTimeToExpiry 派生新快照：覆盖剩余期限（年）
func (m MarketData) WithTimeToExpiry(t float64) MarketData {
	m.TimeToExpiry = t
	return m
}

// WithDividendYield 派生新快照：替换股息率
func (m MarketData) WithDividendYield(q float64) MarketData {
	m.DividendYield = q
	return m
}

// HasTimeToExpiry 是否设置了期限覆盖值
func (m MarketData) HasTimeToExpiry() bool {
	return m.TimeToExpiry >= 0
}

// ResolveTimeToExpiry 解析剩余期限：优先快照覆盖值，否则按工具期限计算
func (m MarketData) ResolveTimeToExpiry(inst *Instrument) float64 {
	if m.HasTimeToExpiry() {
		return m.TimeToExpiry
	}
	asOf := m.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return inst.TimeToExpiry(asOf)
}

// MarketDataProvider 市场数据提供方能力集合
// 具体行情源（HTTP 客户端、缓存、多源降级）在引擎外部实现
type MarketDataProvider interface {
	GetSpotPrice(ctx context.Context, symbol string) (float64, error)
	GetRiskFreeRate(ctx context.Context, currency string, maturity float64) (float64, error)
	GetDividendYield(ctx context.Context, symbol string) (float64, error)
	GetVolatility(ctx context.Context, symbol string, maturity, strike float64) (float64, error)
	GetYieldCurve(ctx context.Context, currency string, curveType CurveType) (*CurveData, error)
}
