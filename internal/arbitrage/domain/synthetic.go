package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// SyntheticType 合成工具类型
type SyntheticType string

const (
	SyntheticCall    SyntheticType = "SYNTHETIC_CALL"
	SyntheticPut     SyntheticType = "SYNTHETIC_PUT"
	SyntheticStock   SyntheticType = "SYNTHETIC_STOCK"
	SyntheticBond    SyntheticType = "SYNTHETIC_BOND"
	SyntheticForward SyntheticType = "SYNTHETIC_FORWARD"
)

// SyntheticLeg 合成工具的一条腿
type SyntheticLeg struct {
	Instrument string  `json:"instrument"` // CALL / PUT / STOCK / BOND
	Weight     float64 `json:"weight"`     // 正为多头，负为空头
}

// SyntheticInstrument 由期权平价重排得到的合成工具（构造后不可变）
// 复制精度反映理想化对冲与真实滑点之间的差距
type SyntheticInstrument struct {
	Type                SyntheticType   `json:"type"`
	Symbol              string          `json:"symbol"`
	Legs                []SyntheticLeg  `json:"legs"`
	Price               decimal.Decimal `json:"price"`
	ReplicationAccuracy float64         `json:"replication_accuracy"`
}

func newSynthetic(t SyntheticType, symbol string, legs []SyntheticLeg, price, accuracy float64) (*SyntheticInstrument, error) {
	if accuracy < 0 || accuracy > 1 {
		return nil, NewValidationError("replication_accuracy", "must be in [0, 1]")
	}
	return &SyntheticInstrument{
		Type:                t,
		Symbol:              symbol,
		Legs:                legs,
		Price:               decimal.NewFromFloat(price),
		ReplicationAccuracy: accuracy,
	}, nil
}

// BuildSyntheticCall 合成看涨 C = P + S − K·e^(−rT)
func BuildSyntheticCall(symbol string, putPrice, spot, strike, r, t float64) (*SyntheticInstrument, error) {
	price := putPrice + spot - strike*math.Exp(-r*t)
	return newSynthetic(SyntheticCall, symbol, []SyntheticLeg{
		{Instrument: "PUT", Weight: 1},
		{Instrument: "STOCK", Weight: 1},
		{Instrument: "BOND", Weight: -1},
	}, price, 0.99)
}

// BuildSyntheticPut 合成看跌 P = C − S + K·e^(−rT)
func BuildSyntheticPut(symbol string, callPrice, spot, strike, r, t float64) (*SyntheticInstrument, error) {
	price := callPrice - spot + strike*math.Exp(-r*t)
	return newSynthetic(SyntheticPut, symbol, []SyntheticLeg{
		{Instrument: "CALL", Weight: 1},
		{Instrument: "STOCK", Weight: -1},
		{Instrument: "BOND", Weight: 1},
	}, price, 0.99)
}

// BuildSyntheticStock 合成股票 S = C − P + K·e^(−rT)
func BuildSyntheticStock(symbol string, callPrice, putPrice, strike, r, t float64) (*SyntheticInstrument, error) {
	price := callPrice - putPrice + strike*math.Exp(-r*t)
	return newSynthetic(SyntheticStock, symbol, []SyntheticLeg{
		{Instrument: "CALL", Weight: 1},
		{Instrument: "PUT", Weight: -1},
		{Instrument: "BOND", Weight: 1},
	}, price, 0.98)
}

// BuildSyntheticBond 合成零息债 K·e^(−rT) = P + S − C（到期支付 K）
func BuildSyntheticBond(symbol string, callPrice, putPrice, spot float64) (*SyntheticInstrument, error) {
	price := putPrice + spot - callPrice
	return newSynthetic(SyntheticBond, symbol, []SyntheticLeg{
		{Instrument: "PUT", Weight: 1},
		{Instrument: "STOCK", Weight: 1},
		{Instrument: "CALL", Weight: -1},
	}, price, 0.95)
}

// BuildSyntheticForward 合成远期多头价值 C − P（执行价 K 的远期）
func BuildSyntheticForward(symbol string, callPrice, putPrice float64) (*SyntheticInstrument, error) {
	return newSynthetic(SyntheticForward, symbol, []SyntheticLeg{
		{Instrument: "CALL", Weight: 1},
		{Instrument: "PUT", Weight: -1},
	}, callPrice-putPrice, 0.97)
}
