package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/quantengine/pkg/numerics"
)

// InstrumentKind 金融工具类型标签
// 封闭的变体集合，定价引擎按标签做穷举分发
type InstrumentKind string

const (
	KindVanillaOption      InstrumentKind = "VANILLA_OPTION"
	KindEquityForward      InstrumentKind = "EQUITY_FORWARD"
	KindFRA                InstrumentKind = "FRA"
	KindFixedIncomeForward InstrumentKind = "FIXED_INCOME_FORWARD"
	KindInterestRateSwap   InstrumentKind = "INTEREST_RATE_SWAP"
	KindCurrencySwap       InstrumentKind = "CURRENCY_SWAP"
	KindEquitySwap         InstrumentKind = "EQUITY_SWAP"
)

// AssetCategory 标的资产类别
type AssetCategory string

const (
	AssetCategoryEquity       AssetCategory = "EQUITY"
	AssetCategoryFixedIncome  AssetCategory = "FIXED_INCOME"
	AssetCategoryCommodity    AssetCategory = "COMMODITY"
	AssetCategoryCurrency     AssetCategory = "CURRENCY"
	AssetCategoryInterestRate AssetCategory = "INTEREST_RATE"
)

// OptionType 期权类型
type OptionType string

const (
	OptionTypeCall OptionType = "CALL"
	OptionTypePut  OptionType = "PUT"
)

// ExerciseStyle 行权方式
type ExerciseStyle string

const (
	ExerciseStyleEuropean ExerciseStyle = "EUROPEAN"
	ExerciseStyleAmerican ExerciseStyle = "AMERICAN"
	ExerciseStyleBermudan ExerciseStyle = "BERMUDAN"
)

// OptionTerms 期权变体字段
type OptionTerms struct {
	Type   OptionType    `json:"type"`
	Style  ExerciseStyle `json:"style"`
	Strike float64       `json:"strike"`
	// Bermudan 行权日（仅 Style 为 BERMUDAN 时有效）
	ExerciseDates []time.Time `json:"exercise_dates,omitempty"`
}

// ForwardTerms 远期/FRA 变体字段
type ForwardTerms struct {
	ContractPrice float64 `json:"contract_price"`
	// 商品持有成本与便利收益（年化），仅商品远期使用
	StorageCost      float64 `json:"storage_cost"`
	ConvenienceYield float64 `json:"convenience_yield"`
	// FRA：协议利率与起止期限（年）
	ContractRate  float64 `json:"contract_rate"`
	StartMaturity float64 `json:"start_maturity"`
	EndMaturity   float64 `json:"end_maturity"`
	// 固定收益远期：标的债券年化票息（半年付息假设）
	CouponRate float64 `json:"coupon_rate"`
}

// SwapTerms 互换变体字段
type SwapTerms struct {
	FixedRate   float64 `json:"fixed_rate"`
	PaymentFreq int     `json:"payment_freq"` // 每年支付次数
	PayFixed    bool    `json:"pay_fixed"`
	// 货币互换：外币腿
	ForeignCurrency string  `json:"foreign_currency"`
	ForeignNotional float64 `json:"foreign_notional"`
	ForeignRate     float64 `json:"foreign_rate"`
	FXSpot          float64 `json:"fx_spot"` // 本币/外币
	// 股票互换：预期收益与收益类型
	ExpectedReturn float64 `json:"expected_return"`
	TotalReturn    bool    `json:"total_return"`
}

// Instrument 金融工具（封闭变体）
// 构造后不可变；剩余期限按估值时点计算，不随工具存储
type Instrument struct {
	Kind       InstrumentKind    `json:"kind"`
	Symbol     string            `json:"symbol"`
	Currency   string            `json:"currency"`
	Underlying AssetCategory     `json:"underlying"`
	Expiry     time.Time         `json:"expiry"`
	Notional   decimal.Decimal   `json:"notional"`
	DayCount   numerics.DayCount `json:"day_count"`
	CreatedAt  time.Time         `json:"created_at"`

	Option  *OptionTerms  `json:"option,omitempty"`
	Forward *ForwardTerms `json:"forward,omitempty"`
	Swap    *SwapTerms    `json:"swap,omitempty"`
}

func validateCommon(symbol string, expiry time.Time, notional float64, createdAt time.Time) error {
	if symbol == "" {
		return NewValidationError("symbol", "must not be empty")
	}
	if err := ValidatePositive(notional, "notional"); err != nil {
		return err
	}
	if !expiry.After(createdAt) {
		return NewValidationError("expiry", "must be strictly after creation time %s", createdAt.Format(time.RFC3339))
	}
	return nil
}

// NewVanillaOption 创建普通期权
func NewVanillaOption(symbol string, underlying AssetCategory, optType OptionType, style ExerciseStyle, strike float64, expiry time.Time, notional float64) (*Instrument, error) {
	now := time.Now()
	if err := validateCommon(symbol, expiry, notional, now); err != nil {
		return nil, err
	}
	if err := ValidatePositive(strike, "strike"); err != nil {
		return nil, err
	}
	if optType != OptionTypeCall && optType != OptionTypePut {
		return nil, NewValidationError("option_type", "must be CALL or PUT, got %s", optType)
	}
	switch style {
	case ExerciseStyleEuropean, ExerciseStyleAmerican, ExerciseStyleBermudan:
	default:
		return nil, NewValidationError("exercise_style", "unknown style %s", style)
	}

	return &Instrument{
		Kind:       KindVanillaOption,
		Symbol:     symbol,
		Currency:   "USD",
		Underlying: underlying,
		Expiry:     expiry,
		Notional:   decimal.NewFromFloat(notional),
		DayCount:   numerics.DayCountACT365,
		CreatedAt:  now,
		Option:     &OptionTerms{Type: optType, Style: style, Strike: strike},
	}, nil
}

// NewEquityForward 创建股票/商品远期
func NewEquityForward(symbol string, underlying AssetCategory, contractPrice float64, expiry time.Time, notional float64) (*Instrument, error) {
	now := time.Now()
	if err := validateCommon(symbol, expiry, notional, now); err != nil {
		return nil, err
	}
	if err := ValidatePositive(contractPrice, "contract_price"); err != nil {
		return nil, err
	}

	return &Instrument{
		Kind:       KindEquityForward,
		Symbol:     symbol,
		Currency:   "USD",
		Underlying: underlying,
		Expiry:     expiry,
		Notional:   decimal.NewFromFloat(notional),
		DayCount:   numerics.DayCountACT365,
		CreatedAt:  now,
		Forward:    &ForwardTerms{ContractPrice: contractPrice},
	}, nil
}

// NewCommodityForward 创建带持有成本与便利收益的商品远期
func NewCommodityForward(symbol string, contractPrice, storageCost, convenienceYield float64, expiry time.Time, notional float64) (*Instrument, error) {
	inst, err := NewEquityForward(symbol, AssetCategoryCommodity, contractPrice, expiry, notional)
	if err != nil {
		return nil, err
	}
	if err := ValidateNonNegative(storageCost, "storage_cost"); err != nil {
		return nil, err
	}
	if err := ValidateNonNegative(convenienceYield, "convenience_yield"); err != nil {
		return nil, err
	}
	inst.Forward.StorageCost = storageCost
	inst.Forward.ConvenienceYield = convenienceYield
	return inst, nil
}

// NewFRA 创建远期利率协议
// startMaturity/endMaturity 为协议起止期限（年），契约利率为连续复利口径
func NewFRA(symbol string, contractRate, startMaturity, endMaturity float64, expiry time.Time, notional float64) (*Instrument, error) {
	now := time.Now()
	if err := validateCommon(symbol, expiry, notional, now); err != nil {
		return nil, err
	}
	if err := ValidateRate(contractRate, "contract_rate"); err != nil {
		return nil, err
	}
	if err := ValidateNonNegative(startMaturity, "start_maturity"); err != nil {
		return nil, err
	}
	if endMaturity <= startMaturity {
		return nil, NewValidationError("end_maturity", "must be greater than start_maturity")
	}

	return &Instrument{
		Kind:       KindFRA,
		Symbol:     symbol,
		Currency:   "USD",
		Underlying: AssetCategoryInterestRate,
		Expiry:     expiry,
		Notional:   decimal.NewFromFloat(notional),
		DayCount:   numerics.DayCountACT360,
		CreatedAt:  now,
		Forward: &ForwardTerms{
			ContractRate:  contractRate,
			StartMaturity: startMaturity,
			EndMaturity:   endMaturity,
		},
	}, nil
}

// NewFixedIncomeForward 创建固定收益远期（标的债券半年付息）
func NewFixedIncomeForward(symbol string, contractPrice, couponRate float64, expiry time.Time, notional float64) (*Instrument, error) {
	now := time.Now()
	if err := validateCommon(symbol, expiry, notional, now); err != nil {
		return nil, err
	}
	if err := ValidatePositive(contractPrice, "contract_price"); err != nil {
		return nil, err
	}
	if err := ValidateNonNegative(couponRate, "coupon_rate"); err != nil {
		return nil, err
	}

	return &Instrument{
		Kind:       KindFixedIncomeForward,
		Symbol:     symbol,
		Currency:   "USD",
		Underlying: AssetCategoryFixedIncome,
		Expiry:     expiry,
		Notional:   decimal.NewFromFloat(notional),
		DayCount:   numerics.DayCountACT365,
		CreatedAt:  now,
		Forward:    &ForwardTerms{ContractPrice: contractPrice, CouponRate: couponRate},
	}, nil
}

// NewInterestRateSwap 创建利率互换
func NewInterestRateSwap(symbol string, fixedRate float64, paymentFreq int, payFixed bool, expiry time.Time, notional float64) (*Instrument, error) {
	now := time.Now()
	if err := validateCommon(symbol, expiry, notional, now); err != nil {
		return nil, err
	}
	if err := ValidateRate(fixedRate, "fixed_rate"); err != nil {
		return nil, err
	}
	if paymentFreq <= 0 {
		return nil, NewValidationError("payment_freq", "must be positive, got %d", paymentFreq)
	}

	return &Instrument{
		Kind:       KindInterestRateSwap,
		Symbol:     symbol,
		Currency:   "USD",
		Underlying: AssetCategoryInterestRate,
		Expiry:     expiry,
		Notional:   decimal.NewFromFloat(notional),
		DayCount:   numerics.DayCountACT365,
		CreatedAt:  now,
		Swap:       &SwapTerms{FixedRate: fixedRate, PaymentFreq: paymentFreq, PayFixed: payFixed},
	}, nil
}

// NewCurrencySwap 创建货币互换
// fxSpot 为本币/外币即期汇率，外币腿现值按该汇率折算为本币后轧差
func NewCurrencySwap(symbol, foreignCurrency string, fixedRate, foreignNotional, foreignRate, fxSpot float64, paymentFreq int, payFixed bool, expiry time.Time, notional float64) (*Instrument, error) {
	inst, err := NewInterestRateSwap(symbol, fixedRate, paymentFreq, payFixed, expiry, notional)
	if err != nil {
		return nil, err
	}
	if err := ValidatePositive(foreignNotional, "foreign_notional"); err != nil {
		return nil, err
	}
	if err := ValidateRate(foreignRate, "foreign_rate"); err != nil {
		return nil, err
	}
	if err := ValidatePositive(fxSpot, "fx_spot"); err != nil {
		return nil, err
	}
	inst.Kind = KindCurrencySwap
	inst.Underlying = AssetCategoryCurrency
	inst.Swap.ForeignCurrency = foreignCurrency
	inst.Swap.ForeignNotional = foreignNotional
	inst.Swap.ForeignRate = foreignRate
	inst.Swap.FXSpot = fxSpot
	return inst, nil
}

// NewEquitySwap 创建股票互换
func NewEquitySwap(symbol string, fixedRate, expectedReturn float64, totalReturn bool, expiry time.Time, notional float64) (*Instrument, error) {
	now := time.Now()
	if err := validateCommon(symbol, expiry, notional, now); err != nil {
		return nil, err
	}
	if err := ValidateRate(fixedRate, "fixed_rate"); err != nil {
		return nil, err
	}
	if err := ValidateRate(expectedReturn, "expected_return"); err != nil {
		return nil, err
	}

	return &Instrument{
		Kind:       KindEquitySwap,
		Symbol:     symbol,
		Currency:   "USD",
		Underlying: AssetCategoryEquity,
		Expiry:     expiry,
		Notional:   decimal.NewFromFloat(notional),
		DayCount:   numerics.DayCountACT365,
		CreatedAt:  now,
		Swap:       &SwapTerms{FixedRate: fixedRate, ExpectedReturn: expectedReturn, TotalReturn: totalReturn, PaymentFreq: 1},
	}, nil
}

// IsOption 是否为或有权利类工具
func (i *Instrument) IsOption() bool {
	return i.Kind == KindVanillaOption
}

// IsForwardCommitment 是否为远期承诺类工具
func (i *Instrument) IsForwardCommitment() bool {
	return !i.IsOption()
}

// TimeToExpiry 按估值时点计算剩余期限（年）
// 已到期返回 0
func (i *Instrument) TimeToExpiry(asOf time.Time) float64 {
	t := numerics.YearFraction(asOf, i.Expiry, i.DayCount)
	return math.Max(t, 0)
}

// Payoff 到期收益（每单位名义）
func (i *Instrument) Payoff(spot float64) float64 {
	switch i.Kind {
	case KindVanillaOption:
		if i.Option == nil {
			return 0
		}
		if i.Option.Type == OptionTypeCall {
			return math.Max(spot-i.Option.Strike, 0)
		}
		return math.Max(i.Option.Strike-spot, 0)
	case KindEquityForward, KindFixedIncomeForward:
		if i.Forward == nil {
			return 0
		}
		return spot - i.Forward.ContractPrice
	default:
		return 0
	}
}
