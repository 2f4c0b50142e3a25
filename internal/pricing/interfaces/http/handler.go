// Package http 定价模块的 HTTP 接口层
package http

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/wyfcoding/quantengine/internal/pricing/application"
	"github.com/wyfcoding/quantengine/internal/pricing/domain"
)

// PricingHandler 定价 HTTP 处理器
type PricingHandler struct {
	svc *application.PricingService
}

// NewPricingHandler 创建 HTTP 处理器实例
func NewPricingHandler(svc *application.PricingService) *PricingHandler {
	return &PricingHandler{svc: svc}
}

// RegisterRoutes 将处理器方法绑定到 Gin 路由引擎
func (h *PricingHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/pricing")
	{
		api.POST("/price", h.Price)
		api.POST("/option/greeks", h.GetGreeks)
		api.POST("/option/implied-vol", h.GetImpliedVolatility)
		api.POST("/curve/rate", h.GetCurveRate)
	}
}

// InstrumentRequest 工具定义（按 kind 取用对应字段）
type InstrumentRequest struct {
	Kind       string    `json:"kind" binding:"required"`
	Symbol     string    `json:"symbol" binding:"required"`
	Underlying string    `json:"underlying"`
	ExpiryDate time.Time `json:"expiry_date" binding:"required"`
	Notional   float64   `json:"notional" binding:"required"`

	// 期权
	OptionType    string      `json:"option_type"`
	ExerciseStyle string      `json:"exercise_style"`
	StrikePrice   float64     `json:"strike_price"`
	ExerciseDates []time.Time `json:"exercise_dates"`

	// 远期 / FRA / 固定收益远期
	ContractPrice    float64 `json:"contract_price"`
	StorageCost      float64 `json:"storage_cost"`
	ConvenienceYield float64 `json:"convenience_yield"`
	ContractRate     float64 `json:"contract_rate"`
	StartMaturity    float64 `json:"start_maturity"`
	EndMaturity      float64 `json:"end_maturity"`
	CouponRate       float64 `json:"coupon_rate"`

	// 互换
	FixedRate       float64 `json:"fixed_rate"`
	PaymentFreq     int     `json:"payment_freq"`
	PayFixed        bool    `json:"pay_fixed"`
	ForeignCurrency string  `json:"foreign_currency"`
	ForeignNotional float64 `json:"foreign_notional"`
	ForeignRate     float64 `json:"foreign_rate"`
	FXSpot          float64 `json:"fx_spot"`
	ExpectedReturn  float64 `json:"expected_return"`
	TotalReturn     bool    `json:"total_return"`
}

// MarketDataRequest 市场数据快照
type MarketDataRequest struct {
	SpotPrice     float64  `json:"spot_price"`
	RiskFreeRate  float64  `json:"risk_free_rate"`
	DividendYield float64  `json:"dividend_yield"`
	Volatility    float64  `json:"volatility"`
	TimeToExpiry  *float64 `json:"time_to_expiry"`
}

// PricingRequest 定价请求
type PricingRequest struct {
	Instrument InstrumentRequest `json:"instrument" binding:"required"`
	Market     MarketDataRequest `json:"market" binding:"required"`
}

// ImpliedVolRequest 隐含波动率请求
type ImpliedVolRequest struct {
	Instrument  InstrumentRequest `json:"instrument" binding:"required"`
	Market      MarketDataRequest `json:"market" binding:"required"`
	MarketPrice float64           `json:"market_price" binding:"required"`
}

// CurveRateRequest 收益率曲线插值请求
type CurveRateRequest struct {
	Points []struct {
		Maturity float64 `json:"maturity"`
		Rate     float64 `json:"rate"`
	} `json:"points" binding:"required"`
	Interpolation string  `json:"interpolation"`
	Maturity      float64 `json:"maturity" binding:"required"`
}

// BuildInstrument 按 kind 分发到对应的工具构造器
func BuildInstrument(req InstrumentRequest) (*domain.Instrument, error) {
	underlying := domain.AssetCategory(req.Underlying)
	if underlying == "" {
		underlying = domain.AssetCategoryEquity
	}

	switch domain.InstrumentKind(req.Kind) {
	case domain.KindVanillaOption:
		inst, err := domain.NewVanillaOption(req.Symbol, underlying,
			domain.OptionType(req.OptionType), domain.ExerciseStyle(req.ExerciseStyle),
			req.StrikePrice, req.ExpiryDate, req.Notional)
		if err != nil {
			return nil, err
		}
		inst.Option.ExerciseDates = req.ExerciseDates
		return inst, nil
	case domain.KindEquityForward:
		if underlying == domain.AssetCategoryCommodity {
			return domain.NewCommodityForward(req.Symbol, req.ContractPrice,
				req.StorageCost, req.ConvenienceYield, req.ExpiryDate, req.Notional)
		}
		return domain.NewEquityForward(req.Symbol, underlying, req.ContractPrice, req.ExpiryDate, req.Notional)
	case domain.KindFRA:
		return domain.NewFRA(req.Symbol, req.ContractRate, req.StartMaturity, req.EndMaturity, req.ExpiryDate, req.Notional)
	case domain.KindFixedIncomeForward:
		return domain.NewFixedIncomeForward(req.Symbol, req.ContractPrice, req.CouponRate, req.ExpiryDate, req.Notional)
	case domain.KindInterestRateSwap:
		return domain.NewInterestRateSwap(req.Symbol, req.FixedRate, req.PaymentFreq, req.PayFixed, req.ExpiryDate, req.Notional)
	case domain.KindCurrencySwap:
		return domain.NewCurrencySwap(req.Symbol, req.ForeignCurrency, req.FixedRate,
			req.ForeignNotional, req.ForeignRate, req.FXSpot, req.PaymentFreq, req.PayFixed,
			req.ExpiryDate, req.Notional)
	case domain.KindEquitySwap:
		return domain.NewEquitySwap(req.Symbol, req.FixedRate, req.ExpectedReturn, req.TotalReturn, req.ExpiryDate, req.Notional)
	default:
		return nil, domain.ErrUnsupportedInstrument
	}
}

func buildMarketData(symbol string, req MarketDataRequest) (domain.MarketData, error) {
	md, err := domain.NewMarketData(symbol, req.SpotPrice, req.RiskFreeRate, req.DividendYield, req.Volatility)
	if err != nil {
		return domain.MarketData{}, err
	}
	if req.TimeToExpiry != nil {
		md = md.WithTimeToExpiry(*req.TimeToExpiry)
	}
	return md, nil
}

func (h *PricingHandler) parse(c *gin.Context, req *PricingRequest) (*domain.Instrument, domain.MarketData, bool) {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return nil, domain.MarketData{}, false
	}
	inst, err := BuildInstrument(req.Instrument)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return nil, domain.MarketData{}, false
	}
	md, err := buildMarketData(req.Instrument.Symbol, req.Market)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return nil, domain.MarketData{}, false
	}
	return inst, md, true
}

// Price 对任意受支持的工具定价
func (h *PricingHandler) Price(c *gin.Context) {
	var req PricingRequest
	inst, md, ok := h.parse(c, &req)
	if !ok {
		return
	}

	result, err := h.svc.Price(c.Request.Context(), inst, md)
	if err != nil {
		status := http.StatusInternalServerError
		if application.IsValidationError(err) {
			status = http.StatusBadRequest
		}
		logging.Error(c.Request.Context(), "failed to price instrument", "symbol", inst.Symbol, "error", err)
		response.ErrorWithStatus(c, status, err.Error(), "")
		return
	}

	response.Success(c, result)
}

// GetGreeks 计算期权希腊字母
func (h *PricingHandler) GetGreeks(c *gin.Context) {
	var req PricingRequest
	inst, md, ok := h.parse(c, &req)
	if !ok {
		return
	}

	greeks, err := h.svc.CalculateGreeks(c.Request.Context(), inst, md)
	if err != nil {
		logging.Error(c.Request.Context(), "failed to calculate greeks", "symbol", inst.Symbol, "error", err)
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	response.Success(c, greeks)
}

// GetImpliedVolatility 由市场价格反推隐含波动率
func (h *PricingHandler) GetImpliedVolatility(c *gin.Context) {
	var req ImpliedVolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	inst, err := BuildInstrument(req.Instrument)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	md, err := buildMarketData(req.Instrument.Symbol, req.Market)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	iv, err := h.svc.ImpliedVolatility(c.Request.Context(), inst, md, req.MarketPrice)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	payload := gin.H{"symbol": inst.Symbol, "converged": !math.IsNaN(iv)}
	if !math.IsNaN(iv) {
		payload["implied_volatility"] = iv
	}
	response.Success(c, payload)
}

// GetCurveRate 对收益率曲线插值并返回即期利率、贴现因子
func (h *PricingHandler) GetCurveRate(c *gin.Context) {
	var req CurveRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	points := make([]domain.YieldCurvePoint, 0, len(req.Points))
	for _, p := range req.Points {
		points = append(points, domain.YieldCurvePoint{Maturity: p.Maturity, Rate: p.Rate})
	}
	method := domain.InterpolationMethod(req.Interpolation)
	if method == "" {
		method = domain.InterpCubicSpline
	}

	curve, err := domain.NewCurveData("USD", domain.CurveTypeSwap, method, points)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	rate, err := curve.Rate(req.Maturity)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	df, err := curve.DiscountFactor(req.Maturity)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	response.Success(c, gin.H{
		"maturity":        req.Maturity,
		"spot_rate":       rate,
		"discount_factor": df,
	})
}
