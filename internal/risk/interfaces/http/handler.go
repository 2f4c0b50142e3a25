// Package http 风险模块的 HTTP 接口层
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	pricing "github.com/wyfcoding/quantengine/internal/pricing/domain"
	pricinghttp "github.com/wyfcoding/quantengine/internal/pricing/interfaces/http"
	"github.com/wyfcoding/quantengine/internal/risk/application"
	"github.com/wyfcoding/quantengine/internal/risk/domain"
)

// RiskHandler 风险 HTTP 处理器
type RiskHandler struct {
	svc *application.RiskService
}

// NewRiskHandler 创建 HTTP 处理器实例
func NewRiskHandler(svc *application.RiskService) *RiskHandler {
	return &RiskHandler{svc: svc}
}

// RegisterRoutes 将处理器方法绑定到 Gin 路由引擎
func (h *RiskHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/risk")
	{
		api.POST("/portfolios", h.CreatePortfolio)
		api.POST("/portfolios/:name/positions", h.AddPosition)
		api.DELETE("/portfolios/:name/positions/:symbol", h.RemovePosition)
		api.PUT("/portfolios/:name/positions/:symbol", h.UpdatePosition)
		api.POST("/portfolios/:name/summary", h.GetSummary)
		api.POST("/portfolios/:name/metrics", h.ComputeMetrics)
		api.POST("/portfolios/:name/stress-test", h.StressTest)
		api.POST("/portfolios/:name/monte-carlo", h.MonteCarlo)
		api.POST("/portfolios/:name/sensitivity", h.Sensitivity)
		api.POST("/attribution", h.Attribution)
		api.POST("/optimize", h.Optimize)
		api.POST("/correlated-risk", h.CorrelatedRisk)
	}
}

// MarketDataEntry 单标的市场数据
type MarketDataEntry struct {
	SpotPrice     float64  `json:"spot_price"`
	RiskFreeRate  float64  `json:"risk_free_rate"`
	DividendYield float64  `json:"dividend_yield"`
	Volatility    float64  `json:"volatility"`
	TimeToExpiry  *float64 `json:"time_to_expiry"`
}

func buildMarketDataMap(entries map[string]MarketDataEntry) (map[string]pricing.MarketData, error) {
	out := make(map[string]pricing.MarketData, len(entries))
	for symbol, e := range entries {
		md, err := pricing.NewMarketData(symbol, e.SpotPrice, e.RiskFreeRate, e.DividendYield, e.Volatility)
		if err != nil {
			return nil, err
		}
		if e.TimeToExpiry != nil {
			md = md.WithTimeToExpiry(*e.TimeToExpiry)
		}
		out[symbol] = md
	}
	return out, nil
}

// CreatePortfolio 注册新组合
func (h *RiskHandler) CreatePortfolio(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	if _, err := h.svc.CreatePortfolio(req.Name); err != nil {
		response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"name": req.Name})
}

// AddPositionRequest 加仓请求
type AddPositionRequest struct {
	Instrument pricinghttp.InstrumentRequest `json:"instrument" binding:"required"`
	Quantity   float64                       `json:"quantity" binding:"required"`
	EntryPrice float64                       `json:"entry_price"`
}

// AddPosition 向组合加入头寸
func (h *RiskHandler) AddPosition(c *gin.Context) {
	var req AddPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	inst, err := pricinghttp.BuildInstrument(req.Instrument)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	if err := h.svc.AddPosition(c.Param("name"), inst, req.Quantity, req.EntryPrice); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"symbol": inst.Symbol, "quantity": req.Quantity})
}

// RemovePosition 从组合移除头寸
func (h *RiskHandler) RemovePosition(c *gin.Context) {
	if err := h.svc.RemovePosition(c.Param("name"), c.Param("symbol")); err != nil {
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"removed": c.Param("symbol")})
}

// UpdatePosition 更新头寸数量
func (h *RiskHandler) UpdatePosition(c *gin.Context) {
	var req struct {
		Quantity float64 `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	if err := h.svc.UpdatePosition(c.Param("name"), c.Param("symbol"), req.Quantity); err != nil {
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"symbol": c.Param("symbol"), "quantity": req.Quantity})
}

// SummaryRequest 概要/压测/模拟共用的市场数据载荷
type SummaryRequest struct {
	MarketData map[string]MarketDataEntry `json:"market_data" binding:"required"`
}

// GetSummary 组合概要
func (h *RiskHandler) GetSummary(c *gin.Context) {
	var req SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	md, err := buildMarketDataMap(req.MarketData)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	summary, err := h.svc.GetSummary(c.Request.Context(), c.Param("name"), md)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
		return
	}
	response.Success(c, summary)
}

// MetricsRequest 风险指标计算请求
type MetricsRequest struct {
	Returns      []float64                  `json:"returns" binding:"required"`
	Benchmark    []float64                  `json:"benchmark"`
	RiskFreeRate float64                    `json:"risk_free_rate"`
	MarketData   map[string]MarketDataEntry `json:"market_data"`
}

// ComputeMetrics 由历史收益序列计算风险指标
func (h *RiskHandler) ComputeMetrics(c *gin.Context) {
	var req MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	md, err := buildMarketDataMap(req.MarketData)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	metrics, err := h.svc.ComputeMetrics(c.Request.Context(), c.Param("name"), req.Returns, req.Benchmark, req.RiskFreeRate, md)
	if err != nil {
		logging.Error(c.Request.Context(), "failed to compute risk metrics", "portfolio", c.Param("name"), "error", err)
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	response.Success(c, metrics)
}

// StressTestRequest 压力测试请求；scenarios 为空时使用内置场景
type StressTestRequest struct {
	MarketData map[string]MarketDataEntry `json:"market_data" binding:"required"`
	Scenarios  []domain.Scenario          `json:"scenarios"`
}

// StressTest 运行情景压力测试
func (h *RiskHandler) StressTest(c *gin.Context) {
	var req StressTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	md, err := buildMarketDataMap(req.MarketData)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	report, err := h.svc.StressTest(c.Request.Context(), c.Param("name"), md, req.Scenarios)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
		return
	}
	response.Success(c, report)
}

// MonteCarloRequest 蒙特卡洛模拟请求
type MonteCarloRequest struct {
	MarketData map[string]MarketDataEntry `json:"market_data" binding:"required"`
	Config     domain.MonteCarloConfig    `json:"config"`
}

// MonteCarlo 运行组合蒙特卡洛模拟
func (h *RiskHandler) MonteCarlo(c *gin.Context) {
	var req MonteCarloRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	md, err := buildMarketDataMap(req.MarketData)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dist, err := h.svc.RunMonteCarlo(c.Request.Context(), c.Param("name"), md, req.Config)
	if err != nil {
		logging.Error(c.Request.Context(), "monte carlo failed", "portfolio", c.Param("name"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, dist)
}

// SensitivityRequest 敏感性分析请求
type SensitivityRequest struct {
	MarketData map[string]MarketDataEntry `json:"market_data" binding:"required"`
	Config     domain.SensitivityConfig   `json:"config"`
}

// Sensitivity 单因子敏感性分析
func (h *RiskHandler) Sensitivity(c *gin.Context) {
	var req SensitivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	md, err := buildMarketDataMap(req.MarketData)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.svc.AnalyzeSensitivity(c.Request.Context(), c.Param("name"), md, req.Config)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
		return
	}
	response.Success(c, result)
}

// AttributionRequest 损益归因请求
type AttributionRequest struct {
	Delta     float64 `json:"delta"`
	Gamma     float64 `json:"gamma"`
	Theta     float64 `json:"theta"`
	Vega      float64 `json:"vega"`
	Rho       float64 `json:"rho"`
	TotalPnL  float64 `json:"total_pnl"`
	SpotMove  float64 `json:"spot_move"`
	VolMove   float64 `json:"vol_move"`
	RateMove  float64 `json:"rate_move"`
	DaysMoved float64 `json:"days_moved"`
}

// Attribution 希腊字母损益归因
func (h *RiskHandler) Attribution(c *gin.Context) {
	var req AttributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	greeks := pricing.NewGreeksFromFloats(req.Delta, req.Gamma, req.Theta, req.Vega, req.Rho)
	result := h.svc.AttributePnL(domain.AttributionInput{
		Greeks:    greeks,
		TotalPnL:  req.TotalPnL,
		SpotMove:  req.SpotMove,
		VolMove:   req.VolMove,
		RateMove:  req.RateMove,
		DaysMoved: req.DaysMoved,
	})
	response.Success(c, result)
}

// Optimize 均值-方差组合优化
func (h *RiskHandler) Optimize(c *gin.Context) {
	var req domain.OptimizationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.svc.Optimize(c.Request.Context(), req)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	response.Success(c, result)
}

// CorrelatedRisk 多资产关联蒙特卡洛 VaR/ES
func (h *RiskHandler) CorrelatedRisk(c *gin.Context) {
	var req domain.CorrelatedRiskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.svc.CorrelatedRisk(c.Request.Context(), req)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	response.Success(c, result)
}
