// Package http 套利模块的 HTTP 接口层
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/wyfcoding/quantengine/internal/arbitrage/application"
	"github.com/wyfcoding/quantengine/internal/arbitrage/domain"
)

// ArbitrageHandler 套利 HTTP 处理器
type ArbitrageHandler struct {
	svc  *application.ArbitrageService
	repo application.OpportunityRepository
}

// NewArbitrageHandler 创建 HTTP 处理器实例
// repo 可为 nil（不提供历史查询）
func NewArbitrageHandler(svc *application.ArbitrageService, repo application.OpportunityRepository) *ArbitrageHandler {
	return &ArbitrageHandler{svc: svc, repo: repo}
}

// RegisterRoutes 将处理器方法绑定到 Gin 路由引擎
func (h *ArbitrageHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/arbitrage")
	{
		api.POST("/scan", h.Scan)
		api.POST("/synthetic", h.BuildSynthetic)
		api.GET("/scans/:scan_id/opportunities", h.ListByScan)
	}
}

// ScanRequest 综合扫描请求
type ScanRequest struct {
	ParityPairs     []domain.ParityInput    `json:"parity_pairs"`
	BoxSpreads      []domain.BoxSpreadInput `json:"box_spreads"`
	CarryPositions  []domain.CarryInput     `json:"carry_positions"`
	CalendarSpreads []domain.CalendarInput  `json:"calendar_spreads"`
	VolPositions    []domain.VolArbInput    `json:"vol_positions"`

	// 过滤条件（可选）
	MinProfit     float64  `json:"min_profit"`
	MinConfidence float64  `json:"min_confidence"`
	MaxComplexity string   `json:"max_complexity"`
	AllowedTypes  []string `json:"allowed_types"`
	// WithPlans 为每个机会附带执行计划
	WithPlans bool `json:"with_plans"`
}

// Scan 运行综合扫描并返回排序后的机会列表
func (h *ArbitrageHandler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.svc.Scan(c.Request.Context(), domain.ScanInput{
		ParityPairs:     req.ParityPairs,
		BoxSpreads:      req.BoxSpreads,
		CarryPositions:  req.CarryPositions,
		CalendarSpreads: req.CalendarSpreads,
		VolPositions:    req.VolPositions,
	})
	if err != nil {
		logging.Error(c.Request.Context(), "arbitrage scan failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	opps := result.Opportunities
	if req.MinProfit > 0 || req.MinConfidence > 0 || req.MaxComplexity != "" || len(req.AllowedTypes) > 0 {
		allowed := make([]domain.ArbitrageType, 0, len(req.AllowedTypes))
		for _, t := range req.AllowedTypes {
			allowed = append(allowed, domain.ArbitrageType(t))
		}
		opps = h.svc.Filter(opps, domain.FilterCriteria{
			MinProfit:     req.MinProfit,
			MinConfidence: req.MinConfidence,
			MaxComplexity: domain.Complexity(req.MaxComplexity),
			AllowedTypes:  allowed,
		})
	}

	payload := gin.H{
		"scan_id":       result.ScanID,
		"opportunities": opps,
		"error_count":   result.ErrorCount,
		"scanned_at":    result.ScannedAt,
	}
	if req.WithPlans {
		plans := make(map[string][]string, len(opps))
		for _, opp := range opps {
			if plan, err := h.svc.ExecutionPlan(opp); err == nil {
				plans[opp.ID] = plan
			}
		}
		payload["execution_plans"] = plans
	}
	response.Success(c, payload)
}

// SyntheticRequest 合成工具构造请求
type SyntheticRequest struct {
	Type      string  `json:"type" binding:"required"`
	Symbol    string  `json:"symbol" binding:"required"`
	CallPrice float64 `json:"call_price"`
	PutPrice  float64 `json:"put_price"`
	Spot      float64 `json:"spot"`
	Strike    float64 `json:"strike"`
	R         float64 `json:"risk_free_rate"`
	T         float64 `json:"time_to_expiry"`
}

// BuildSynthetic 由期权平价重排构造合成工具
func (h *ArbitrageHandler) BuildSynthetic(c *gin.Context) {
	var req SyntheticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	var (
		synth *domain.SyntheticInstrument
		err   error
	)
	switch domain.SyntheticType(req.Type) {
	case domain.SyntheticCall:
		synth, err = domain.BuildSyntheticCall(req.Symbol, req.PutPrice, req.Spot, req.Strike, req.R, req.T)
	case domain.SyntheticPut:
		synth, err = domain.BuildSyntheticPut(req.Symbol, req.CallPrice, req.Spot, req.Strike, req.R, req.T)
	case domain.SyntheticStock:
		synth, err = domain.BuildSyntheticStock(req.Symbol, req.CallPrice, req.PutPrice, req.Strike, req.R, req.T)
	case domain.SyntheticBond:
		synth, err = domain.BuildSyntheticBond(req.Symbol, req.CallPrice, req.PutPrice, req.Spot)
	case domain.SyntheticForward:
		synth, err = domain.BuildSyntheticForward(req.Symbol, req.CallPrice, req.PutPrice)
	default:
		response.ErrorWithStatus(c, http.StatusBadRequest, "unknown synthetic type", req.Type)
		return
	}
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	response.Success(c, synth)
}

// ListByScan 查询某次扫描持久化的机会列表
func (h *ArbitrageHandler) ListByScan(c *gin.Context) {
	if h.repo == nil {
		response.ErrorWithStatus(c, http.StatusNotImplemented, "opportunity history is not enabled", "")
		return
	}

	opps, err := h.repo.ListByScan(c.Request.Context(), c.Param("scan_id"))
	if err != nil {
		logging.Error(c.Request.Context(), "failed to list opportunities", "scan_id", c.Param("scan_id"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, opps)
}
