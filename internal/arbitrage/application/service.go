// Package application 编排套利扫描用例：运行检测器、排序过滤、发布事件并持久化机会
package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/pkg/logging"

	"github.com/wyfcoding/quantengine/internal/arbitrage/domain"
)

// OpportunityRepository 套利机会持久化端口
type OpportunityRepository interface {
	SaveBatch(ctx context.Context, scanID string, opps []*domain.ArbitrageOpportunity) error
	ListByScan(ctx context.Context, scanID string) ([]*domain.ArbitrageOpportunity, error)
}

// ScanResult 一次综合扫描的结果
type ScanResult struct {
	ScanID        string                        `json:"scan_id"`
	Opportunities []*domain.ArbitrageOpportunity `json:"opportunities"`
	ErrorCount    int                           `json:"error_count"`
	ScannedAt     time.Time                     `json:"scanned_at"`
}

// ArbitrageService 套利应用服务
type ArbitrageService struct {
	scanner   *domain.Scanner
	repo      OpportunityRepository
	publisher domain.EventPublisher
}

// NewArbitrageService 创建套利服务
// repo 与 publisher 均可为 nil（不持久化、不发事件）
func NewArbitrageService(scanner *domain.Scanner, repo OpportunityRepository, publisher domain.EventPublisher) *ArbitrageService {
	return &ArbitrageService{scanner: scanner, repo: repo, publisher: publisher}
}

// Scan 运行综合扫描：检测、编号、排序，并发布机会事件
func (s *ArbitrageService) Scan(ctx context.Context, in domain.ScanInput) (*ScanResult, error) {
	scanID := uuid.NewString()

	opportunities, errs := s.scanner.ComprehensiveScan(in)
	for _, err := range errs {
		logging.Warn(ctx, "detector rejected input", "scan_id", scanID, "error", err)
	}

	for _, opp := range opportunities {
		opp.ID = uuid.NewString()
	}
	ranked := domain.RankOpportunities(opportunities)

	if s.repo != nil && len(ranked) > 0 {
		if err := s.repo.SaveBatch(ctx, scanID, ranked); err != nil {
			// 持久化失败不影响扫描结果返回
			logging.Error(ctx, "failed to persist opportunities", "scan_id", scanID, "error", err)
		}
	}
	s.publishEvents(ctx, scanID, ranked, len(errs))

	return &ScanResult{
		ScanID:        scanID,
		Opportunities: ranked,
		ErrorCount:    len(errs),
		ScannedAt:     time.Now(),
	}, nil
}

func (s *ArbitrageService) publishEvents(ctx context.Context, scanID string, opps []*domain.ArbitrageOpportunity, errCount int) {
	if s.publisher == nil {
		return
	}
	for _, opp := range opps {
		event := domain.OpportunityDetectedEvent{
			ScanID:          scanID,
			OpportunityID:   opp.ID,
			Type:            opp.Type,
			Symbol:          opp.Symbol,
			ProfitPotential: opp.ProfitPotential.String(),
			Confidence:      opp.Confidence,
			DetectedAt:      opp.DetectedAt,
		}
		if err := s.publisher.PublishOpportunityDetected(event); err != nil {
			logging.Error(ctx, "failed to publish opportunity event", "opportunity_id", opp.ID, "error", err)
		}
	}
	if err := s.publisher.PublishScanCompleted(domain.ScanCompletedEvent{
		ScanID:           scanID,
		OpportunityCount: len(opps),
		ErrorCount:       errCount,
		CompletedAt:      time.Now(),
	}); err != nil {
		logging.Error(ctx, "failed to publish scan completed event", "scan_id", scanID, "error", err)
	}
}

// Filter 按条件过滤机会列表
func (s *ArbitrageService) Filter(opps []*domain.ArbitrageOpportunity, criteria domain.FilterCriteria) []*domain.ArbitrageOpportunity {
	return domain.FilterOpportunities(opps, criteria)
}

// ExecutionPlan 生成某一机会的逐步执行计划
func (s *ArbitrageService) ExecutionPlan(opp *domain.ArbitrageOpportunity) ([]string, error) {
	return domain.ExecutionPlan(opp)
}
