package domain

import "time"

// OpportunityDetectedEvent 套利机会发现事件
type OpportunityDetectedEvent struct {
	ScanID          string        `json:"scan_id"`
	OpportunityID   string        `json:"opportunity_id"`
	Type            ArbitrageType `json:"type"`
	Symbol          string        `json:"symbol"`
	ProfitPotential string        `json:"profit_potential"`
	Confidence      float64       `json:"confidence"`
	DetectedAt      time.Time     `json:"detected_at"`
}

// ScanCompletedEvent 扫描完成事件
type ScanCompletedEvent struct {
	ScanID           string    `json:"scan_id"`
	OpportunityCount int       `json:"opportunity_count"`
	ErrorCount       int       `json:"error_count"`
	CompletedAt      time.Time `json:"completed_at"`
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	// PublishOpportunityDetected 发布套利机会发现事件
	PublishOpportunityDetected(event OpportunityDetectedEvent) error

	// PublishScanCompleted 发布扫描完成事件
	PublishScanCompleted(event ScanCompletedEvent) error
}
