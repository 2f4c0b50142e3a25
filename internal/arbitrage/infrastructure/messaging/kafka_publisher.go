// Package messaging 套利事件的 Kafka 发布实现
package messaging

import (
	"context"

	"github.com/wyfcoding/quantengine/internal/arbitrage/domain"
	"github.com/wyfcoding/quantengine/pkg/mq"
)

// KafkaEventPublisher 基于 Kafka 的事件发布者
type KafkaEventPublisher struct {
	producer *mq.Producer
	topic    string
}

// NewKafkaEventPublisher 创建 Kafka 事件发布者
func NewKafkaEventPublisher(producer *mq.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// PublishOpportunityDetected 发布套利机会发现事件
func (p *KafkaEventPublisher) PublishOpportunityDetected(event domain.OpportunityDetectedEvent) error {
	return p.producer.Publish(context.Background(), p.topic, event.OpportunityID, event)
}

// PublishScanCompleted 发布扫描完成事件
func (p *KafkaEventPublisher) PublishScanCompleted(event domain.ScanCompletedEvent) error {
	return p.producer.Publish(context.Background(), p.topic, event.ScanID, event)
}

var _ domain.EventPublisher = (*KafkaEventPublisher)(nil)
