// Package messaging 风险事件的 Kafka 发布实现
package messaging

import (
	"context"

	"github.com/wyfcoding/quantengine/internal/risk/domain"
	"github.com/wyfcoding/quantengine/pkg/mq"
)

// KafkaEventPublisher 基于 Kafka 的风险事件发布者
type KafkaEventPublisher struct {
	producer *mq.Producer
	topic    string
}

// NewKafkaEventPublisher 创建 Kafka 事件发布者
func NewKafkaEventPublisher(producer *mq.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// PublishRiskAlert 发布风险预警事件
func (p *KafkaEventPublisher) PublishRiskAlert(event domain.RiskAlertEvent) error {
	return p.producer.Publish(context.Background(), p.topic, event.PortfolioName, event)
}

// PublishMetricsComputed 发布指标计算完成事件
func (p *KafkaEventPublisher) PublishMetricsComputed(event domain.MetricsComputedEvent) error {
	return p.producer.Publish(context.Background(), p.topic, event.PortfolioName, event)
}

var _ domain.EventPublisher = (*KafkaEventPublisher)(nil)
