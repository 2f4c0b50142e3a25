// Package mq 提供 Kafka 事件生产者封装，用于对外发布风险告警与套利机会事件
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/wyfcoding/quantengine/pkg/logger"
)

// ProducerConfig Kafka 生产者配置
type ProducerConfig struct {
	Brokers      []string
	MaxRetries   int
	RetryBackoff int // 毫秒
}

// Producer Kafka 事件生产者
type Producer struct {
	writer *kafka.Writer
}

// NewProducer 创建 Kafka 生产者
func NewProducer(cfg ProducerConfig) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		AllowAutoTopicCreation: true,
		Compression:            kafka.Gzip,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            cfg.MaxRetries,
		WriteBackoffMin:        time.Duration(cfg.RetryBackoff) * time.Millisecond,
		WriteBackoffMax:        time.Duration(cfg.RetryBackoff*10) * time.Millisecond,
	}

	logger.Info(context.Background(), "kafka producer created", "brokers", cfg.Brokers)
	return &Producer{writer: writer}
}

// Publish 发布单条 JSON 事件
func (p *Producer) Publish(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error(ctx, "failed to publish kafka event", "topic", topic, "key", key, "error", err)
		return err
	}

	logger.Debug(ctx, "kafka event published", "topic", topic, "key", key)
	return nil
}

// PublishBatch 批量发布 JSON 事件，key 与 event 一一对应
func (p *Producer) PublishBatch(ctx context.Context, topic string, keys []string, events []any) error {
	if len(keys) != len(events) {
		return fmt.Errorf("keys/events length mismatch: %d != %d", len(keys), len(events))
	}

	msgs := make([]kafka.Message, 0, len(events))
	for i, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			logger.Error(ctx, "failed to marshal event, skipped", "key", keys[i], "error", err)
			continue
		}
		msgs = append(msgs, kafka.Message{Topic: topic, Key: []byte(keys[i]), Value: data})
	}
	if len(msgs) == 0 {
		return nil
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		logger.Error(ctx, "failed to publish kafka batch", "topic", topic, "count", len(msgs), "error", err)
		return err
	}
	return nil
}

// Close 关闭生产者
func (p *Producer) Close() error {
	return p.writer.Close()
}
