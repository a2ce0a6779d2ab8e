package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shenikar/activity_tracker/internal/observability"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher пишет события в топик Kafka
type KafkaPublisher struct {
	writer  messageWriter
	metrics *observability.Metrics
}

func NewKafkaPublisher(brokers []string, topic string, metrics *observability.Metrics) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &KafkaPublisher{writer: w, metrics: metrics}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event AlertEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		p.metrics.AlertsPublished.WithLabelValues("kafka", "error").Inc()
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.AlertsPublished.WithLabelValues("kafka", "error").Inc()
		return fmt.Errorf("failed to publish alert event to Kafka: %w", err)
	}
	p.metrics.AlertsPublished.WithLabelValues("kafka", "success").Inc()
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage: ключ - id активности, чтобы события одной активности попадали в одну партицию
func serializeToMessage(event AlertEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ActivityID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "priority", Value: []byte(event.Priority)},
			{Key: "status", Value: []byte(event.Status)},
			{Key: "reason", Value: []byte(event.Reason)},
			{Key: "published_at", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
