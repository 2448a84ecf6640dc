// Package kafka publishes ledger events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/credisur/creditledger/internal/core/ports/events"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher writes ledger events to a single topic. Events carry their name
// in a message header and are keyed so one credit's events stay on one
// partition.
type Publisher struct {
	writer *kafkago.Writer
}

// NewPublisher creates a publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.Hash{}, // Key is the credit ID, keeps per-credit order
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafkago.RequireAll,
		},
	}
}

// Ensure Publisher implements events.Publisher
var _ events.Publisher = (*Publisher)(nil)

func (p *Publisher) Publish(ctx context.Context, event string, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}

	msg := kafkago.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event", Value: []byte(event)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish of %s: %w", event, err)
	}
	return nil
}

// Close flushes pending messages and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
