package kafka

import (
	"context"

	"github.com/credisur/creditledger/internal/core/ports/events"
)

// NoopPublisher discards every event. Used when no brokers are configured so
// services never have to nil-check their publisher.
type NoopPublisher struct{}

var _ events.Publisher = NoopPublisher{}

func (NoopPublisher) Publish(ctx context.Context, event string, key string, payload any) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
