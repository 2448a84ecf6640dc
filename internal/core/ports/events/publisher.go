// Package events defines the outbound port for ledger event publication.
package events

import "context"

// Event names published by the ledger. Consumers key off these in the
// message headers.
const (
	CreditOriginated     = "credit.originated"
	CreditSettled        = "credit.settled"
	CollectionRecorded   = "collection.recorded"
	ResidualsSwept       = "residuals.swept"
	ReconciliationFailed = "reconciliation.failed"
)

// Publisher sends domain events to the configured broker. Implementations
// must be safe for concurrent use.
type Publisher interface {
	// Publish sends one event. Key selects the partition so events for one
	// credit stay ordered.
	Publish(ctx context.Context, event string, key string, payload any) error

	// Close flushes and releases broker connections.
	Close() error
}
