package domain

import (
	"context"
	"time"
)

// RecordRepository is the store for per-number records.
type RecordRepository interface {
	// Get returns the record for a number, or (nil, nil) when absent.
	Get(ctx context.Context, number string) (*NumberRecord, error)

	// Merge applies a patch additively in a single atomic store operation:
	// it creates the record on first write (stamping created_at), stamps
	// updated_at, and never clears fields the patch does not carry.
	Merge(ctx context.Context, number string, patch RecordPatch) error

	// MarkCouponIssued sets coupon_issued for a number only if it is not
	// already set, creating the record if needed. It returns false when the
	// flag was already set, which is how a concurrent duplicate grant is
	// detected at the store level.
	MarkCouponIssued(ctx context.Context, number string, at time.Time) (bool, error)

	// List returns up to limit records, most recently updated first.
	List(ctx context.Context, limit int) ([]NumberRecord, error)
}

// MessageLogRepository is the append-only inbound message log.
type MessageLogRepository interface {
	Append(ctx context.Context, msg *InboundMessage) error

	// List returns up to limit entries in arrival order, oldest first.
	List(ctx context.Context, limit int) ([]InboundMessage, error)
}
