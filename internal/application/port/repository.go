package port

import (
	"context"
	"time"

	"fundtrack/internal/domain/funding"
)

// Repository is the durable side-store behind the sampling loop: the
// accepted-event log that makes resume possible, plus a mirror of the
// latest published snapshot for external consumers.
type Repository interface {
	// InsertEvent records one accepted funding event. Inserting the same
	// (symbol, event id) twice must be a no-op, not an error.
	InsertEvent(ctx context.Context, ev funding.Event) error

	// EventsSince returns accepted events with settlement time >= since,
	// oldest first. Used to rehydrate the dedup watermark and the
	// realized window on resume.
	EventsSince(ctx context.Context, since time.Time) ([]funding.Event, error)

	// InsertSnapshot mirrors the latest live snapshot (JSON payload).
	InsertSnapshot(ctx context.Context, ts int64, payload string) error

	// Reset drops session-scoped rows for a fresh (non-resume) start.
	Reset(ctx context.Context) error

	// Connection management
	Close() error
}

// SampleLog is the append-only durable stream of accepted Samples.
type SampleLog interface {
	Append(sample funding.Sample) error
	Close() error
}
