package sagalog

import "context"

// Repository persists saga log entries.
type Repository interface {
	// Save appends a row. The table is an append-only audit log, not an upsert.
	Save(ctx context.Context, entry *SagaLog) error

	// GetLatest returns the newest row of a saga, or ErrNotFound.
	GetLatest(ctx context.Context, sagaID string) (*SagaLog, error)

	// FindLatest returns, for every saga of ownerID whose newest row has the
	// given status, that newest row. Newest sagas first.
	FindLatest(ctx context.Context, ownerID string, status Status) ([]SagaLog, error)
}
