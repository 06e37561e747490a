package storage

import (
	"context"

	"defi-backtest-lab/internal/domain"
)

// DatasetStore provides access to historical market samples, one
// append-only series per protocol.
type DatasetStore interface {
	// InsertBulk adds samples for a protocol. Fails the entire batch on
	// a duplicate (protocol, timestep).
	InsertBulk(ctx context.Context, protocol domain.Protocol, intervalSeconds int, samples []domain.HistoricalSample) error

	// GetByProtocol retrieves the full dataset for a protocol, ordered
	// by timestep ASC. Returns ErrNotFound if no samples exist.
	GetByProtocol(ctx context.Context, protocol domain.Protocol) (*domain.Dataset, error)

	// GetByTimestepRange retrieves samples within [start, end] (inclusive).
	GetByTimestepRange(ctx context.Context, protocol domain.Protocol, start, end int) ([]domain.HistoricalSample, error)
}

// RequestHistoryStore provides access to persisted request payloads.
type RequestHistoryStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if request_id exists.
	Insert(ctx context.Context, r *domain.RequestRecord) error

	// GetByID retrieves a record by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, requestID string) (*domain.RequestRecord, error)

	// List retrieves the most recent records, newest first, up to limit.
	// A non-positive limit returns all records.
	List(ctx context.Context, limit int) ([]*domain.RequestRecord, error)
}
