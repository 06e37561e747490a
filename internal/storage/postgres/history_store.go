package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"defi-backtest-lab/internal/domain"
	"defi-backtest-lab/internal/storage"
)

// RequestHistoryStore implements storage.RequestHistoryStore using
// PostgreSQL.
type RequestHistoryStore struct {
	pool *Pool
}

// NewRequestHistoryStore creates a new RequestHistoryStore.
func NewRequestHistoryStore(pool *Pool) *RequestHistoryStore {
	return &RequestHistoryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RequestHistoryStore = (*RequestHistoryStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if request_id exists.
func (s *RequestHistoryStore) Insert(ctx context.Context, r *domain.RequestRecord) error {
	if r == nil || r.RequestID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO request_history (
			request_id, kind, payload, created_at_ms
		) VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RequestID,
		r.Kind,
		r.Payload,
		r.CreatedAtMs,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert request record: %w", err)
	}
	return nil
}

// GetByID retrieves a record by its ID. Returns ErrNotFound if not exists.
func (s *RequestHistoryStore) GetByID(ctx context.Context, requestID string) (*domain.RequestRecord, error) {
	query := `
		SELECT request_id, kind, payload, created_at_ms
		FROM request_history
		WHERE request_id = $1
	`

	row := s.pool.QueryRow(ctx, query, requestID)
	r, err := scanRequestRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get request record by id: %w", err)
	}
	return r, nil
}

// List retrieves the most recent records, newest first, up to limit.
func (s *RequestHistoryStore) List(ctx context.Context, limit int) ([]*domain.RequestRecord, error) {
	query := `
		SELECT request_id, kind, payload, created_at_ms
		FROM request_history
		ORDER BY created_at_ms DESC, request_id DESC
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list request records: %w", err)
	}
	defer rows.Close()

	var records []*domain.RequestRecord
	for rows.Next() {
		r, err := scanRequestRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request record row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate request record rows: %w", err)
	}

	return records, nil
}

// scanRequestRecord scans a single row.
func scanRequestRecord(row pgx.Row) (*domain.RequestRecord, error) {
	var r domain.RequestRecord
	err := row.Scan(&r.RequestID, &r.Kind, &r.Payload, &r.CreatedAtMs)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
