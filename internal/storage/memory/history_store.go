package memory

import (
	"context"
	"sort"
	"sync"

	"defi-backtest-lab/internal/domain"
	"defi-backtest-lab/internal/storage"
)

// RequestHistoryStore is an in-memory implementation of
// storage.RequestHistoryStore.
type RequestHistoryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.RequestRecord
}

// NewRequestHistoryStore creates a new in-memory request history store.
func NewRequestHistoryStore() *RequestHistoryStore {
	return &RequestHistoryStore{
		data: make(map[string]*domain.RequestRecord),
	}
}

// Compile-time interface check.
var _ storage.RequestHistoryStore = (*RequestHistoryStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if request_id exists.
func (s *RequestHistoryStore) Insert(_ context.Context, r *domain.RequestRecord) error {
	if r == nil || r.RequestID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RequestID]; exists {
		return storage.ErrDuplicateKey
	}

	recordCopy := *r
	recordCopy.Payload = append([]byte(nil), r.Payload...)
	s.data[r.RequestID] = &recordCopy

	return nil
}

// GetByID retrieves a record by its ID. Returns ErrNotFound if not exists.
func (s *RequestHistoryStore) GetByID(_ context.Context, requestID string) (*domain.RequestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[requestID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recordCopy := *r
	recordCopy.Payload = append([]byte(nil), r.Payload...)
	return &recordCopy, nil
}

// List retrieves the most recent records, newest first, up to limit.
func (s *RequestHistoryStore) List(_ context.Context, limit int) ([]*domain.RequestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.RequestRecord, 0, len(s.data))
	for _, r := range s.data {
		recordCopy := *r
		recordCopy.Payload = append([]byte(nil), r.Payload...)
		result = append(result, &recordCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAtMs != result[j].CreatedAtMs {
			return result[i].CreatedAtMs > result[j].CreatedAtMs
		}
		return result[i].RequestID > result[j].RequestID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
