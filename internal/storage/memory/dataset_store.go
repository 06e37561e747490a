package memory

import (
	"context"
	"sort"
	"sync"

	"defi-backtest-lab/internal/domain"
	"defi-backtest-lab/internal/storage"
)

// DatasetStore is an in-memory implementation of storage.DatasetStore.
type DatasetStore struct {
	mu        sync.RWMutex
	samples   map[domain.Protocol]map[int]domain.HistoricalSample
	intervals map[domain.Protocol]int
}

// NewDatasetStore creates a new in-memory dataset store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		samples:   make(map[domain.Protocol]map[int]domain.HistoricalSample),
		intervals: make(map[domain.Protocol]int),
	}
}

// Compile-time interface check.
var _ storage.DatasetStore = (*DatasetStore)(nil)

// InsertBulk adds samples for a protocol. Fails the entire batch on a
// duplicate (protocol, timestep).
func (s *DatasetStore) InsertBulk(_ context.Context, protocol domain.Protocol, intervalSeconds int, samples []domain.HistoricalSample) error {
	if len(samples) == 0 {
		return nil
	}
	if protocol == "" || intervalSeconds <= 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.samples[protocol]

	// First pass: check for duplicates (existing + intra-batch)
	batchKeys := make(map[int]struct{}, len(samples))
	for _, sample := range samples {
		if _, exists := existing[sample.Timestep]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[sample.Timestep]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[sample.Timestep] = struct{}{}
	}

	// Second pass: insert all
	if existing == nil {
		existing = make(map[int]domain.HistoricalSample, len(samples))
		s.samples[protocol] = existing
	}
	for _, sample := range samples {
		existing[sample.Timestep] = sample
	}
	s.intervals[protocol] = intervalSeconds

	return nil
}

// GetByProtocol retrieves the full dataset for a protocol, ordered by
// timestep ASC. Returns ErrNotFound if no samples exist.
func (s *DatasetStore) GetByProtocol(_ context.Context, protocol domain.Protocol) (*domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	existing := s.samples[protocol]
	if len(existing) == 0 {
		return nil, storage.ErrNotFound
	}

	result := make([]domain.HistoricalSample, 0, len(existing))
	for _, sample := range existing {
		result = append(result, sample)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestep < result[j].Timestep
	})

	return &domain.Dataset{
		Protocol:        protocol,
		IntervalSeconds: s.intervals[protocol],
		Samples:         result,
	}, nil
}

// GetByTimestepRange retrieves samples within [start, end] (inclusive).
func (s *DatasetStore) GetByTimestepRange(_ context.Context, protocol domain.Protocol, start, end int) ([]domain.HistoricalSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.HistoricalSample
	for _, sample := range s.samples[protocol] {
		if sample.Timestep >= start && sample.Timestep <= end {
			result = append(result, sample)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestep < result[j].Timestep
	})

	return result, nil
}
