package clickhouse

import (
	"context"
	"fmt"

	"defi-backtest-lab/internal/domain"
	"defi-backtest-lab/internal/storage"
)

// DatasetStore implements storage.DatasetStore using ClickHouse.
type DatasetStore struct {
	conn *Conn
}

// NewDatasetStore creates a new DatasetStore.
func NewDatasetStore(conn *Conn) *DatasetStore {
	return &DatasetStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DatasetStore = (*DatasetStore)(nil)

// InsertBulk adds samples for a protocol. Fails the entire batch on a
// duplicate (protocol, timestep).
func (s *DatasetStore) InsertBulk(ctx context.Context, protocol domain.Protocol, intervalSeconds int, samples []domain.HistoricalSample) error {
	if len(samples) == 0 {
		return nil
	}
	if protocol == "" || intervalSeconds <= 0 {
		return storage.ErrInvalidInput
	}

	// Check for intra-batch duplicates
	seen := make(map[int]struct{}, len(samples))
	for _, sample := range samples {
		if _, exists := seen[sample.Timestep]; exists {
			return storage.ErrDuplicateKey
		}
		seen[sample.Timestep] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, sample := range samples {
		exists, err := s.exists(ctx, protocol, sample.Timestep)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO dataset_samples (
			protocol, timestep, interval_seconds, price,
			utilization_supply, utilization_borrow, pool_liquidity, pool_volume
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, sample := range samples {
		err = batch.Append(
			string(protocol), uint32(sample.Timestep), uint32(intervalSeconds), sample.Price,
			sample.UtilizationSupply, sample.UtilizationBorrow, sample.PoolLiquidity, sample.PoolVolume,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByProtocol retrieves the full dataset for a protocol, ordered by
// timestep ASC. Returns ErrNotFound if no samples exist.
func (s *DatasetStore) GetByProtocol(ctx context.Context, protocol domain.Protocol) (*domain.Dataset, error) {
	query := `
		SELECT timestep, interval_seconds, price,
		       utilization_supply, utilization_borrow, pool_liquidity, pool_volume
		FROM dataset_samples
		WHERE protocol = ?
		ORDER BY timestep ASC
	`

	rows, err := s.conn.Query(ctx, query, string(protocol))
	if err != nil {
		return nil, fmt.Errorf("query by protocol: %w", err)
	}
	defer rows.Close()

	samples, intervalSeconds, err := scanSamples(rows)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, storage.ErrNotFound
	}

	return &domain.Dataset{
		Protocol:        protocol,
		IntervalSeconds: intervalSeconds,
		Samples:         samples,
	}, nil
}

// GetByTimestepRange retrieves samples within [start, end] (inclusive).
func (s *DatasetStore) GetByTimestepRange(ctx context.Context, protocol domain.Protocol, start, end int) ([]domain.HistoricalSample, error) {
	query := `
		SELECT timestep, interval_seconds, price,
		       utilization_supply, utilization_borrow, pool_liquidity, pool_volume
		FROM dataset_samples
		WHERE protocol = ? AND timestep >= ? AND timestep <= ?
		ORDER BY timestep ASC
	`

	rows, err := s.conn.Query(ctx, query, string(protocol), uint32(start), uint32(end))
	if err != nil {
		return nil, fmt.Errorf("query by timestep range: %w", err)
	}
	defer rows.Close()

	samples, _, err := scanSamples(rows)
	return samples, err
}

// exists checks if a sample with the given key exists.
func (s *DatasetStore) exists(ctx context.Context, protocol domain.Protocol, timestep int) (bool, error) {
	query := `
		SELECT count(*) FROM dataset_samples
		WHERE protocol = ? AND timestep = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, string(protocol), uint32(timestep)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// chRows abstracts driver rows for scanning.
type chRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanSamples scans multiple rows, returning the samples and the
// interval recorded on them.
func scanSamples(rows chRows) ([]domain.HistoricalSample, int, error) {
	var samples []domain.HistoricalSample
	intervalSeconds := 0

	for rows.Next() {
		var sample domain.HistoricalSample
		var timestep, interval uint32

		err := rows.Scan(
			&timestep, &interval, &sample.Price,
			&sample.UtilizationSupply, &sample.UtilizationBorrow,
			&sample.PoolLiquidity, &sample.PoolVolume,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan dataset sample row: %w", err)
		}

		sample.Timestep = int(timestep)
		intervalSeconds = int(interval)
		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate dataset sample rows: %w", err)
	}

	return samples, intervalSeconds, nil
}
