package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defi-backtest-lab/internal/domain"
	"defi-backtest-lab/internal/storage"
)

func TestDatasetStore_InsertBulk(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDatasetStore(conn)
	ctx := context.Background()

	// Test empty insert
	err := store.InsertBulk(ctx, domain.ProtocolLending, 86400, nil)
	assert.NoError(t, err)

	samples := []domain.HistoricalSample{
		{Timestep: 0, Price: 300.0, UtilizationSupply: 0.6, UtilizationBorrow: 0.7},
		{Timestep: 1, Price: 305.5, UtilizationSupply: 0.62, UtilizationBorrow: 0.71},
	}

	err = store.InsertBulk(ctx, domain.ProtocolLending, 86400, samples)
	require.NoError(t, err)

	got, err := store.GetByProtocol(ctx, domain.ProtocolLending)
	require.NoError(t, err)
	require.Len(t, got.Samples, 2)
	assert.Equal(t, domain.ProtocolLending, got.Protocol)
	assert.Equal(t, 86400, got.IntervalSeconds)
	assert.Equal(t, 300.0, got.Samples[0].Price)
	assert.Equal(t, 0.62, got.Samples[1].UtilizationSupply)
}

func TestDatasetStore_InsertBulk_DuplicateKey(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDatasetStore(conn)
	ctx := context.Background()

	samples := []domain.HistoricalSample{
		{Timestep: 0, Price: 300.0},
	}

	err := store.InsertBulk(ctx, domain.ProtocolPerp, 86400, samples)
	require.NoError(t, err)

	// Try to insert duplicate
	err = store.InsertBulk(ctx, domain.ProtocolPerp, 86400, samples)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Same timestep for another protocol is fine
	err = store.InsertBulk(ctx, domain.ProtocolClmm, 86400, samples)
	assert.NoError(t, err)
}

func TestDatasetStore_InsertBulk_IntraBatchDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDatasetStore(conn)
	ctx := context.Background()

	// Same timestep twice in one batch
	samples := []domain.HistoricalSample{
		{Timestep: 0, Price: 300.0},
		{Timestep: 0, Price: 301.0},
	}

	err := store.InsertBulk(ctx, domain.ProtocolLending, 86400, samples)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestDatasetStore_GetByProtocol_NotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDatasetStore(conn)
	ctx := context.Background()

	_, err := store.GetByProtocol(ctx, domain.ProtocolClmm)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDatasetStore_GetByTimestepRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDatasetStore(conn)
	ctx := context.Background()

	samples := []domain.HistoricalSample{
		{Timestep: 0, Price: 300.0, PoolLiquidity: 1e6, PoolVolume: 5e5},
		{Timestep: 1, Price: 310.0, PoolLiquidity: 1.1e6, PoolVolume: 6e5},
		{Timestep: 2, Price: 320.0, PoolLiquidity: 1.2e6, PoolVolume: 7e5},
		{Timestep: 3, Price: 330.0, PoolLiquidity: 1.3e6, PoolVolume: 8e5},
	}

	err := store.InsertBulk(ctx, domain.ProtocolClmm, 86400, samples)
	require.NoError(t, err)

	// Range [1, 2] inclusive
	got, err := store.GetByTimestepRange(ctx, domain.ProtocolClmm, 1, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Timestep)
	assert.Equal(t, 2, got[1].Timestep)

	// Exact boundary
	got, err = store.GetByTimestepRange(ctx, domain.ProtocolClmm, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// Empty range
	got, err = store.GetByTimestepRange(ctx, domain.ProtocolClmm, 10, 20)
	require.NoError(t, err)
	assert.Empty(t, got)
}
