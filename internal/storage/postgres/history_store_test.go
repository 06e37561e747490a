package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defi-backtest-lab/internal/domain"
	"defi-backtest-lab/internal/storage"
)

func TestRequestHistoryStore_Insert(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRequestHistoryStore(pool)
	ctx := context.Background()

	record := &domain.RequestRecord{
		RequestID:   "req-1",
		Kind:        "lending",
		Payload:     []byte(`{"supply_amount":1000}`),
		CreatedAtMs: 1700000000000,
	}

	err := store.Insert(ctx, record)
	require.NoError(t, err)

	got, err := store.GetByID(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, "req-1", got.RequestID)
	assert.Equal(t, "lending", got.Kind)
	assert.Equal(t, record.Payload, got.Payload)
	assert.Equal(t, int64(1700000000000), got.CreatedAtMs)
}

func TestRequestHistoryStore_Insert_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRequestHistoryStore(pool)
	ctx := context.Background()

	record := &domain.RequestRecord{
		RequestID:   "req-1",
		Kind:        "perp",
		Payload:     []byte(`{}`),
		CreatedAtMs: 1700000000000,
	}

	err := store.Insert(ctx, record)
	require.NoError(t, err)

	err = store.Insert(ctx, record)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestRequestHistoryStore_Insert_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRequestHistoryStore(pool)
	ctx := context.Background()

	err := store.Insert(ctx, nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = store.Insert(ctx, &domain.RequestRecord{Kind: "perp"})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestRequestHistoryStore_GetByID_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRequestHistoryStore(pool)
	ctx := context.Background()

	_, err := store.GetByID(ctx, "req-999")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRequestHistoryStore_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRequestHistoryStore(pool)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := store.Insert(ctx, &domain.RequestRecord{
			RequestID:   fmt.Sprintf("req-%d", i),
			Kind:        "batch",
			Payload:     []byte(`{}`),
			CreatedAtMs: int64(1700000000000 + i*1000),
		})
		require.NoError(t, err)
	}

	// Newest first
	got, err := store.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "req-4", got[0].RequestID)
	assert.Equal(t, "req-3", got[1].RequestID)
	assert.Equal(t, "req-2", got[2].RequestID)

	// Non-positive limit returns all
	got, err = store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}
