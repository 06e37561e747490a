package simulation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defi-backtest-lab/internal/domain"
)

func TestRunPerp_LongPnl(t *testing.T) {
	engine := NewEngine(nil)
	ds := perpDataset([]float64{100, 105, 110})

	result, err := engine.RunPerp(&domain.PerpRequest{
		InitialCollateral: 100.0,
		Leverage:          2.0,
		IsLong:            true,
	}, ds)
	require.NoError(t, err)
	require.Len(t, result.PerpSteps, 3)

	first := result.PerpSteps[0]
	assert.Equal(t, 100.0, first.EquityUSD)
	assert.Equal(t, 0.0, first.UnrealizedPnlUSD)
	assert.InDelta(t, 2.0, first.PositionSize, 1e-12)
	assert.InDelta(t, 50.0, first.LiquidationPrice, 1e-12)

	// 200 notional, +5% then +10% from entry.
	assert.InDelta(t, 10.0, result.PerpSteps[1].UnrealizedPnlUSD, 1e-9)
	assert.InDelta(t, 120.0, result.PerpSteps[2].EquityUSD, 1e-9)
	assert.Equal(t, 100.0, result.InitialValueUSD)
	assert.InDelta(t, 20.0, result.Summary.FinalPnlUSD, 1e-9)
}

func TestRunPerp_ShortProfitsOnDrop(t *testing.T) {
	engine := NewEngine(nil)
	ds := perpDataset([]float64{100, 90})

	result, err := engine.RunPerp(&domain.PerpRequest{
		InitialCollateral: 100.0,
		Leverage:          2.0,
		IsLong:            false,
	}, ds)
	require.NoError(t, err)

	assert.InDelta(t, 20.0, result.PerpSteps[1].UnrealizedPnlUSD, 1e-9)
	assert.InDelta(t, 120.0, result.PerpSteps[1].EquityUSD, 1e-9)
	assert.InDelta(t, 150.0, result.PerpSteps[0].LiquidationPrice, 1e-12)
}

func TestRunPerp_LiquidationTruncates(t *testing.T) {
	engine := NewEngine(nil)
	// At 20x a 5% adverse move wipes the margin; 94 is past it.
	ds := perpDataset([]float64{100, 97, 94, 110, 120})

	result, err := engine.RunPerp(&domain.PerpRequest{
		InitialCollateral: 100.0,
		Leverage:          20.0,
		IsLong:            true,
	}, ds)
	require.NoError(t, err)
	require.Len(t, result.PerpSteps, 3)

	last := result.PerpSteps[2]
	assert.True(t, last.Liquidated)
	assert.Equal(t, 0.0, last.EquityUSD)
	assert.Equal(t, -100.0, last.UnrealizedPnlUSD)

	assert.False(t, result.PerpSteps[1].Liquidated)
	assert.InDelta(t, 40.0, result.PerpSteps[1].EquityUSD, 1e-9)
	assert.Equal(t, 0.0, result.Summary.FinalEquityUSD)
	assert.InDelta(t, -100.0, result.Summary.FinalPnlUSD, 1e-12)
}

func TestRunPerp_Deterministic(t *testing.T) {
	engine := NewEngine(nil)
	ds := perpDataset([]float64{100, 102, 99, 104, 101})
	req := &domain.PerpRequest{InitialCollateral: 250.0, Leverage: 5.0, IsLong: true}

	first, err := engine.RunPerp(req, ds)
	require.NoError(t, err)
	second, err := engine.RunPerp(req, ds)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRunPerp_LeverageBounds(t *testing.T) {
	engine := NewEngine(nil)
	ds := perpDataset([]float64{100})

	for _, leverage := range []float64{0, 0.5, 20.5, -3} {
		_, err := engine.RunPerp(&domain.PerpRequest{
			InitialCollateral: 100.0,
			Leverage:          leverage,
			IsLong:            true,
		}, ds)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, "leverage %v", leverage)
		assert.Equal(t, "leverage", verr.Field)
	}
}
