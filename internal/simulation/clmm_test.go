package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defi-backtest-lab/internal/domain"
)

func TestRunClmm_ConstantPriceHoldsEntryAmounts(t *testing.T) {
	engine := NewEngine(nil)
	ds := clmmDataset(constantPrices(100.0, 5), 1000.0, 10000.0)

	result, err := engine.RunClmm(&domain.ClmmRequest{
		InitialAmountA: 1.0,
		InitialAmountB: 100.0,
		MinPrice:       80.0,
		MaxPrice:       125.0,
	}, ds)
	require.NoError(t, err)
	require.Len(t, result.ClmmSteps, 5)

	for i, step := range result.ClmmSteps {
		assert.InDelta(t, 1.0, step.AmountA, 1e-9, "step %d amount A", i)
		assert.InDelta(t, 100.0, step.AmountB, 1e-9, "step %d amount B", i)
		assert.InDelta(t, step.HoldValueUSD, step.PositionValueUSD, 1e-9, "step %d value", i)
		assert.InDelta(t, 0.0, step.ImpermanentLossUSD, 1e-9, "step %d IL", i)
		assert.True(t, step.InRange, "step %d in range", i)
	}

	// Fees accrue every step while the price sits in range and never
	// enter the position value.
	var prev float64
	for i, step := range result.ClmmSteps {
		assert.Greater(t, step.FeesUSD, prev, "step %d fees", i)
		prev = step.FeesUSD
	}
	assert.InDelta(t, 200.0, result.InitialValueUSD, 1e-9)
	assert.Greater(t, result.Summary.FinalEquityUSD, 200.0)
}

func TestRunClmm_PriceBelowRangeConvertsToPrimary(t *testing.T) {
	engine := NewEngine(nil)
	ds := clmmDataset([]float64{100, 70}, 1000.0, 10000.0)

	result, err := engine.RunClmm(&domain.ClmmRequest{
		InitialAmountA: 1.0,
		InitialAmountB: 100.0,
		MinPrice:       80.0,
		MaxPrice:       125.0,
	}, ds)
	require.NoError(t, err)

	out := result.ClmmSteps[1]
	assert.Greater(t, out.AmountA, 1.0)
	assert.Equal(t, 0.0, out.AmountB)
	assert.False(t, out.InRange)
	assert.Equal(t, 0.0, out.ActiveLiquidityPct)
	// Divergence loss: the position is worth less than holding.
	assert.Less(t, out.PositionValueUSD, out.HoldValueUSD)
}

func TestRunClmm_PriceAboveRangeConvertsToQuote(t *testing.T) {
	engine := NewEngine(nil)
	ds := clmmDataset([]float64{100, 130}, 1000.0, 10000.0)

	result, err := engine.RunClmm(&domain.ClmmRequest{
		InitialAmountA: 1.0,
		InitialAmountB: 100.0,
		MinPrice:       80.0,
		MaxPrice:       125.0,
	}, ds)
	require.NoError(t, err)

	out := result.ClmmSteps[1]
	assert.Equal(t, 0.0, out.AmountA)
	assert.Greater(t, out.AmountB, 100.0)
	assert.False(t, out.InRange)
}

func TestRunClmm_FeeAccrualPausesOutOfRange(t *testing.T) {
	engine := NewEngine(nil)
	ds := clmmDataset([]float64{100, 70, 100}, 1000.0, 10000.0)

	result, err := engine.RunClmm(&domain.ClmmRequest{
		InitialAmountA: 1.0,
		InitialAmountB: 100.0,
		MinPrice:       80.0,
		MaxPrice:       125.0,
	}, ds)
	require.NoError(t, err)
	require.Len(t, result.ClmmSteps, 3)

	steps := result.ClmmSteps
	assert.Greater(t, steps[0].FeesUSD, 0.0)
	assert.Equal(t, steps[0].FeesUSD, steps[1].FeesUSD)
	assert.Greater(t, steps[2].FeesUSD, steps[1].FeesUSD)
}

func TestRunClmm_SingleSidedEntry(t *testing.T) {
	engine := NewEngine(nil)
	ds := clmmDataset([]float64{100, 110}, 1000.0, 10000.0)

	result, err := engine.RunClmm(&domain.ClmmRequest{
		InitialAmountA: 1.0,
		MaxPrice:       125.0,
	}, ds)
	require.NoError(t, err)

	entry := result.ClmmSteps[0]
	assert.InDelta(t, 1.0, entry.AmountA, 1e-9)
	assert.Equal(t, 0.0, entry.AmountB)
	assert.True(t, entry.InRange)

	// As the price climbs inside the range the leg sells A for B.
	next := result.ClmmSteps[1]
	assert.Less(t, next.AmountA, 1.0)
	assert.Greater(t, next.AmountB, 0.0)
}

func TestRunClmm_Validation(t *testing.T) {
	engine := NewEngine(nil)
	ds := clmmDataset([]float64{100}, 1000.0, 10000.0)

	tests := []struct {
		name  string
		req   *domain.ClmmRequest
		field string
	}{
		{"no amounts", &domain.ClmmRequest{}, "initial_amounts"},
		{"negative amount", &domain.ClmmRequest{InitialAmountA: -1}, "initial_amounts"},
		{"missing min price", &domain.ClmmRequest{InitialAmountB: 100}, "min_price"},
		{"missing max price", &domain.ClmmRequest{InitialAmountA: 1, InitialAmountB: 100, MinPrice: 80}, "max_price"},
		{"min above entry", &domain.ClmmRequest{InitialAmountA: 1, InitialAmountB: 100, MinPrice: 110, MaxPrice: 125}, "min_price"},
		{"max below entry", &domain.ClmmRequest{InitialAmountA: 1, InitialAmountB: 100, MinPrice: 80, MaxPrice: 95}, "max_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.RunClmm(tt.req, ds)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
