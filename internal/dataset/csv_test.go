package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defi-backtest-lab/internal/domain"
)

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"timestep,price,utilization_supply,utilization_borrow",
		"0,300.0,0.60,0.70",
		"1,310.5,0.62,0.71",
		"2,295.25,0.58,0.69",
	}, "\n")

	ds, err := ReadCSV(strings.NewReader(input), domain.ProtocolLending, 86400)
	require.NoError(t, err)

	assert.Equal(t, domain.ProtocolLending, ds.Protocol)
	assert.Equal(t, 86400, ds.IntervalSeconds)
	require.Len(t, ds.Samples, 3)
	assert.Equal(t, 310.5, ds.Samples[1].Price)
	assert.Equal(t, 0.62, ds.Samples[1].UtilizationSupply)
	assert.Equal(t, 0.71, ds.Samples[1].UtilizationBorrow)
	assert.Equal(t, 0.0, ds.Samples[1].PoolLiquidity)
}

func TestReadCSV_NoTimestepColumn(t *testing.T) {
	input := strings.Join([]string{
		"price,pool_liquidity,pool_volume",
		"300.0,1000000,500000",
		"310.0,1100000,600000",
	}, "\n")

	ds, err := ReadCSV(strings.NewReader(input), domain.ProtocolClmm, 86400)
	require.NoError(t, err)

	require.Len(t, ds.Samples, 2)
	assert.Equal(t, 0, ds.Samples[0].Timestep)
	assert.Equal(t, 1, ds.Samples[1].Timestep)
	assert.Equal(t, 1.1e6, ds.Samples[1].PoolLiquidity)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing price column", "timestep,volume\n0,100"},
		{"empty dataset", "timestep,price\n"},
		{"non-positive price", "timestep,price\n0,0"},
		{"timestep out of sequence", "timestep,price\n0,300\n5,310"},
		{"bad float", "timestep,price\n0,abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), domain.ProtocolPerp, 86400)
			assert.Error(t, err)
		})
	}
}

func TestReadCSV_InvalidInterval(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("price\n300"), domain.ProtocolPerp, 0)
	assert.Error(t, err)
}
