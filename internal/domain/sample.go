package domain

// Protocol identifies which historical dataset a sample belongs to.
// One fixed-size dataset exists per protocol.
type Protocol string

// Supported protocols.
const (
	ProtocolLending Protocol = "lending"
	ProtocolPerp    Protocol = "perp"
	ProtocolClmm    Protocol = "clmm"
)

// Supported asset symbols. The primary asset is the volatile one; the
// quote asset is pegged to 1 USD.
const (
	AssetBNB  = "BNB"
	AssetUSDC = "USDC"
)

// HistoricalSample is one recorded market observation at a discrete
// timestep. Price is always the primary asset price in quote units.
// Utilization fields are populated for lending datasets, pool fields
// for CLMM datasets; unused fields are zero.
type HistoricalSample struct {
	Timestep          int     `json:"timestep"`
	Price             float64 `json:"price"`
	UtilizationSupply float64 `json:"utilization_supply,omitempty"`
	UtilizationBorrow float64 `json:"utilization_borrow,omitempty"`
	PoolLiquidity     float64 `json:"pool_liquidity,omitempty"`
	PoolVolume        float64 `json:"pool_volume,omitempty"`
}

// Dataset is an immutable, timestep-ordered series of samples with a
// fixed sampling interval. Datasets are never mutated after load and
// are safe to share across concurrent simulator runs.
type Dataset struct {
	Protocol        Protocol
	IntervalSeconds int
	Samples         []HistoricalSample
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Samples)
}

// Window is an optional sub-range of a dataset. The zero value means
// the whole dataset.
type Window struct {
	StartTimestep int `json:"start_timestep,omitempty"`
	Steps         int `json:"steps,omitempty"`
}

// Slice returns the samples covered by w. A window that reaches past
// the available history returns a DatasetGapError; simulators never
// read beyond it.
func (d *Dataset) Slice(w Window) ([]HistoricalSample, error) {
	n := len(d.Samples)
	start := w.StartTimestep
	steps := w.Steps
	if steps == 0 {
		steps = n - start
	}
	if start < 0 || steps <= 0 || start+steps > n {
		return nil, &DatasetGapError{
			Protocol:  d.Protocol,
			Requested: start + max(steps, 0),
			Available: n,
		}
	}
	return d.Samples[start : start+steps], nil
}
