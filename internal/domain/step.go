package domain

import (
	"encoding/json"
	"math"
)

// Step is the common read-only view over protocol-specific simulation
// steps, sufficient for timeline alignment and summary aggregation.
type Step interface {
	// StepIndex returns the position within the step sequence.
	StepIndex() int

	// StepEquityUSD returns the position's equity at this step.
	StepEquityUSD() float64
}

// LendingStep is one simulation step of a money-market position.
// HealthFactor is +Inf while nothing is borrowed and 0 on the
// liquidation step; Liquidated carries the terminal state explicitly
// so the two meanings never share one encoding.
type LendingStep struct {
	Timestep          int     `json:"timestep"`
	Price             float64 `json:"price"`
	SupplyAmount      float64 `json:"supply_amount"`
	BorrowAmount      float64 `json:"borrow_amount"`
	SupplyRatePerStep float64 `json:"supply_rate_per_step"`
	BorrowRatePerStep float64 `json:"borrow_rate_per_step"`
	SupplyValueUSD    float64 `json:"supply_value_usd"`
	BorrowValueUSD    float64 `json:"borrow_value_usd"`
	NetValueUSD       float64 `json:"net_value_usd"`
	HealthFactor      float64 `json:"health_factor"`
	Liquidated        bool    `json:"liquidated"`
}

func (s *LendingStep) StepIndex() int { return s.Timestep }

func (s *LendingStep) StepEquityUSD() float64 { return s.NetValueUSD }

// MarshalJSON encodes an infinite health factor as null, since JSON
// numbers cannot carry +Inf.
func (s *LendingStep) MarshalJSON() ([]byte, error) {
	type plain LendingStep
	out := struct {
		*plain
		HealthFactor any `json:"health_factor"`
	}{plain: (*plain)(s), HealthFactor: s.HealthFactor}
	if math.IsInf(s.HealthFactor, 1) {
		out.HealthFactor = nil
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts null as an infinite health factor.
func (s *LendingStep) UnmarshalJSON(data []byte) error {
	type plain LendingStep
	aux := struct {
		*plain
		HealthFactor *float64 `json:"health_factor"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.HealthFactor == nil {
		s.HealthFactor = math.Inf(1)
	} else {
		s.HealthFactor = *aux.HealthFactor
	}
	return nil
}

// PerpStep is one simulation step of a linear perpetual position.
// PositionSize is in primary asset units and fixed at entry.
type PerpStep struct {
	Timestep         int     `json:"timestep"`
	Price            float64 `json:"price"`
	UnrealizedPnlUSD float64 `json:"unrealized_pnl"`
	EquityUSD        float64 `json:"equity"`
	PositionSize     float64 `json:"position_size"`
	LiquidationPrice float64 `json:"liquidation_price"`
	Liquidated       bool    `json:"liquidated"`
}

func (s *PerpStep) StepIndex() int { return s.Timestep }

func (s *PerpStep) StepEquityUSD() float64 { return s.EquityUSD }

// ClmmStep is one simulation step of a concentrated-liquidity
// position. PositionValueUSD is the value of current holdings only;
// FeesUSD is the cumulative fee income, kept separate so that the
// hold-value comparison isolates impermanent loss.
type ClmmStep struct {
	Timestep           int     `json:"timestep"`
	Price              float64 `json:"price"`
	AmountA            float64 `json:"amount_a"`
	AmountB            float64 `json:"amount_b"`
	PositionValueUSD   float64 `json:"position_value_usd"`
	FeesUSD            float64 `json:"fees_usd_cumulative"`
	HoldValueUSD       float64 `json:"hold_value_usd"`
	ImpermanentLossUSD float64 `json:"il_usd"`
	ActiveLiquidityPct float64 `json:"active_liquidity_pct"`
	InRange            bool    `json:"in_range"`
}

func (s *ClmmStep) StepIndex() int { return s.Timestep }

func (s *ClmmStep) StepEquityUSD() float64 { return s.PositionValueUSD + s.FeesUSD }
