package models

// HealthFactorRequest evaluates position health at a hypothetical
// price without running a simulation. LiquidationThreshold, when
// positive, overrides the configured per-asset threshold.
type HealthFactorRequest struct {
	SupplyAmount         float64 `json:"supply_amount"`
	BorrowAmount         float64 `json:"borrow_amount"`
	SupplyIsPrimary      bool    `json:"supply_is_primary_asset"`
	Price                float64 `json:"price"`
	LiquidationThreshold float64 `json:"liquidation_threshold,omitempty"`
}
