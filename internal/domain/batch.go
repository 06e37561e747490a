package domain

// LendingAllocation describes a lending batch entry before capital
// resolution. SupplyPercent is a fraction in (0, 1] of the supply
// asset's remaining pool balance; BorrowAmount is an absolute amount
// of the opposite asset that the position borrows, credited to that
// asset's pool balance for later entries.
type LendingAllocation struct {
	SupplyIsPrimary bool    `json:"supply_is_primary_asset"`
	SupplyPercent   float64 `json:"supply_percent"`
	BorrowAmount    float64 `json:"borrow_amount"`
	Window          Window  `json:"window,omitempty"`
}

// PerpAllocation describes a perpetual batch entry. CollateralPercent
// is a fraction in (0, 1] of the quote asset's remaining balance.
type PerpAllocation struct {
	CollateralPercent float64 `json:"collateral_percent"`
	Leverage          float64 `json:"leverage"`
	IsLong            bool    `json:"is_long"`
	Window            Window  `json:"window,omitempty"`
}

// ClmmAllocation describes a concentrated-liquidity batch entry with
// absolute amounts drawn from both asset balances.
type ClmmAllocation struct {
	AmountA  float64 `json:"amount_a"`
	AmountB  float64 `json:"amount_b"`
	MinPrice float64 `json:"min_price,omitempty"`
	MaxPrice float64 `json:"max_price,omitempty"`
	Window   Window  `json:"window,omitempty"`
}

// BatchItem is one ordered entry of a batch request. Exactly one
// allocation matching Kind must be set.
type BatchItem struct {
	Kind    StrategyKind       `json:"kind"`
	Lending *LendingAllocation `json:"lending,omitempty"`
	Perp    *PerpAllocation    `json:"perp,omitempty"`
	Clmm    *ClmmAllocation    `json:"clmm,omitempty"`
}

// BatchRequest runs several strategies over a shared, mutually
// depleting pool of starting capital. Items are resolved strictly in
// list order before any simulation starts.
type BatchRequest struct {
	Balances map[string]float64 `json:"balances"`
	Items    []BatchItem        `json:"items"`
}
