package domain

// StrategyKind discriminates the supported strategy types.
type StrategyKind string

// Strategy kinds.
const (
	KindLending StrategyKind = "lending"
	KindPerp    StrategyKind = "perp"
	KindClmm    StrategyKind = "clmm"
)

// Perp leverage bounds.
const (
	MinLeverage = 1.0
	MaxLeverage = 20.0
)

// LendingRequest opens a supply/borrow position on the money market.
// Supply is in one asset, borrow in the other; SupplyIsPrimary selects
// which side holds the primary (volatile) asset.
type LendingRequest struct {
	SupplyAmount    float64 `json:"supply_amount"`
	BorrowAmount    float64 `json:"borrow_amount"`
	SupplyIsPrimary bool    `json:"supply_is_primary_asset"`
	Window          Window  `json:"window,omitempty"`
}

// Validate checks structural consistency.
func (r *LendingRequest) Validate() error {
	if r.SupplyAmount <= 0 {
		return &ValidationError{Field: "supply_amount", Reason: "must be positive"}
	}
	if r.BorrowAmount < 0 {
		return &ValidationError{Field: "borrow_amount", Reason: "must not be negative"}
	}
	return nil
}

// PerpRequest opens a leveraged linear perpetual futures position
// collateralized in the quote asset.
type PerpRequest struct {
	InitialCollateral float64 `json:"initial_collateral"`
	Leverage          float64 `json:"leverage"`
	IsLong            bool    `json:"is_long"`
	Window            Window  `json:"window,omitempty"`
}

// Validate checks structural consistency.
func (r *PerpRequest) Validate() error {
	if r.InitialCollateral <= 0 {
		return &ValidationError{Field: "initial_collateral", Reason: "must be positive"}
	}
	if r.Leverage < MinLeverage || r.Leverage > MaxLeverage {
		return &ValidationError{Field: "leverage", Reason: "must be within [1, 20]"}
	}
	return nil
}

// ClmmRequest opens a single-range concentrated-liquidity position.
// AmountA is the primary asset, AmountB the quote asset. MinPrice is
// required iff AmountB > 0, MaxPrice iff AmountA > 0; both bounds, if
// present, must bracket the entry price.
type ClmmRequest struct {
	InitialAmountA float64 `json:"initial_amount_a"`
	InitialAmountB float64 `json:"initial_amount_b"`
	MinPrice       float64 `json:"min_price,omitempty"`
	MaxPrice       float64 `json:"max_price,omitempty"`
	Window         Window  `json:"window,omitempty"`
}

// Validate checks structural and economic consistency against the
// entry price (the dataset price at the position's first step).
func (r *ClmmRequest) Validate(entryPrice float64) error {
	if r.InitialAmountA < 0 || r.InitialAmountB < 0 {
		return &ValidationError{Field: "initial_amounts", Reason: "must not be negative"}
	}
	if r.InitialAmountA == 0 && r.InitialAmountB == 0 {
		return &ValidationError{Field: "initial_amounts", Reason: "at least one amount must be positive"}
	}
	if r.InitialAmountB > 0 && r.MinPrice <= 0 {
		return &ValidationError{Field: "min_price", Reason: "required when initial_amount_b > 0"}
	}
	if r.InitialAmountA > 0 && r.MaxPrice <= 0 {
		return &ValidationError{Field: "max_price", Reason: "required when initial_amount_a > 0"}
	}
	if r.MinPrice > 0 && r.MinPrice >= entryPrice {
		return &ValidationError{Field: "min_price", Reason: "must be below the current price"}
	}
	if r.MaxPrice > 0 && r.MaxPrice <= entryPrice {
		return &ValidationError{Field: "max_price", Reason: "must be above the current price"}
	}
	return nil
}

// StrategyRequest is the tagged variant over the three request types.
// Exactly one payload matching Kind must be set.
type StrategyRequest struct {
	Kind    StrategyKind    `json:"kind"`
	Lending *LendingRequest `json:"lending,omitempty"`
	Perp    *PerpRequest    `json:"perp,omitempty"`
	Clmm    *ClmmRequest    `json:"clmm,omitempty"`
}

// Protocol returns the dataset protocol the request runs against.
func (r *StrategyRequest) Protocol() Protocol {
	switch r.Kind {
	case KindLending:
		return ProtocolLending
	case KindPerp:
		return ProtocolPerp
	case KindClmm:
		return ProtocolClmm
	}
	return ""
}

// Validate checks that Kind matches exactly one payload.
func (r *StrategyRequest) Validate() error {
	set := 0
	if r.Lending != nil {
		set++
	}
	if r.Perp != nil {
		set++
	}
	if r.Clmm != nil {
		set++
	}
	if set != 1 {
		return &ValidationError{Field: "kind", Reason: "exactly one strategy payload must be set"}
	}
	switch r.Kind {
	case KindLending:
		if r.Lending == nil {
			return &ValidationError{Field: "lending", Reason: "payload missing for kind"}
		}
	case KindPerp:
		if r.Perp == nil {
			return &ValidationError{Field: "perp", Reason: "payload missing for kind"}
		}
	case KindClmm:
		if r.Clmm == nil {
			return &ValidationError{Field: "clmm", Reason: "payload missing for kind"}
		}
	default:
		return &ValidationError{Field: "kind", Reason: "unknown strategy kind"}
	}
	return nil
}
