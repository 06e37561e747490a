// Package allocation resolves the capital each entry of an ordered
// batch receives from a shared starting pool. Resolution is an
// explicit fold over the item list: percentage draws shrink the
// asset's remaining balance multiplicatively, absolute draws subtract
// from it, and borrow amounts from earlier lending entries credit the
// borrowed asset's balance for every later entry. Balances are held
// as decimals to keep repeated percentage draws exact.
package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"defi-backtest-lab/internal/domain"
)

// Portfolio maps an asset symbol to its remaining pool balance during
// resolution. It exists only at allocation time and is never touched
// by simulators.
type Portfolio map[string]decimal.Decimal

// NewPortfolio builds a portfolio from user-declared base balances.
func NewPortfolio(balances map[string]float64) Portfolio {
	p := make(Portfolio, len(balances))
	for symbol, balance := range balances {
		p[symbol] = decimal.NewFromFloat(balance)
	}
	return p
}

// Resolve walks items strictly in list order and returns one fully
// resolved strategy request per item. Any inconsistency (an unknown
// kind, a percentage outside (0, 1], an absolute draw exceeding the
// remaining balance) rejects the whole batch with a ValidationError
// before any simulation starts.
func Resolve(p Portfolio, items []domain.BatchItem, primaryAsset, quoteAsset string) ([]*domain.StrategyRequest, error) {
	if len(items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "batch must contain at least one item"}
	}

	// Fold over a local copy; the caller's portfolio stays untouched.
	remaining := make(Portfolio, len(p))
	for symbol, balance := range p {
		remaining[symbol] = balance
	}

	resolved := make([]*domain.StrategyRequest, 0, len(items))
	for i, item := range items {
		req, err := resolveItem(remaining, item, primaryAsset, quoteAsset)
		if err != nil {
			if verr, ok := err.(*domain.ValidationError); ok {
				return nil, &domain.ValidationError{
					Field:  fmt.Sprintf("items[%d].%s", i, verr.Field),
					Reason: verr.Reason,
				}
			}
			return nil, err
		}
		resolved = append(resolved, req)
	}
	return resolved, nil
}

func resolveItem(remaining Portfolio, item domain.BatchItem, primaryAsset, quoteAsset string) (*domain.StrategyRequest, error) {
	switch item.Kind {
	case domain.KindLending:
		if item.Lending == nil {
			return nil, &domain.ValidationError{Field: "lending", Reason: "payload missing for kind"}
		}
		return resolveLending(remaining, item.Lending, primaryAsset, quoteAsset)
	case domain.KindPerp:
		if item.Perp == nil {
			return nil, &domain.ValidationError{Field: "perp", Reason: "payload missing for kind"}
		}
		return resolvePerp(remaining, item.Perp, quoteAsset)
	case domain.KindClmm:
		if item.Clmm == nil {
			return nil, &domain.ValidationError{Field: "clmm", Reason: "payload missing for kind"}
		}
		return resolveClmm(remaining, item.Clmm, primaryAsset, quoteAsset)
	default:
		return nil, &domain.ValidationError{Field: "kind", Reason: "unknown strategy kind"}
	}
}

func resolveLending(remaining Portfolio, alloc *domain.LendingAllocation, primaryAsset, quoteAsset string) (*domain.StrategyRequest, error) {
	supplyAsset, borrowAsset := quoteAsset, primaryAsset
	if alloc.SupplyIsPrimary {
		supplyAsset, borrowAsset = primaryAsset, quoteAsset
	}

	supply, err := drawPercent(remaining, supplyAsset, alloc.SupplyPercent)
	if err != nil {
		return nil, err
	}
	if alloc.BorrowAmount < 0 {
		return nil, &domain.ValidationError{Field: "borrow_amount", Reason: "must not be negative"}
	}

	// Borrowed capital augments what later entries can draw from.
	remaining[borrowAsset] = remaining[borrowAsset].Add(decimal.NewFromFloat(alloc.BorrowAmount))

	return &domain.StrategyRequest{
		Kind: domain.KindLending,
		Lending: &domain.LendingRequest{
			SupplyAmount:    supply.InexactFloat64(),
			BorrowAmount:    alloc.BorrowAmount,
			SupplyIsPrimary: alloc.SupplyIsPrimary,
			Window:          alloc.Window,
		},
	}, nil
}

func resolvePerp(remaining Portfolio, alloc *domain.PerpAllocation, quoteAsset string) (*domain.StrategyRequest, error) {
	collateral, err := drawPercent(remaining, quoteAsset, alloc.CollateralPercent)
	if err != nil {
		return nil, err
	}
	return &domain.StrategyRequest{
		Kind: domain.KindPerp,
		Perp: &domain.PerpRequest{
			InitialCollateral: collateral.InexactFloat64(),
			Leverage:          alloc.Leverage,
			IsLong:            alloc.IsLong,
			Window:            alloc.Window,
		},
	}, nil
}

func resolveClmm(remaining Portfolio, alloc *domain.ClmmAllocation, primaryAsset, quoteAsset string) (*domain.StrategyRequest, error) {
	if err := drawAbsolute(remaining, primaryAsset, alloc.AmountA); err != nil {
		return nil, err
	}
	if err := drawAbsolute(remaining, quoteAsset, alloc.AmountB); err != nil {
		return nil, err
	}
	return &domain.StrategyRequest{
		Kind: domain.KindClmm,
		Clmm: &domain.ClmmRequest{
			InitialAmountA: alloc.AmountA,
			InitialAmountB: alloc.AmountB,
			MinPrice:       alloc.MinPrice,
			MaxPrice:       alloc.MaxPrice,
			Window:         alloc.Window,
		},
	}, nil
}

// drawPercent takes a fraction of the asset's remaining balance and
// shrinks the balance by the same fraction for subsequent entries.
func drawPercent(remaining Portfolio, asset string, percent float64) (decimal.Decimal, error) {
	if percent <= 0 || percent > 1 {
		return decimal.Zero, &domain.ValidationError{Field: "percent", Reason: "must be within (0, 1]"}
	}
	pct := decimal.NewFromFloat(percent)
	amount := remaining[asset].Mul(pct)
	remaining[asset] = remaining[asset].Sub(amount)
	return amount, nil
}

// drawAbsolute subtracts an exact amount. A draw exceeding the
// remaining balance is a validation error, never a silent clamp.
func drawAbsolute(remaining Portfolio, asset string, amount float64) error {
	if amount < 0 {
		return &domain.ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if amount == 0 {
		return nil
	}
	d := decimal.NewFromFloat(amount)
	if d.GreaterThan(remaining[asset]) {
		return &domain.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("draw of %s %s exceeds remaining balance %s", d, asset, remaining[asset]),
		}
	}
	remaining[asset] = remaining[asset].Sub(d)
	return nil
}
