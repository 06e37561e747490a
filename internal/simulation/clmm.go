package simulation

import (
	"math"

	"defi-backtest-lab/internal/domain"
)

// liquidityLeg is one constant-liquidity sub-range of a position. A
// position entered with both assets splits into an asset-A leg above
// the entry price and an asset-B leg below it, so that withdrawing at
// the entry price returns the original amounts exactly.
type liquidityLeg struct {
	liquidity float64
	sqrtLower float64
	sqrtUpper float64
}

// active reports whether the leg earns fees at the given sqrt price.
// The lower bound is inclusive, matching the pool's tick convention.
func (l *liquidityLeg) active(sqrtPrice float64) bool {
	return sqrtPrice >= l.sqrtLower && sqrtPrice < l.sqrtUpper
}

// RunClmm simulates a single-range concentrated-liquidity position
// across the CLMM dataset. While the price stays in range the position
// holds a price-determined mix of both assets and accrues a share of
// the recorded step volume as fees; out of range it is entirely one
// asset and earns nothing until the price re-enters. No liquidation
// concept applies.
func (e *Engine) RunClmm(req *domain.ClmmRequest, ds *domain.Dataset) (*domain.SimulationResult, error) {
	samples, err := ds.Slice(req.Window)
	if err != nil {
		return nil, err
	}
	entryPrice := samples[0].Price
	if err := req.Validate(entryPrice); err != nil {
		return nil, err
	}

	sqrtEntry := math.Sqrt(entryPrice)
	var legs []liquidityLeg
	if req.InitialAmountA > 0 {
		legs = append(legs, liquidityLeg{
			liquidity: liquidityForAmountA(sqrtEntry, math.Sqrt(req.MaxPrice), req.InitialAmountA),
			sqrtLower: sqrtEntry,
			sqrtUpper: math.Sqrt(req.MaxPrice),
		})
	}
	if req.InitialAmountB > 0 {
		legs = append(legs, liquidityLeg{
			liquidity: liquidityForAmountB(math.Sqrt(req.MinPrice), sqrtEntry, req.InitialAmountB),
			sqrtLower: math.Sqrt(req.MinPrice),
			sqrtUpper: sqrtEntry,
		})
	}

	// Effective full range of the position, for the in-range flag.
	minPrice := req.MinPrice
	if req.InitialAmountB == 0 {
		minPrice = entryPrice
	}
	maxPrice := req.MaxPrice
	if req.InitialAmountA == 0 {
		maxPrice = entryPrice
	}

	feesUSD := 0.0
	steps := make([]*domain.ClmmStep, 0, len(samples))

	for i, s := range samples {
		sqrtPrice := math.Sqrt(s.Price)

		var amountA, amountB, activeLiquidity float64
		for _, leg := range legs {
			a, b := amountsForLiquidity(sqrtPrice, leg.sqrtLower, leg.sqrtUpper, leg.liquidity)
			amountA += a
			amountB += b

			if leg.active(sqrtPrice) {
				activeLiquidity += leg.liquidity
				// Fee share is the leg's fraction of total in-range
				// liquidity, the position's own units included.
				if total := s.PoolLiquidity + leg.liquidity; total > 0 {
					feesUSD += s.PoolVolume * e.cfg.ClmmFeeTier * leg.liquidity / total
				}
			}
		}

		positionValue := amountA*s.Price + amountB
		holdValue := req.InitialAmountA*s.Price + req.InitialAmountB

		activePct := 0.0
		if activeLiquidity > 0 && s.PoolLiquidity > 0 {
			activePct = activeLiquidity / (s.PoolLiquidity + activeLiquidity)
		}

		steps = append(steps, &domain.ClmmStep{
			Timestep:           i,
			Price:              s.Price,
			AmountA:            amountA,
			AmountB:            amountB,
			PositionValueUSD:   positionValue,
			FeesUSD:            feesUSD,
			HoldValueUSD:       holdValue,
			ImpermanentLossUSD: positionValue - holdValue,
			ActiveLiquidityPct: activePct,
			InRange:            s.Price >= minPrice && s.Price <= maxPrice,
		})
	}

	result := &domain.SimulationResult{
		Kind:            domain.KindClmm,
		InitialValueUSD: steps[0].HoldValueUSD,
		ClmmSteps:       steps,
	}
	e.summarize(result, ds.IntervalSeconds)
	return result, nil
}
