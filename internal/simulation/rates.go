package simulation

import "defi-backtest-lab/internal/config"

const secondsPerYear = 365 * 24 * 3600

// borrowAPR evaluates a utilization-to-borrow-rate curve by linear
// interpolation between break-points. Utilization outside the curve is
// clamped to its ends.
func borrowAPR(curve []config.RatePoint, utilization float64) float64 {
	if len(curve) == 0 {
		return 0
	}
	if utilization <= curve[0].Utilization {
		return curve[0].BorrowAPR
	}
	last := curve[len(curve)-1]
	if utilization >= last.Utilization {
		return last.BorrowAPR
	}
	for i := 1; i < len(curve); i++ {
		lo, hi := curve[i-1], curve[i]
		if utilization <= hi.Utilization {
			frac := (utilization - lo.Utilization) / (hi.Utilization - lo.Utilization)
			return lo.BorrowAPR + frac*(hi.BorrowAPR-lo.BorrowAPR)
		}
	}
	return last.BorrowAPR
}

// supplyAPR derives the supply-side rate from the borrow rate using
// the money-market relation: suppliers receive the borrow interest on
// the utilized share, net of the protocol reserve factor.
func supplyAPR(borrowAPR, utilization, reserveFactor float64) float64 {
	if utilization <= 0 {
		return 0
	}
	return borrowAPR * utilization * (1 - reserveFactor)
}

// perStepRate converts an annualized rate to the simple rate accrued
// over one sampling interval.
func perStepRate(apr float64, intervalSeconds int) float64 {
	return apr * float64(intervalSeconds) / secondsPerYear
}
