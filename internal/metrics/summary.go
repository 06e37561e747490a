// Package metrics reduces step sequences to headline summaries.
package metrics

import "defi-backtest-lab/internal/domain"

const secondsPerDay = 86400

// ComputeSummary reduces a completed step sequence to its summary.
// ROI is relative to the initial position value; APY annualizes ROI
// over the elapsed wall-clock span of the sequence.
func ComputeSummary(initialUSD float64, steps []domain.Step, intervalSeconds int) domain.SimulationSummary {
	n := len(steps)
	if n == 0 {
		return domain.SimulationSummary{}
	}

	finalEquity := steps[n-1].StepEquityUSD()
	pnl := finalEquity - initialUSD

	roi := 0.0
	if initialUSD != 0 {
		roi = pnl / initialUSD * 100
	}

	durationDays := float64((n-1)*intervalSeconds) / secondsPerDay

	equity := make([]float64, n)
	for i, s := range steps {
		equity[i] = s.StepEquityUSD()
	}

	return domain.SimulationSummary{
		FinalEquityUSD: finalEquity,
		FinalPnlUSD:    pnl,
		ROIPercentage:  roi,
		APYPercentage:  Annualize(roi, durationDays),
		MaxDrawdownUSD: MaxDrawdown(equity),
		StepsCount:     n,
	}
}

// Annualize scales a period ROI to a 365-day year. A zero-length
// period annualizes to zero.
func Annualize(roiPct, durationDays float64) float64 {
	if durationDays <= 0 {
		return 0
	}
	return roiPct / durationDays * 365
}

// MaxDrawdown returns the worst peak-to-trough decline of an equity
// curve, in USD. The curve must be in chronological order.
func MaxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}

	peak := equity[0]
	maxDrawdown := 0.0
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if drawdown := peak - v; drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}
	return maxDrawdown
}
