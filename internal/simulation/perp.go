package simulation

import "defi-backtest-lab/internal/domain"

// RunPerp simulates a leveraged linear perpetual position across the
// perp dataset. PnL scales linearly with the price move from entry;
// the position is liquidated when equity reaches zero (full loss of
// margin), after which no further steps are produced. No funding-rate
// or fee model is applied.
func (e *Engine) RunPerp(req *domain.PerpRequest, ds *domain.Dataset) (*domain.SimulationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	samples, err := ds.Slice(req.Window)
	if err != nil {
		return nil, err
	}

	entryPrice := samples[0].Price
	if entryPrice <= 0 {
		return nil, &domain.ValidationError{Field: "dataset", Reason: "entry price must be positive"}
	}

	direction := 1.0
	liquidationPrice := entryPrice * (1 - 1/req.Leverage)
	if !req.IsLong {
		direction = -1.0
		liquidationPrice = entryPrice * (1 + 1/req.Leverage)
	}

	notional := req.InitialCollateral * req.Leverage
	positionSize := notional / entryPrice

	steps := make([]*domain.PerpStep, 0, len(samples))
	for i, s := range samples {
		pnl := notional * (s.Price/entryPrice - 1) * direction
		equity := req.InitialCollateral + pnl

		step := &domain.PerpStep{
			Timestep:         i,
			Price:            s.Price,
			UnrealizedPnlUSD: pnl,
			EquityUSD:        equity,
			PositionSize:     positionSize,
			LiquidationPrice: liquidationPrice,
		}

		if equity <= 0 {
			step.EquityUSD = 0
			step.UnrealizedPnlUSD = -req.InitialCollateral
			step.Liquidated = true
			steps = append(steps, step)
			break
		}
		steps = append(steps, step)
	}

	result := &domain.SimulationResult{
		Kind:            domain.KindPerp,
		InitialValueUSD: req.InitialCollateral,
		PerpSteps:       steps,
	}
	e.summarize(result, ds.IntervalSeconds)
	return result, nil
}
