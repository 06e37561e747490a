// Package simulation implements the three strategy simulators. Each
// run is a pure, synchronous computation over an immutable dataset:
// all inputs are supplied up front, no step reads beyond the sample at
// its own timestep, and re-running an identical request yields an
// identical step sequence.
package simulation

import (
	"defi-backtest-lab/internal/config"
	"defi-backtest-lab/internal/domain"
	"defi-backtest-lab/internal/metrics"
)

// Engine runs strategy simulations with a fixed market configuration.
// An Engine is immutable and safe for concurrent use.
type Engine struct {
	cfg *config.Markets
}

// NewEngine creates an Engine. A nil configuration falls back to the
// built-in defaults.
func NewEngine(cfg *config.Markets) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine's market configuration.
func (e *Engine) Config() *config.Markets {
	return e.cfg
}

// Run dispatches a tagged strategy request to its simulator. The
// dataset protocol must match the request kind.
func (e *Engine) Run(req *domain.StrategyRequest, ds *domain.Dataset) (*domain.SimulationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if ds == nil || ds.Protocol != req.Protocol() {
		return nil, &domain.ValidationError{Field: "dataset", Reason: "dataset protocol does not match strategy kind"}
	}
	switch req.Kind {
	case domain.KindLending:
		return e.RunLending(req.Lending, ds)
	case domain.KindPerp:
		return e.RunPerp(req.Perp, ds)
	default:
		return e.RunClmm(req.Clmm, ds)
	}
}

// summarize fills in the result summary from the common step view.
func (e *Engine) summarize(result *domain.SimulationResult, intervalSeconds int) {
	result.IntervalSeconds = intervalSeconds
	result.Summary = metrics.ComputeSummary(result.InitialValueUSD, result.Steps(), intervalSeconds)
}
