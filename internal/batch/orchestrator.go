// Package batch coordinates multi-strategy runs over a shared pool of
// starting capital. Capital is resolved up front by the allocation
// fold, every member is validated before any simulation starts, and
// the independent simulations then run concurrently.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"defi-backtest-lab/internal/allocation"
	"defi-backtest-lab/internal/domain"
	"defi-backtest-lab/internal/metrics"
	"defi-backtest-lab/internal/simulation"
)

// Orchestrator runs single and batch simulations against a fixed set
// of per-protocol datasets. It is safe for concurrent use.
type Orchestrator struct {
	engine   *simulation.Engine
	datasets map[domain.Protocol]*domain.Dataset
	logger   *log.Logger
}

// Options configures an Orchestrator.
type Options struct {
	Engine   *simulation.Engine
	Datasets map[domain.Protocol]*domain.Dataset
	Logger   *log.Logger
}

// NewOrchestrator creates an Orchestrator. A nil engine falls back to
// one with default market configuration.
func NewOrchestrator(opts Options) *Orchestrator {
	engine := opts.Engine
	if engine == nil {
		engine = simulation.NewEngine(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[batch] ", log.LstdFlags)
	}
	return &Orchestrator{
		engine:   engine,
		datasets: opts.Datasets,
		logger:   logger,
	}
}

// Engine returns the underlying simulation engine.
func (o *Orchestrator) Engine() *simulation.Engine {
	return o.engine
}

// Dataset returns the dataset loaded for the given protocol, or a
// DatasetGapError when none is available.
func (o *Orchestrator) Dataset(protocol domain.Protocol) (*domain.Dataset, error) {
	ds, ok := o.datasets[protocol]
	if !ok || ds == nil || len(ds.Samples) == 0 {
		return nil, &domain.DatasetGapError{Protocol: protocol, Requested: 1, Available: 0}
	}
	return ds, nil
}

// Run executes a single strategy request against the dataset matching
// its protocol.
func (o *Orchestrator) Run(ctx context.Context, req *domain.StrategyRequest) (*domain.SimulationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ds, err := o.Dataset(req.Protocol())
	if err != nil {
		return nil, err
	}
	return o.engine.Run(req, ds)
}

// RunBatch resolves capital for every item, validates all members, and
// only then simulates them concurrently. Allocation and validation
// failures reject the whole batch; a dataset gap hit by one member
// after that point fails only that member while its siblings complete.
func (o *Orchestrator) RunBatch(ctx context.Context, req *domain.BatchRequest) (*domain.BatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, &domain.ValidationError{Field: "request", Reason: "must not be nil"}
	}

	cfg := o.engine.Config()
	portfolio := allocation.NewPortfolio(req.Balances)
	resolved, err := allocation.Resolve(portfolio, req.Items, cfg.PrimaryAsset, cfg.QuoteAsset)
	if err != nil {
		return nil, err
	}

	// Every member must be structurally sound before the first
	// simulation starts.
	for i, member := range resolved {
		if err := member.Validate(); err != nil {
			if verr, ok := err.(*domain.ValidationError); ok {
				return nil, &domain.ValidationError{
					Field:  fmt.Sprintf("items[%d].%s", i, verr.Field),
					Reason: verr.Reason,
				}
			}
			return nil, err
		}
	}

	results := make([]*domain.SimulationResult, len(resolved))
	memberErrs := make([]error, len(resolved))

	var wg sync.WaitGroup
	for i, member := range resolved {
		wg.Add(1)
		go func(i int, member *domain.StrategyRequest) {
			defer wg.Done()
			ds, err := o.Dataset(member.Protocol())
			if err != nil {
				memberErrs[i] = err
				return
			}
			result, err := o.engine.Run(member, ds)
			if err != nil {
				memberErrs[i] = err
				return
			}
			results[i] = result
		}(i, member)
	}
	wg.Wait()

	out := &domain.BatchResult{Results: results}
	for i, err := range memberErrs {
		if err == nil {
			continue
		}
		var gap *domain.DatasetGapError
		if !errors.As(err, &gap) {
			// Anything other than a dataset gap at this stage means a
			// member slipped past validation; fail the batch.
			return nil, err
		}
		o.logger.Printf("batch member %d skipped: %v", i, err)
		out.Errors = append(out.Errors, fmt.Sprintf("items[%d]: %v", i, err))
	}

	out.CombinedSteps, out.CombinedSummary = combine(results)
	return out, nil
}

// combine merges successful member curves onto a common timeline. A
// member that ended early (liquidation or a shorter window) holds its
// last equity for the remaining steps.
func combine(results []*domain.SimulationResult) ([]*domain.CombinedStep, domain.SimulationSummary) {
	maxSteps := 0
	initialUSD := 0.0
	var curves [][]domain.Step
	for _, r := range results {
		if r == nil {
			continue
		}
		steps := r.Steps()
		if len(steps) == 0 {
			continue
		}
		if len(steps) > maxSteps {
			maxSteps = len(steps)
		}
		initialUSD += r.InitialValueUSD
		curves = append(curves, steps)
	}
	if maxSteps == 0 {
		return nil, domain.SimulationSummary{}
	}

	combined := make([]*domain.CombinedStep, maxSteps)
	for t := 0; t < maxSteps; t++ {
		equity := 0.0
		for _, steps := range curves {
			if t < len(steps) {
				equity += steps[t].StepEquityUSD()
			} else {
				equity += steps[len(steps)-1].StepEquityUSD()
			}
		}
		combined[t] = &domain.CombinedStep{
			Timestep:  t,
			EquityUSD: equity,
			PnlUSD:    equity - initialUSD,
		}
	}

	view := make([]domain.Step, len(combined))
	for i, s := range combined {
		view[i] = s
	}
	return combined, metrics.ComputeSummary(initialUSD, view, intervalOf(results))
}

func intervalOf(results []*domain.SimulationResult) int {
	for _, r := range results {
		if r != nil && r.IntervalSeconds > 0 {
			return r.IntervalSeconds
		}
	}
	return 0
}
