package domain

// SimulationSummary reduces a completed step sequence to headline
// metrics. APY annualizes ROI over the elapsed wall-clock span of the
// simulated window (steps × sampling interval).
type SimulationSummary struct {
	FinalEquityUSD float64 `json:"final_equity_usd"`
	FinalPnlUSD    float64 `json:"final_pnl_usd"`
	ROIPercentage  float64 `json:"roi_percentage"`
	APYPercentage  float64 `json:"apy_percentage"`
	MaxDrawdownUSD float64 `json:"max_drawdown_usd"`
	StepsCount     int     `json:"steps_count"`
}

// SimulationResult is the full outcome of one strategy run: the
// protocol-specific step sequence plus its summary. Only the step
// slice matching Kind is populated.
type SimulationResult struct {
	Kind            StrategyKind      `json:"strategy"`
	InitialValueUSD float64           `json:"initial_value_usd"`
	IntervalSeconds int               `json:"interval_seconds"`
	LendingSteps    []*LendingStep    `json:"lending_steps,omitempty"`
	PerpSteps       []*PerpStep       `json:"perp_steps,omitempty"`
	ClmmSteps       []*ClmmStep       `json:"clmm_steps,omitempty"`
	Summary         SimulationSummary `json:"summary"`
}

// Steps returns the step sequence through the common Step view.
func (r *SimulationResult) Steps() []Step {
	switch r.Kind {
	case KindLending:
		steps := make([]Step, len(r.LendingSteps))
		for i, s := range r.LendingSteps {
			steps[i] = s
		}
		return steps
	case KindPerp:
		steps := make([]Step, len(r.PerpSteps))
		for i, s := range r.PerpSteps {
			steps[i] = s
		}
		return steps
	case KindClmm:
		steps := make([]Step, len(r.ClmmSteps))
		for i, s := range r.ClmmSteps {
			steps[i] = s
		}
		return steps
	}
	return nil
}

// CombinedStep is one point of the merged batch equity curve on the
// common timeline index.
type CombinedStep struct {
	Timestep  int     `json:"timestep"`
	EquityUSD float64 `json:"equity_usd"`
	PnlUSD    float64 `json:"pnl_usd"`
}

func (s *CombinedStep) StepIndex() int         { return s.Timestep }
func (s *CombinedStep) StepEquityUSD() float64 { return s.EquityUSD }

// BatchResult aggregates a batch run. Results is index-aligned with
// the batch items; a member that failed past the allocation stage
// leaves a nil entry and a message in Errors.
type BatchResult struct {
	Results         []*SimulationResult `json:"results"`
	CombinedSteps   []*CombinedStep     `json:"combined_steps"`
	CombinedSummary SimulationSummary   `json:"combined_summary"`
	Errors          []string            `json:"errors,omitempty"`
}

// RequestRecord is a persisted request payload. Replays re-run the
// stored payload through the same entry points, re-deriving results
// rather than caching them.
type RequestRecord struct {
	RequestID   string `json:"request_id"`
	Kind        string `json:"kind"`
	Payload     []byte `json:"payload"`
	CreatedAtMs int64  `json:"created_at_ms"`
}
