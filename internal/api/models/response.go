// Package models defines the JSON shapes of the HTTP API.
package models

import (
	"encoding/json"
	"math"

	"defi-backtest-lab/internal/domain"
)

// MaxResponseSteps caps how many step points one response carries.
// Longer sequences are downsampled evenly; the final step is always
// kept so summaries stay consistent with the visible curve.
const MaxResponseSteps = 500

// ErrorDetail is the machine-readable error payload.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an error for JSON transport.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// BacktestResponse is the response for single-strategy runs.
type BacktestResponse struct {
	RequestID string                   `json:"request_id"`
	Result    *domain.SimulationResult `json:"result"`
}

// BatchResponse is the response for batch runs.
type BatchResponse struct {
	RequestID string              `json:"request_id"`
	Result    *domain.BatchResult `json:"result"`
}

// HealthFactorResponse carries a point-in-time health evaluation. A
// position with no debt has an infinite health factor, encoded as
// null.
type HealthFactorResponse struct {
	HealthFactor float64 `json:"health_factor"`
	Liquidatable bool    `json:"liquidatable"`
}

func (r HealthFactorResponse) MarshalJSON() ([]byte, error) {
	type plain HealthFactorResponse
	out := struct {
		plain
		HealthFactor any `json:"health_factor"`
	}{plain: plain(r), HealthFactor: r.HealthFactor}
	if math.IsInf(r.HealthFactor, 1) {
		out.HealthFactor = nil
	}
	return json.Marshal(out)
}

// HistoryEntry is one listed request record. Payload is returned as
// raw JSON rather than bytes.
type HistoryEntry struct {
	RequestID   string `json:"request_id"`
	Kind        string `json:"kind"`
	Payload     any    `json:"payload"`
	CreatedAtMs int64  `json:"created_at_ms"`
}

// HistoryResponse lists persisted requests, newest first.
type HistoryResponse struct {
	Requests []HistoryEntry `json:"requests"`
}

// DownsampleResult trims a simulation result's step sequence to at
// most MaxResponseSteps points. The original result is not modified.
func DownsampleResult(r *domain.SimulationResult) *domain.SimulationResult {
	if r == nil {
		return nil
	}
	out := *r
	out.LendingSteps = downsample(r.LendingSteps)
	out.PerpSteps = downsample(r.PerpSteps)
	out.ClmmSteps = downsample(r.ClmmSteps)
	return &out
}

// DownsampleBatch trims every member result and the combined curve.
func DownsampleBatch(r *domain.BatchResult) *domain.BatchResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Results = make([]*domain.SimulationResult, len(r.Results))
	for i, member := range r.Results {
		out.Results[i] = DownsampleResult(member)
	}
	out.CombinedSteps = downsample(r.CombinedSteps)
	return &out
}

// downsample keeps an even stride of points plus the last one.
func downsample[T any](steps []T) []T {
	n := len(steps)
	if n <= MaxResponseSteps {
		return steps
	}

	stride := (n + MaxResponseSteps - 1) / MaxResponseSteps
	out := make([]T, 0, MaxResponseSteps)
	for i := 0; i < n; i += stride {
		out = append(out, steps[i])
	}
	if (n-1)%stride != 0 {
		out = append(out, steps[n-1])
	}
	return out
}
