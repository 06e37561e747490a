// Package handlers implements the HTTP endpoints of the backtest API.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"defi-backtest-lab/internal/api/models"
	"defi-backtest-lab/internal/batch"
	"defi-backtest-lab/internal/domain"
	"defi-backtest-lab/internal/idhash"
	"defi-backtest-lab/internal/observability"
	"defi-backtest-lab/internal/simulation"
	"defi-backtest-lab/internal/storage"
)

// BacktestHandler handles simulation requests.
type BacktestHandler struct {
	orch    *batch.Orchestrator
	history storage.RequestHistoryStore
	metrics *observability.Metrics
	logger  *log.Logger
}

// NewBacktestHandler creates a new backtest handler.
func NewBacktestHandler(orch *batch.Orchestrator, history storage.RequestHistoryStore, metrics *observability.Metrics) *BacktestHandler {
	return &BacktestHandler{
		orch:    orch,
		history: history,
		metrics: metrics,
		logger:  log.New(os.Stderr, "[api] ", log.LstdFlags),
	}
}

// RunLending handles POST /api/v1/backtest/lending.
func (h *BacktestHandler) RunLending(c *gin.Context) {
	var req domain.LendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	h.runStrategy(c, &domain.StrategyRequest{Kind: domain.KindLending, Lending: &req})
}

// RunPerp handles POST /api/v1/backtest/perp.
func (h *BacktestHandler) RunPerp(c *gin.Context) {
	var req domain.PerpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	h.runStrategy(c, &domain.StrategyRequest{Kind: domain.KindPerp, Perp: &req})
}

// RunClmm handles POST /api/v1/backtest/clmm.
func (h *BacktestHandler) RunClmm(c *gin.Context) {
	var req domain.ClmmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	h.runStrategy(c, &domain.StrategyRequest{Kind: domain.KindClmm, Clmm: &req})
}

// RunBatch handles POST /api/v1/backtest/batch.
func (h *BacktestHandler) RunBatch(c *gin.Context) {
	var req domain.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	start := time.Now()
	result, err := h.orch.RunBatch(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.metrics.BatchesTotal.Inc()
	for _, member := range result.Results {
		if member != nil {
			h.metrics.BatchMembersTotal.Inc()
			h.observeResult(member, time.Since(start))
		}
	}

	requestID := h.record(c, "batch", &req)
	c.JSON(http.StatusOK, models.BatchResponse{
		RequestID: requestID,
		Result:    models.DownsampleBatch(result),
	})
}

// HealthFactor handles POST /api/v1/health-factor. It evaluates a
// hypothetical position at a given price without touching datasets.
func (h *BacktestHandler) HealthFactor(c *gin.Context) {
	var req models.HealthFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	if req.SupplyAmount <= 0 || req.BorrowAmount < 0 || req.Price <= 0 {
		h.writeError(c, &domain.ValidationError{Field: "health_factor", Reason: "amounts and price must be positive"})
		return
	}

	threshold := req.LiquidationThreshold
	if threshold <= 0 {
		cfg := h.orch.Engine().Config()
		supplySymbol := cfg.QuoteAsset
		if req.SupplyIsPrimary {
			supplySymbol = cfg.PrimaryAsset
		}
		asset, err := cfg.Asset(supplySymbol)
		if err != nil {
			h.writeError(c, err)
			return
		}
		threshold = asset.LiquidationThreshold
	}
	if threshold > 1 {
		h.writeError(c, &domain.ValidationError{Field: "liquidation_threshold", Reason: "must be within (0, 1]"})
		return
	}

	hf := simulation.Health(req.SupplyAmount, req.BorrowAmount, req.SupplyIsPrimary, req.Price, threshold)
	c.JSON(http.StatusOK, models.HealthFactorResponse{
		HealthFactor: hf,
		Liquidatable: hf <= 1,
	})
}

// runStrategy executes a single-strategy request and writes the
// response.
func (h *BacktestHandler) runStrategy(c *gin.Context, req *domain.StrategyRequest) {
	start := time.Now()
	result, err := h.orch.Run(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.observeResult(result, time.Since(start))

	requestID := h.record(c, string(req.Kind), req)
	c.JSON(http.StatusOK, models.BacktestResponse{
		RequestID: requestID,
		Result:    models.DownsampleResult(result),
	})
}

// record persists the request payload for history and replay. Storage
// failures are logged, not surfaced; the simulation already succeeded.
func (h *BacktestHandler) record(c *gin.Context, kind string, payload any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Printf("marshal %s request for history: %v", kind, err)
		return ""
	}

	createdAt := time.Now().UnixMilli()
	requestID := idhash.ComputeRequestID(kind, createdAt, data)

	err = h.history.Insert(c.Request.Context(), &domain.RequestRecord{
		RequestID:   requestID,
		Kind:        kind,
		Payload:     data,
		CreatedAtMs: createdAt,
	})
	if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		h.logger.Printf("persist %s request %s: %v", kind, requestID, err)
	}
	return requestID
}

func (h *BacktestHandler) observeResult(result *domain.SimulationResult, elapsed time.Duration) {
	strategy := string(result.Kind)
	h.metrics.SimulationDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())

	outcome := "completed"
	if resultLiquidated(result) {
		outcome = "liquidated"
		h.metrics.LiquidationsTotal.WithLabelValues(strategy).Inc()
	}
	h.metrics.SimulationsTotal.WithLabelValues(strategy, outcome).Inc()
}

// resultLiquidated reports whether the run ended in liquidation.
func resultLiquidated(result *domain.SimulationResult) bool {
	switch result.Kind {
	case domain.KindLending:
		n := len(result.LendingSteps)
		return n > 0 && result.LendingSteps[n-1].Liquidated
	case domain.KindPerp:
		n := len(result.PerpSteps)
		return n > 0 && result.PerpSteps[n-1].Liquidated
	}
	return false
}

func (h *BacktestHandler) bindError(c *gin.Context, err error) {
	h.metrics.ValidationErrorsTotal.Inc()
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
	})
}

// writeError maps domain and storage errors to HTTP statuses.
func (h *BacktestHandler) writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		h.metrics.ValidationErrorsTotal.Inc()
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "VALIDATION_ERROR", Message: verr.Error()},
		})
		return
	}

	var gap *domain.DatasetGapError
	if errors.As(err, &gap) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "DATASET_GAP", Message: gap.Error()},
		})
		return
	}

	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: err.Error()},
		})
		return
	}

	h.logger.Printf("internal error: %v", err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: "an unexpected error occurred"},
	})
}
