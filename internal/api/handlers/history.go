package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"defi-backtest-lab/internal/api/models"
	"defi-backtest-lab/internal/domain"
)

const defaultHistoryLimit = 50

// ListHistory handles GET /api/v1/history.
func (h *BacktestHandler) ListHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.writeError(c, &domain.ValidationError{Field: "limit", Reason: "must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	records, err := h.history.List(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	entries := make([]models.HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, models.HistoryEntry{
			RequestID:   r.RequestID,
			Kind:        r.Kind,
			Payload:     json.RawMessage(r.Payload),
			CreatedAtMs: r.CreatedAtMs,
		})
	}
	c.JSON(http.StatusOK, models.HistoryResponse{Requests: entries})
}

// ReplayHistory handles POST /api/v1/history/:id/replay. The stored
// payload is re-run through the same entry points; results are always
// re-derived, never cached.
func (h *BacktestHandler) ReplayHistory(c *gin.Context) {
	record, err := h.history.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	if record.Kind == "batch" {
		var req domain.BatchRequest
		if err := json.Unmarshal(record.Payload, &req); err != nil {
			h.writeError(c, &domain.ValidationError{Field: "payload", Reason: "stored batch payload is not decodable"})
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
		c.JSON(http.StatusOK, models.BatchResponse{
			RequestID: record.RequestID,
			Result:    models.DownsampleBatch(result),
		})
		return
	}

	var req domain.StrategyRequest
	if err := json.Unmarshal(record.Payload, &req); err != nil {
		h.writeError(c, &domain.ValidationError{Field: "payload", Reason: "stored payload is not decodable"})
		return
	}

	start := time.Now()
	result, err := h.orch.Run(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.observeResult(result, time.Since(start))

	c.JSON(http.StatusOK, models.BacktestResponse{
		RequestID: record.RequestID,
		Result:    models.DownsampleResult(result),
	})
}
