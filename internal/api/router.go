// Package api assembles the HTTP routing layer.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"defi-backtest-lab/internal/api/handlers"
	"defi-backtest-lab/internal/batch"
	"defi-backtest-lab/internal/observability"
	"defi-backtest-lab/internal/storage"
)

// NewRouter builds the gin engine with all API routes registered.
func NewRouter(orch *batch.Orchestrator, history storage.RequestHistoryStore, metrics *observability.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	handler := handlers.NewBacktestHandler(orch, history, metrics)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/backtest/lending", handler.RunLending)
		v1.POST("/backtest/perp", handler.RunPerp)
		v1.POST("/backtest/clmm", handler.RunClmm)
		v1.POST("/backtest/batch", handler.RunBatch)

		v1.POST("/health-factor", handler.HealthFactor)

		v1.GET("/history", handler.ListHistory)
		v1.POST("/history/:id/replay", handler.ReplayHistory)
	}

	return router
}
