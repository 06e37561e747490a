// Package main runs the backtest HTTP API:
// - loads historical datasets (ClickHouse or CSV files)
// - persists request history (PostgreSQL or in-memory)
// - serves simulations, batch runs, health evaluation and replay
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"defi-backtest-lab/internal/api"
	"defi-backtest-lab/internal/batch"
	"defi-backtest-lab/internal/config"
	"defi-backtest-lab/internal/dataset"
	"defi-backtest-lab/internal/domain"
	"defi-backtest-lab/internal/observability"
	"defi-backtest-lab/internal/simulation"
	"defi-backtest-lab/internal/storage"
	chstore "defi-backtest-lab/internal/storage/clickhouse"
	"defi-backtest-lab/internal/storage/memory"
	"defi-backtest-lab/internal/storage/migrations"
	pgstore "defi-backtest-lab/internal/storage/postgres"
)

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", envOr("API_ADDR", ":8080"), "HTTP listen address")
	configPath := flag.String("config", os.Getenv("MARKETS_CONFIG"), "Markets YAML config path (built-in defaults when empty)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string for request history")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for datasets")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of databases")
	lendingCSV := flag.String("lending-csv", os.Getenv("LENDING_CSV"), "Lending dataset CSV path")
	perpCSV := flag.String("perp-csv", os.Getenv("PERP_CSV"), "Perp dataset CSV path")
	clmmCSV := flag.String("clmm-csv", os.Getenv("CLMM_CSV"), "CLMM dataset CSV path")
	intervalSeconds := flag.Int("interval-seconds", 86400, "Sampling interval of CSV datasets")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load markets config: %v", err)
	}

	history, datasetStore, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	datasets, err := loadDatasets(ctx, datasetStore, csvPaths{
		lending: *lendingCSV,
		perp:    *perpCSV,
		clmm:    *clmmCSV,
	}, *intervalSeconds)
	if err != nil {
		logger.Fatalf("Failed to load datasets: %v", err)
	}
	for protocol, ds := range datasets {
		logger.Printf("Loaded %s dataset: %d samples, %ds interval", protocol, ds.Len(), ds.IntervalSeconds)
	}

	metrics := observability.NewMetrics()
	orch := batch.NewOrchestrator(batch.Options{
		Engine:   simulation.NewEngine(cfg),
		Datasets: datasets,
	})

	router := api.NewRouter(orch, history, metrics)
	server := &http.Server{
		Addr:    *addr,
		Handler: cors.Default().Handler(router),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
		cancel()
	}()

	logger.Printf("Starting API server on %s", *addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server error: %v", err)
	}
	logger.Println("Shutdown complete")
}

type csvPaths struct {
	lending, perp, clmm string
}

// createStores wires the request history and dataset stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (storage.RequestHistoryStore, storage.DatasetStore, func(), error) {
	if useMemory {
		return memory.NewRequestHistoryStore(), memory.NewDatasetStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return pgstore.NewRequestHistoryStore(pool), chstore.NewDatasetStore(chConn), cleanup, nil
}

// loadDatasets imports any CSV files given on the command line, then
// loads everything available from the store.
func loadDatasets(ctx context.Context, store storage.DatasetStore, paths csvPaths, intervalSeconds int) (map[domain.Protocol]*domain.Dataset, error) {
	imports := map[domain.Protocol]string{
		domain.ProtocolLending: paths.lending,
		domain.ProtocolPerp:    paths.perp,
		domain.ProtocolClmm:    paths.clmm,
	}
	for protocol, path := range imports {
		if path == "" {
			continue
		}
		_, err := dataset.ImportCSV(ctx, store, path, protocol, intervalSeconds)
		if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			return nil, fmt.Errorf("import %s csv: %w", protocol, err)
		}
	}
	return dataset.LoadFromStore(ctx, store)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
