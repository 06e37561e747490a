// Package main runs a batch request from a JSON file against CSV
// datasets and writes the report artifacts: member and equity CSVs
// plus a Markdown summary.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"defi-backtest-lab/internal/batch"
	"defi-backtest-lab/internal/config"
	"defi-backtest-lab/internal/dataset"
	"defi-backtest-lab/internal/domain"
	"defi-backtest-lab/internal/reporting"
	"defi-backtest-lab/internal/simulation"
)

func main() {
	requestPath := flag.String("request", "", "Path to batch request JSON (balances + items)")
	configPath := flag.String("config", "", "Markets YAML config path (built-in defaults when empty)")
	outputDir := flag.String("output-dir", "output", "Output directory for generated files")
	lendingCSV := flag.String("lending-csv", "", "Lending dataset CSV path")
	perpCSV := flag.String("perp-csv", "", "Perp dataset CSV path")
	clmmCSV := flag.String("clmm-csv", "", "CLMM dataset CSV path")
	intervalSeconds := flag.Int("interval-seconds", 86400, "Sampling interval of CSV datasets")
	flag.Parse()

	if *requestPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --request is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("load markets config: %v", err)
	}

	data, err := os.ReadFile(*requestPath)
	if err != nil {
		fatal("read request: %v", err)
	}
	var req domain.BatchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		fatal("decode request: %v", err)
	}

	datasets := make(map[domain.Protocol]*domain.Dataset)
	paths := map[domain.Protocol]string{
		domain.ProtocolLending: *lendingCSV,
		domain.ProtocolPerp:    *perpCSV,
		domain.ProtocolClmm:    *clmmCSV,
	}
	for protocol, path := range paths {
		if path == "" {
			continue
		}
		ds, err := dataset.LoadCSV(path, protocol, *intervalSeconds)
		if err != nil {
			fatal("load %s dataset: %v", protocol, err)
		}
		datasets[protocol] = ds
	}

	orch := batch.NewOrchestrator(batch.Options{
		Engine:   simulation.NewEngine(cfg),
		Datasets: datasets,
	})

	result, err := orch.RunBatch(context.Background(), &req)
	if err != nil {
		fatal("batch run: %v", err)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fatal("create output directory: %v", err)
	}

	report := reporting.BuildReport(result)
	files := map[string]string{
		"members.csv": reporting.RenderMembersCSV(report),
		"equity.csv":  reporting.RenderEquityCSV(report),
		"REPORT.md":   reporting.RenderMarkdown(report),
	}
	for name, content := range files {
		path := filepath.Join(*outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			fatal("write %s: %v", name, err)
		}
		fmt.Printf("Wrote %s\n", path)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
