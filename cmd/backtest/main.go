// Package main runs a single strategy simulation from the command
// line: a JSON strategy request against a CSV dataset, result printed
// as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"defi-backtest-lab/internal/config"
	"defi-backtest-lab/internal/dataset"
	"defi-backtest-lab/internal/domain"
	"defi-backtest-lab/internal/simulation"
)

func main() {
	requestPath := flag.String("request", "", "Path to strategy request JSON (kind + payload)")
	datasetPath := flag.String("dataset", "", "Path to dataset CSV for the request's protocol")
	configPath := flag.String("config", "", "Markets YAML config path (built-in defaults when empty)")
	intervalSeconds := flag.Int("interval-seconds", 86400, "Sampling interval of the CSV dataset")
	output := flag.String("output", "", "Output file (stdout when empty)")
	flag.Parse()

	if *requestPath == "" || *datasetPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --request and --dataset are required")
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
	var req domain.StrategyRequest
	if err := json.Unmarshal(data, &req); err != nil {
		fatal("decode request: %v", err)
	}
	if err := req.Validate(); err != nil {
		fatal("%v", err)
	}

	ds, err := dataset.LoadCSV(*datasetPath, req.Protocol(), *intervalSeconds)
	if err != nil {
		fatal("load dataset: %v", err)
	}

	engine := simulation.NewEngine(cfg)
	result, err := engine.Run(&req, ds)
	if err != nil {
		fatal("simulation: %v", err)
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fatal("encode result: %v", err)
	}

	if *output == "" {
		fmt.Println(string(encoded))
		return
	}
	if err := os.WriteFile(*output, append(encoded, '\n'), 0644); err != nil {
		fatal("write output: %v", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
