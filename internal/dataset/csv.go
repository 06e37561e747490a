// Package dataset loads historical sample series from CSV files and
// dataset stores.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"defi-backtest-lab/internal/domain"
)

// CSV column names. The price column is required; the rest default to
// zero when absent, matching the per-protocol sample shape.
const (
	colTimestep          = "timestep"
	colPrice             = "price"
	colUtilizationSupply = "utilization_supply"
	colUtilizationBorrow = "utilization_borrow"
	colPoolLiquidity     = "pool_liquidity"
	colPoolVolume        = "pool_volume"
)

// LoadCSV reads a dataset from a CSV file with a header row. Rows must
// be in chronological order; an absent timestep column numbers rows
// from zero.
func LoadCSV(path string, protocol domain.Protocol, intervalSeconds int) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset csv: %w", err)
	}
	defer f.Close()

	ds, err := ReadCSV(f, protocol, intervalSeconds)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ds, nil
}

// ReadCSV parses CSV dataset content from a reader.
func ReadCSV(r io.Reader, protocol domain.Protocol, intervalSeconds int) (*domain.Dataset, error) {
	if intervalSeconds <= 0 {
		return nil, fmt.Errorf("interval seconds must be positive")
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols[colPrice]; !ok {
		return nil, fmt.Errorf("csv header missing %q column", colPrice)
	}

	var samples []domain.HistoricalSample
	for row := 0; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row+1, err)
		}

		sample := domain.HistoricalSample{Timestep: row}
		if idx, ok := cols[colTimestep]; ok && record[idx] != "" {
			ts, err := strconv.Atoi(strings.TrimSpace(record[idx]))
			if err != nil {
				return nil, fmt.Errorf("row %d: parse timestep: %w", row+1, err)
			}
			sample.Timestep = ts
		}

		fields := []struct {
			name string
			dst  *float64
		}{
			{colPrice, &sample.Price},
			{colUtilizationSupply, &sample.UtilizationSupply},
			{colUtilizationBorrow, &sample.UtilizationBorrow},
			{colPoolLiquidity, &sample.PoolLiquidity},
			{colPoolVolume, &sample.PoolVolume},
		}
		for _, field := range fields {
			idx, ok := cols[field.name]
			if !ok || strings.TrimSpace(record[idx]) == "" {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: parse %s: %w", row+1, field.name, err)
			}
			*field.dst = v
		}

		if sample.Price <= 0 {
			return nil, fmt.Errorf("row %d: price must be positive", row+1)
		}
		samples = append(samples, sample)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}
	for i, sample := range samples {
		if sample.Timestep != i {
			return nil, fmt.Errorf("row %d: timestep %d out of sequence", i+1, sample.Timestep)
		}
	}

	return &domain.Dataset{
		Protocol:        protocol,
		IntervalSeconds: intervalSeconds,
		Samples:         samples,
	}, nil
}
