// Package config holds the market parameters the simulators run with:
// per-asset interest-rate curves, liquidation thresholds, reserve
// factors, the CLMM fee tier and the dataset sampling interval.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"defi-backtest-lab/internal/domain"
)

// RatePoint is one break-point of a utilization-to-borrow-rate curve.
// BorrowAPR is an annualized fraction (0.05 = 5%).
type RatePoint struct {
	Utilization float64 `yaml:"utilization"`
	BorrowAPR   float64 `yaml:"borrow_apr"`
}

// AssetConfig holds per-asset money-market parameters.
type AssetConfig struct {
	LiquidationThreshold float64     `yaml:"liquidation_threshold"`
	ReserveFactor        float64     `yaml:"reserve_factor"`
	RateCurve            []RatePoint `yaml:"rate_curve"`
}

// Markets is the on-disk configuration shape (YAML).
type Markets struct {
	PrimaryAsset    string                 `yaml:"primary_asset"`
	QuoteAsset      string                 `yaml:"quote_asset"`
	IntervalSeconds int                    `yaml:"interval_seconds"`
	ClmmFeeTier     float64                `yaml:"clmm_fee_tier"`
	Assets          map[string]AssetConfig `yaml:"assets"`
}

// Default returns the built-in BNB/USDC market configuration with
// Venus-style kinked rate curves (daily sampling).
func Default() *Markets {
	return &Markets{
		PrimaryAsset:    domain.AssetBNB,
		QuoteAsset:      domain.AssetUSDC,
		IntervalSeconds: 86400,
		ClmmFeeTier:     0.0001,
		Assets: map[string]AssetConfig{
			domain.AssetBNB: {
				LiquidationThreshold: 0.80,
				ReserveFactor:        0.30,
				RateCurve: []RatePoint{
					{Utilization: 0.0, BorrowAPR: 0.0},
					{Utilization: 0.8, BorrowAPR: 0.05},
					{Utilization: 1.0, BorrowAPR: 0.50},
				},
			},
			domain.AssetUSDC: {
				LiquidationThreshold: 0.825,
				ReserveFactor:        0.10,
				RateCurve: []RatePoint{
					{Utilization: 0.0, BorrowAPR: 0.0},
					{Utilization: 0.8, BorrowAPR: 0.06},
					{Utilization: 1.0, BorrowAPR: 1.00},
				},
			},
		},
	}
}

// Load reads and validates a YAML market configuration. Fields left
// empty fall back to the defaults; an empty path returns the defaults
// unchanged.
func Load(path string) (*Markets, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := Default()
	if err := yaml.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("parse market config: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks internal consistency of the configuration.
func (m *Markets) Validate() error {
	if m.PrimaryAsset == "" || m.QuoteAsset == "" || m.PrimaryAsset == m.QuoteAsset {
		return fmt.Errorf("market config: primary and quote assets must be set and distinct")
	}
	if m.IntervalSeconds <= 0 {
		return fmt.Errorf("market config: interval_seconds must be positive")
	}
	if m.ClmmFeeTier < 0 || m.ClmmFeeTier >= 1 {
		return fmt.Errorf("market config: clmm_fee_tier must be within [0, 1)")
	}
	for _, symbol := range []string{m.PrimaryAsset, m.QuoteAsset} {
		asset, ok := m.Assets[symbol]
		if !ok {
			return fmt.Errorf("market config: missing asset parameters for %s", symbol)
		}
		if asset.LiquidationThreshold <= 0 || asset.LiquidationThreshold > 1 {
			return fmt.Errorf("market config: %s liquidation_threshold must be within (0, 1]", symbol)
		}
		if asset.ReserveFactor < 0 || asset.ReserveFactor >= 1 {
			return fmt.Errorf("market config: %s reserve_factor must be within [0, 1)", symbol)
		}
		if err := validateCurve(symbol, asset.RateCurve); err != nil {
			return err
		}
	}
	return nil
}

// validateCurve requires at least two break-points with strictly
// increasing utilization and non-decreasing borrow rate.
func validateCurve(symbol string, curve []RatePoint) error {
	if len(curve) < 2 {
		return fmt.Errorf("market config: %s rate_curve needs at least two break-points", symbol)
	}
	for i, p := range curve {
		if p.Utilization < 0 || p.Utilization > 1 {
			return fmt.Errorf("market config: %s rate_curve utilization must be within [0, 1]", symbol)
		}
		if p.BorrowAPR < 0 {
			return fmt.Errorf("market config: %s rate_curve borrow_apr must not be negative", symbol)
		}
		if i > 0 {
			if p.Utilization <= curve[i-1].Utilization {
				return fmt.Errorf("market config: %s rate_curve utilization must be strictly increasing", symbol)
			}
			if p.BorrowAPR < curve[i-1].BorrowAPR {
				return fmt.Errorf("market config: %s rate_curve borrow_apr must be non-decreasing", symbol)
			}
		}
	}
	return nil
}

// Asset returns the parameters for a configured asset symbol.
func (m *Markets) Asset(symbol string) (AssetConfig, error) {
	asset, ok := m.Assets[symbol]
	if !ok {
		return AssetConfig{}, fmt.Errorf("market config: unknown asset %s", symbol)
	}
	return asset, nil
}
