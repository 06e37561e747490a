package simulation

import (
	"math"
	"testing"
)

func TestLiquidityAmountRoundTrip_AssetA(t *testing.T) {
	entry := math.Sqrt(100.0)
	upper := math.Sqrt(150.0)

	liquidity := liquidityForAmountA(entry, upper, 1.0)
	amountA, amountB := amountsForLiquidity(entry, entry, upper, liquidity)

	if math.Abs(amountA-1.0) > 1e-9 {
		t.Errorf("amountA = %v, want 1.0", amountA)
	}
	if amountB != 0 {
		t.Errorf("amountB = %v, want 0", amountB)
	}
}

func TestLiquidityAmountRoundTrip_AssetB(t *testing.T) {
	lower := math.Sqrt(80.0)
	entry := math.Sqrt(100.0)

	liquidity := liquidityForAmountB(lower, entry, 100.0)
	amountA, amountB := amountsForLiquidity(entry, lower, entry, liquidity)

	if amountA != 0 {
		t.Errorf("amountA = %v, want 0", amountA)
	}
	if math.Abs(amountB-100.0) > 1e-9 {
		t.Errorf("amountB = %v, want 100.0", amountB)
	}
}

func TestAmountsForLiquidity_OutOfRange(t *testing.T) {
	lower := math.Sqrt(80.0)
	upper := math.Sqrt(125.0)
	liquidity := 50.0

	// Below the range the position is entirely asset A.
	amountA, amountB := amountsForLiquidity(math.Sqrt(70.0), lower, upper, liquidity)
	if amountA <= 0 || amountB != 0 {
		t.Errorf("below range: got (%v, %v), want (positive, 0)", amountA, amountB)
	}

	// Above the range the position is entirely asset B.
	amountA, amountB = amountsForLiquidity(math.Sqrt(130.0), lower, upper, liquidity)
	if amountA != 0 || amountB <= 0 {
		t.Errorf("above range: got (%v, %v), want (0, positive)", amountA, amountB)
	}
}

func TestAmountsForLiquidity_InsideRange(t *testing.T) {
	lower := math.Sqrt(80.0)
	upper := math.Sqrt(125.0)
	liquidity := 50.0

	amountA, amountB := amountsForLiquidity(math.Sqrt(100.0), lower, upper, liquidity)
	if amountA <= 0 || amountB <= 0 {
		t.Errorf("inside range: got (%v, %v), want both positive", amountA, amountB)
	}
}

func TestLiquidityForAmounts_DegenerateRange(t *testing.T) {
	p := math.Sqrt(100.0)
	if got := liquidityForAmountA(p, p, 1.0); got != 0 {
		t.Errorf("liquidityForAmountA on empty range = %v, want 0", got)
	}
	if got := liquidityForAmountB(p, p, 1.0); got != 0 {
		t.Errorf("liquidityForAmountB on empty range = %v, want 0", got)
	}
}
