package simulation

import "math"

// Health returns the health factor of a lending configuration at the
// given primary asset price: collateral value discounted by the
// liquidation threshold over borrowed value. It returns +Inf when
// nothing is borrowed and matches the Lending Simulator's step-0
// value exactly, so callers can pre-validate a position before
// committing it to a batch.
func Health(supplyAmount, borrowAmount float64, supplyIsPrimary bool, price, liquidationThreshold float64) float64 {
	supplyValue := supplyAmount
	borrowValue := borrowAmount
	if supplyIsPrimary {
		supplyValue = supplyAmount * price
	} else {
		borrowValue = borrowAmount * price
	}
	if borrowValue == 0 {
		return math.Inf(1)
	}
	return supplyValue * liquidationThreshold / borrowValue
}
