package simulation

// Constant-liquidity range math for a two-asset pool where the price
// is quoted as asset B per unit of asset A. Liquidity-from-amounts and
// amounts-from-liquidity are inverse functions of the price and the
// two range bounds, so a position entered at price P withdraws back to
// its original amounts at the same P.

// liquidityForAmountA converts an asset-A amount into liquidity units
// over [sqrtLower, sqrtUpper]. Asset A occupies the part of the range
// above the current price.
func liquidityForAmountA(sqrtLower, sqrtUpper, amountA float64) float64 {
	if sqrtLower > sqrtUpper {
		sqrtLower, sqrtUpper = sqrtUpper, sqrtLower
	}
	if sqrtUpper == sqrtLower {
		return 0
	}
	return amountA * (sqrtLower * sqrtUpper) / (sqrtUpper - sqrtLower)
}

// liquidityForAmountB converts an asset-B amount into liquidity units
// over [sqrtLower, sqrtUpper]. Asset B occupies the part of the range
// below the current price.
func liquidityForAmountB(sqrtLower, sqrtUpper, amountB float64) float64 {
	if sqrtLower > sqrtUpper {
		sqrtLower, sqrtUpper = sqrtUpper, sqrtLower
	}
	if sqrtUpper == sqrtLower {
		return 0
	}
	return amountB / (sqrtUpper - sqrtLower)
}

// amountsForLiquidity returns the asset amounts a position of the
// given liquidity holds at sqrtPrice. Below the range the position is
// entirely asset A, above it entirely asset B.
func amountsForLiquidity(sqrtPrice, sqrtLower, sqrtUpper, liquidity float64) (amountA, amountB float64) {
	if sqrtLower > sqrtUpper {
		sqrtLower, sqrtUpper = sqrtUpper, sqrtLower
	}
	switch {
	case sqrtPrice <= sqrtLower:
		amountA = liquidity * (sqrtUpper - sqrtLower) / (sqrtLower * sqrtUpper)
	case sqrtPrice >= sqrtUpper:
		amountB = liquidity * (sqrtUpper - sqrtLower)
	default:
		amountA = liquidity * (sqrtUpper - sqrtPrice) / (sqrtPrice * sqrtUpper)
		amountB = liquidity * (sqrtPrice - sqrtLower)
	}
	return amountA, amountB
}
