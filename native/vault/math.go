package vault

import (
	"math"
	"math/big"
	"math/bits"
)

var maxUint64 = new(big.Int).SetUint64(math.MaxUint64)

// usdValue prices a collateral amount in USD. amount is in the collateral's
// smallest unit (10^-decimals of a whole unit), price carries 6 implied
// decimals, and the result carries 6 implied decimals. The intermediate
// product is computed at arbitrary precision and narrowed back to uint64;
// narrowing failure is ErrMathOverflow. Division truncates toward zero.
//
// This is the sole pricing routine: every component that needs a collateral
// valuation routes through it.
func usdValue(amount, price uint64, decimals uint8) (uint64, error) {
	value := new(big.Int).SetUint64(amount)
	value.Mul(value, new(big.Int).SetUint64(price))
	value.Quo(value, pow10(decimals))
	return narrowUint64(value)
}

// collateralFromUSD converts a USD amount (6 decimals) back into collateral
// units at the given price, truncating toward zero.
func collateralFromUSD(usd, price uint64, decimals uint8) (uint64, error) {
	if price == 0 {
		return 0, ErrInvalidPrice
	}
	value := new(big.Int).SetUint64(usd)
	value.Mul(value, pow10(decimals))
	value.Quo(value, new(big.Int).SetUint64(price))
	return narrowUint64(value)
}

// ratioBps computes collateralValue * BpsDenominator / debt in a wide
// intermediate. debt must be non-zero.
func ratioBps(collateralValue, debt uint64) (uint64, error) {
	value := new(big.Int).SetUint64(collateralValue)
	value.Mul(value, new(big.Int).SetUint64(BpsDenominator))
	value.Quo(value, new(big.Int).SetUint64(debt))
	return narrowUint64(value)
}

// mulDiv computes a * num / den with an arbitrary-precision intermediate,
// truncating toward zero.
func mulDiv(a, num, den uint64) (uint64, error) {
	if den == 0 {
		return 0, ErrMathOverflow
	}
	value := new(big.Int).SetUint64(a)
	value.Mul(value, new(big.Int).SetUint64(num))
	value.Quo(value, new(big.Int).SetUint64(den))
	return narrowUint64(value)
}

// mulDivCeil is mulDiv with round-up division, floored at a minimum of 1.
// Used for the price-guard bound so tiny prices retain some allowed movement
// and the bound is never stricter than the configured percentage.
func mulDivCeil(a, num, den uint64) (uint64, error) {
	if den == 0 {
		return 0, ErrMathOverflow
	}
	value := new(big.Int).SetUint64(a)
	value.Mul(value, new(big.Int).SetUint64(num))
	value.Add(value, new(big.Int).SetUint64(den-1))
	value.Quo(value, new(big.Int).SetUint64(den))
	out, err := narrowUint64(value)
	if err != nil {
		return 0, err
	}
	if out == 0 {
		out = 1
	}
	return out, nil
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrMathOverflow
	}
	return sum, nil
}

func checkedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrMathOverflow
	}
	return diff, nil
}

func narrowUint64(v *big.Int) (uint64, error) {
	if v.Sign() < 0 || v.Cmp(maxUint64) > 0 {
		return 0, ErrMathOverflow
	}
	return v.Uint64(), nil
}

func pow10(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

func minUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
