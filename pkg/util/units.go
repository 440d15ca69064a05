package util

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ParseUnits turns a human amount like "1.5" into raw token units.
// Amounts with more fractional digits than the token has are rejected.
func ParseUnits(s string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if d.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, s)
	}
	raw := d.Shift(int32(decimals))
	if !raw.IsInteger() {
		return nil, fmt.Errorf("%w: %s has more than %d decimals", ErrInvalidAmount, s, decimals)
	}
	return raw.BigInt(), nil
}

func FormatUnits(amount *big.Int, decimals uint8) string {
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}
