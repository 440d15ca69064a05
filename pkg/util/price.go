package util

import (
	"fmt"
	"math/big"

	"github.com/Yusufzhafir/clob-sim/pkg/fixedpoint"
	"github.com/Yusufzhafir/clob-sim/pkg/tick"
	"github.com/shopspring/decimal"
)

const priceDisplayDecimals = 18

var (
	q96 = decimal.NewFromBigInt(fixedpoint.Q96, 0)

	// 2^-96 == 5^96 * 10^-96, so dividing by 2^96 is exact in decimal
	five96 = new(big.Int).Exp(big.NewInt(5), big.NewInt(96), nil)
)

// ParsePrice converts a human price (whole quote per whole base) into a Q96
// raw price, rounded down.
func ParsePrice(s string, quoteDecimals, baseDecimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: price %v", ErrInvalidAmount, err)
	}
	if d.Sign() <= 0 {
		return nil, fmt.Errorf("%w: price %s must be positive", ErrInvalidAmount, s)
	}
	raw := d.Shift(int32(quoteDecimals) - int32(baseDecimals)).Mul(q96)
	return raw.BigInt(), nil
}

// FormatPrice is the exact inverse scaling of ParsePrice.
func FormatPrice(price *big.Int, quoteDecimals, baseDecimals uint8) decimal.Decimal {
	exact := decimal.NewFromBigInt(new(big.Int).Mul(price, five96), -96)
	return exact.Shift(int32(baseDecimals) - int32(quoteDecimals))
}

// FormatTickPrice renders the human price of a tick for display.
func FormatTickPrice(t tick.Tick, quoteDecimals, baseDecimals uint8) (string, error) {
	p, err := tick.ToPrice(t)
	if err != nil {
		return "", err
	}
	return FormatPrice(p, quoteDecimals, baseDecimals).Truncate(priceDisplayDecimals).String(), nil
}

// PriceToTick picks the limit tick for a human price. roundUp selects the
// lowest tick at or above the price instead of the highest tick at or below it.
func PriceToTick(s string, quoteDecimals, baseDecimals uint8, roundUp bool) (tick.Tick, error) {
	p, err := ParsePrice(s, quoteDecimals, baseDecimals)
	if err != nil {
		return 0, err
	}
	t, err := tick.FromPrice(p)
	if err != nil {
		return 0, err
	}
	if roundUp && t < tick.MaxTick && tick.MustToPrice(t).Cmp(p) < 0 {
		t++
	}
	return t, nil
}
