package tick

import (
	"math/big"

	"github.com/Yusufzhafir/clob-sim/pkg/fixedpoint"
)

// BaseToQuote converts a base amount to quote at the price of t.
func BaseToQuote(t Tick, base *big.Int, roundUp bool) (*big.Int, error) {
	price, err := ToPrice(t)
	if err != nil {
		return nil, err
	}
	return fixedpoint.Divide(price.Mul(price, base), fixedpoint.Q96, roundUp), nil
}

// QuoteToBase converts a quote amount to base at the price of t.
func QuoteToBase(t Tick, quote *big.Int, roundUp bool) (*big.Int, error) {
	price, err := ToPrice(t)
	if err != nil {
		return nil, err
	}
	return fixedpoint.Divide(new(big.Int).Lsh(quote, PricePrecision), price, roundUp), nil
}
