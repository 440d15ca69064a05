// Package fixedpoint holds the integer primitives the tick and fee math is built on.
// Everything here works on *big.Int and never touches floating point.
package fixedpoint

import (
	"errors"
	"math/big"
)

var ErrUndefined = errors.New("fixedpoint: logarithm of a non-positive value")

var (
	one = big.NewInt(1)

	// Q96 is 2^96, the fixed-point base prices are expressed in.
	Q96 = new(big.Int).Lsh(one, 96)
)

// Divide returns x/y, rounded up when roundUp is set and x is not zero.
func Divide(x, y *big.Int, roundUp bool) *big.Int {
	if roundUp && x.Sign() != 0 {
		r := new(big.Int).Sub(x, one)
		r.Quo(r, y)
		return r.Add(r, one)
	}
	return new(big.Int).Quo(x, y)
}

// Log2 returns the index of the most significant set bit of x.
func Log2(x *big.Int) (int, error) {
	if x.Sign() <= 0 {
		return 0, ErrUndefined
	}
	return x.BitLen() - 1, nil
}

