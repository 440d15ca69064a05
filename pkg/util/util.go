package util

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
)

var ErrInvalidAmount = errors.New("invalid amount")

// StringToBigInt parses an unsigned decimal or 0x-prefixed hex string of at most 256 bits.
func StringToBigInt(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	v, ok := math.ParseBig256(s)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q is not an unsigned 256-bit integer", ErrInvalidAmount, s)
	}
	return v, nil
}
