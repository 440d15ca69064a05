// Package fee implements book fee policies: a signed rate in millionths and
// a flag saying which side of a fill the fee is charged on.
package fee

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Yusufzhafir/clob-sim/pkg/fixedpoint"
)

var ErrInvalidFeePolicy = errors.New("fee: invalid fee policy")

const (
	RatePrecision = 1_000_000
	MaxFeeRate    = 500_000
	MinFeeRate    = -500_000

	usesQuoteBit = 1 << 23
	rateMask     = usesQuoteBit - 1
)

var ratePrecision = big.NewInt(RatePrecision)

// Policy is the decoded form of the contract's packed uint24 fee policy.
type Policy struct {
	usesQuote bool
	rate      int32
}

func New(usesQuote bool, rate int32) (Policy, error) {
	if rate > MaxFeeRate || rate < MinFeeRate {
		return Policy{}, fmt.Errorf("%w: rate %d", ErrInvalidFeePolicy, rate)
	}
	return Policy{usesQuote: usesQuote, rate: rate}, nil
}

// Decode unpacks a uint24 policy: bit 23 is usesQuote, the low bits hold
// rate offset by MaxFeeRate.
func Decode(v uint32) (Policy, error) {
	if v>>24 != 0 {
		return Policy{}, fmt.Errorf("%w: %#x does not fit in 24 bits", ErrInvalidFeePolicy, v)
	}
	return New(v&usesQuoteBit != 0, int32(v&rateMask)-MaxFeeRate)
}

func (p Policy) Encode() uint32 {
	v := uint32(p.rate + MaxFeeRate)
	if p.usesQuote {
		v |= usesQuoteBit
	}
	return v
}

func (p Policy) UsesQuote() bool {
	return p.usesQuote
}

func (p Policy) Rate() int32 {
	return p.rate
}

func (p Policy) String() string {
	side := "base"
	if p.usesQuote {
		side = "quote"
	}
	return fmt.Sprintf("%d/%d on %s", p.rate, RatePrecision, side)
}

// CalculateFee returns the signed fee on amount. A positive rate rounds the
// fee up and a rebate rounds it down; reverseRounding flips both.
func (p Policy) CalculateFee(amount *big.Int, reverseRounding bool) *big.Int {
	positive := p.rate > 0
	absRate := int64(p.rate)
	if !positive {
		absRate = -absRate
	}

	roundUp := positive
	if reverseRounding {
		roundUp = !positive
	}
	fee := fixedpoint.Divide(new(big.Int).Mul(amount, big.NewInt(absRate)), ratePrecision, roundUp)
	if !positive {
		fee.Neg(fee)
	}
	return fee
}

// CalculateOriginalAmount returns the amount before the fee was applied.
// With reverseFee the fee was deducted from the original, otherwise it was
// added on top of it.
func (p Policy) CalculateOriginalAmount(amount *big.Int, reverseFee bool) *big.Int {
	r := int64(p.rate)
	if reverseFee {
		r = -r
	}
	divider := big.NewInt(RatePrecision + r)
	return fixedpoint.Divide(new(big.Int).Mul(amount, ratePrecision), divider, p.rate > 0)
}
