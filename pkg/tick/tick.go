// Package tick converts between tick indices and Q96 prices with the same
// arithmetic the book manager contract uses. Prices are quote per base.
package tick

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Yusufzhafir/clob-sim/pkg/fixedpoint"
)

var ErrOutOfRange = errors.New("tick: value out of range")

// Tick is a geometric price step: one tick is a factor of 1.0001.
type Tick int32

const (
	PricePrecision = 96

	MaxTick Tick = 1<<19 - 1
	MinTick Tick = -MaxTick

	// Sentinel is the int24 minimum; a matching walk never goes past it.
	Sentinel Tick = -1 << 23

	// 2^32 / ln(1.0001), rounded up
	lnSlope = 42951820407860
)

var (
	MinPrice = mustInt("1350587")
	MaxPrice = mustInt("4647684107270898330752324302845848816923571339324334")

	// 2^192, the reciprocal base for Q96 prices
	q192 = new(big.Int).Lsh(big.NewInt(1), 2*PricePrecision)

	slope = big.NewInt(lnSlope)
)

// ratios[i] is 1.0001^-(2^i) in Q96. Each entry is a protocol constant.
var ratios = [20]*big.Int{
	mustHex("fff97272373d413259a46990"),
	mustHex("fff2e50f5f656932ef12357c"),
	mustHex("ffe5caca7e10e4e61c3624ea"),
	mustHex("ffcb9843d60f6159c9db5883"),
	mustHex("ff973b41fa98c081472e6896"),
	mustHex("ff2ea16466c96a3843ec78b3"),
	mustHex("fe5dee046a99a2a811c461f1"),
	mustHex("fcbe86c7900a88aedcffc83b"),
	mustHex("f987a7253ac413176f2b074c"),
	mustHex("f3392b0822b70005940c7a39"),
	mustHex("e7159475a2c29b7443b29c7f"),
	mustHex("d097f3bdfd2022b8845ad8f7"),
	mustHex("a9f746462d870fdf8a65dc1f"),
	mustHex("70d869a156d2a1b890bb3df6"),
	mustHex("31be135f97d08fd981231505"),
	mustHex("9aa508b5b7a84e1c677de54"),
	mustHex("5d6af8dedb81196699c329"),
	mustHex("2216e584f5fa1ea92604"),
	mustHex("48a170391f7dc42"),
	mustHex("149b34"),
}

func mustInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("tick: bad constant " + s)
	}
	return v
}

func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("tick: bad constant " + s)
	}
	return v
}

func (t Tick) Validate() error {
	if t > MaxTick || t < MinTick {
		return fmt.Errorf("%w: tick %d", ErrOutOfRange, t)
	}
	return nil
}

// Invert maps a tick into the opposite book's tick space.
func (t Tick) Invert() Tick {
	return -t
}

func InvertTick(t Tick) Tick {
	return t.Invert()
}

// ToPrice returns the Q96 price of t.
func ToPrice(t Tick) (*big.Int, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	abs := int64(t)
	if abs < 0 {
		abs = -abs
	}

	var price *big.Int
	if abs&1 != 0 {
		price = new(big.Int).Set(ratios[0])
	} else {
		price = new(big.Int).Set(fixedpoint.Q96)
	}
	for i := 1; i < len(ratios); i++ {
		if abs&(1<<i) != 0 {
			price.Mul(price, ratios[i]).Rsh(price, PricePrecision)
		}
	}

	if t > 0 {
		price.Quo(q192, price)
	}
	return price, nil
}

// MustToPrice is ToPrice for ticks that were validated when the caller was built.
func MustToPrice(t Tick) *big.Int {
	p, err := ToPrice(t)
	if err != nil {
		panic(err)
	}
	return p
}

// FromPrice returns the highest tick whose price does not exceed price.
func FromPrice(price *big.Int) (Tick, error) {
	if price.Cmp(MinPrice) < 0 || price.Cmp(MaxPrice) > 0 {
		return 0, fmt.Errorf("%w: price %s", ErrOutOfRange, price)
	}

	ln, err := fixedpoint.LnWad(price)
	if err != nil {
		return 0, err
	}
	// Quo truncates toward zero like the contract's signed division
	est := ln.Mul(ln, slope)
	est.Quo(est, new(big.Int).Lsh(big.NewInt(1), 128))
	t := Tick(est.Int64())
	if t > MaxTick {
		t = MaxTick
	}

	if MustToPrice(t).Cmp(price) > 0 {
		return t - 1, nil
	}
	return t, nil
}

// InvertPrice returns 2^192 / price, or zero for a zero price.
func InvertPrice(price *big.Int) *big.Int {
	if price.Sign() == 0 {
		return new(big.Int)
	}
	return new(big.Int).Quo(q192, price)
}
