package fee

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func mustPolicy(t *testing.T, usesQuote bool, rate int32) Policy {
	t.Helper()
	p, err := New(usesQuote, rate)
	require.NoError(t, err)
	return p
}

func TestNewRejectsRateOutOfBounds(t *testing.T) {
	_, err := New(true, MaxFeeRate+1)
	assert.ErrorIs(t, err, ErrInvalidFeePolicy)
	_, err = New(false, MinFeeRate-1)
	assert.ErrorIs(t, err, ErrInvalidFeePolicy)

	_, err = New(true, MaxFeeRate)
	assert.NoError(t, err)
	_, err = New(false, MinFeeRate)
	assert.NoError(t, err)
}

func TestEncode(t *testing.T) {
	cases := []struct {
		usesQuote bool
		rate      int32
		want      uint32
	}{
		{true, 100, 0x87a184},
		{false, -200, 0x7a058},
		{true, 0, 0x87a120},
		{true, MaxFeeRate, 0x8f4240},
		{false, MinFeeRate, 0x0},
	}
	for _, c := range cases {
		p := mustPolicy(t, c.usesQuote, c.rate)
		assert.Equal(t, c.want, p.Encode(), "policy %s", p)

		back, err := Decode(c.want)
		require.NoError(t, err)
		assert.Equal(t, p, back)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(1 << 24)
	assert.ErrorIs(t, err, ErrInvalidFeePolicy)
	// rate field above 2*MaxFeeRate
	_, err = Decode(0x7fffff)
	assert.ErrorIs(t, err, ErrInvalidFeePolicy)
}

func TestCalculateFee(t *testing.T) {
	amount := big.NewInt(12345)
	cases := []struct {
		rate             int32
		normal, reversed int64
	}{
		{100, 2, 1},
		{-200, -2, -3},
		{0, 0, 0},
		{MaxFeeRate, 6173, 6172},
		{MinFeeRate, -6172, -6173},
	}
	for _, c := range cases {
		p := mustPolicy(t, true, c.rate)
		assert.Equal(t, c.normal, p.CalculateFee(amount, false).Int64(), "rate %d", c.rate)
		assert.Equal(t, c.reversed, p.CalculateFee(amount, true).Int64(), "rate %d reversed", c.rate)
	}
}

func TestCalculateOriginalAmount(t *testing.T) {
	amount := big.NewInt(12345)
	cases := []struct {
		rate              int32
		deducted, charged int64
	}{
		{100, 12347, 12344},
		{-200, 12342, 12347},
		{0, 12345, 12345},
		{MaxFeeRate, 24690, 8230},
		{MinFeeRate, 8230, 24690},
	}
	for _, c := range cases {
		p := mustPolicy(t, false, c.rate)
		assert.Equal(t, c.deducted, p.CalculateOriginalAmount(amount, true).Int64(), "rate %d", c.rate)
		assert.Equal(t, c.charged, p.CalculateOriginalAmount(amount, false).Int64(), "rate %d", c.rate)
	}
}

func TestCalculateOriginalAmountInvertsFee(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rate := rapid.Int32Range(MinFeeRate, MaxFeeRate).Draw(t, "rate")
		p, err := New(rapid.Bool().Draw(t, "usesQuote"), rate)
		if err != nil {
			t.Fatal(err)
		}
		a := new(big.Int).SetUint64(rapid.Uint64().Draw(t, "amount"))
		a.Mul(a, new(big.Int).SetUint64(rapid.Uint64Range(1, 1<<20).Draw(t, "scale")))
		fee := p.CalculateFee(a, false)

		deducted := p.CalculateOriginalAmount(new(big.Int).Sub(a, fee), true)
		if d := new(big.Int).Sub(deducted, a); d.CmpAbs(big.NewInt(1)) > 0 {
			t.Fatalf("deducted fee: original(%s) off by %s", a, d)
		}

		charged := p.CalculateOriginalAmount(new(big.Int).Add(a, fee), false)
		if d := new(big.Int).Sub(charged, a); d.CmpAbs(big.NewInt(1)) > 0 {
			t.Fatalf("charged fee: original(%s) off by %s", a, d)
		}
	})
}

func TestFeeNeverFavoursPayer(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rate := rapid.Int32Range(MinFeeRate, MaxFeeRate).Draw(t, "rate")
		p, _ := New(true, rate)
		a := new(big.Int).SetUint64(rapid.Uint64().Draw(t, "amount"))

		// exact fee scaled by RatePrecision
		exact := new(big.Int).Mul(a, big.NewInt(int64(rate)))
		got := new(big.Int).Mul(p.CalculateFee(a, false), ratePrecision)
		if got.Cmp(exact) < 0 {
			t.Fatalf("fee %s below exact %s/%d", p.CalculateFee(a, false), exact, RatePrecision)
		}
	})
}
