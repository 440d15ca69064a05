package util

import (
	"math/big"
	"testing"

	"github.com/Yusufzhafir/clob-sim/pkg/fixedpoint"
	"github.com/Yusufzhafir/clob-sim/pkg/tick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestStringToBigInt(t *testing.T) {
	v, err := StringToBigInt("3798316668121542854506278550132283223773680246971567217551")
	require.NoError(t, err)
	assert.Equal(t, "3798316668121542854506278550132283223773680246971567217551", v.String())

	v, err = StringToBigInt("0xff")
	require.NoError(t, err)
	assert.Equal(t, int64(255), v.Int64())

	for _, bad := range []string{"", "-1", "12a", "0xzz"} {
		_, err = StringToBigInt(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", bad)
	}
}

func TestParseUnits(t *testing.T) {
	v, err := ParseUnits("1.5", 6)
	require.NoError(t, err)
	assert.Equal(t, "1500000", v.String())

	v, err = ParseUnits("0.000000000000000001", 18)
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())

	v, err = ParseUnits("42", 0)
	require.NoError(t, err)
	assert.Equal(t, "42", v.String())

	for _, bad := range []string{"1.2345678", "-1", "abc", ""} {
		_, err = ParseUnits(bad, 6)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", bad)
	}
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "1.5", FormatUnits(big.NewInt(1_500_000), 6))
	assert.Equal(t, "0", FormatUnits(big.NewInt(0), 18))
	assert.Equal(t, "0.000001", FormatUnits(big.NewInt(1), 6))
}

func TestUnitsRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		decimals := uint8(rapid.IntRange(0, 30).Draw(t, "decimals"))
		raw := new(big.Int).SetUint64(rapid.Uint64().Draw(t, "raw"))
		back, err := ParseUnits(FormatUnits(raw, decimals), decimals)
		if err != nil {
			t.Fatal(err)
		}
		if back.Cmp(raw) != 0 {
			t.Fatalf("%s came back as %s", raw, back)
		}
	})
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice("3000.5", 6, 18)
	require.NoError(t, err)
	assert.Equal(t, "237724101624050144949", p.String())

	p, err = ParsePrice("1", 6, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Cmp(fixedpoint.Q96))

	for _, bad := range []string{"0", "-3", "x"} {
		_, err = ParsePrice(bad, 6, 18)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", bad)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "1", FormatPrice(fixedpoint.Q96, 6, 6).String())
	assert.Equal(t, "0.5", FormatPrice(new(big.Int).Rsh(fixedpoint.Q96, 1), 6, 6).String())

	s, err := FormatTickPrice(-196255, 6, 18)
	require.NoError(t, err)
	assert.Equal(t, "3000.404300835369181227", s)

	_, err = FormatTickPrice(tick.MaxTick+1, 6, 18)
	assert.ErrorIs(t, err, tick.ErrOutOfRange)
}

func TestPriceToTick(t *testing.T) {
	down, err := PriceToTick("3000.5", 6, 18, false)
	require.NoError(t, err)
	assert.Equal(t, tick.Tick(-196255), down)

	up, err := PriceToTick("3000.5", 6, 18, true)
	require.NoError(t, err)
	assert.Equal(t, tick.Tick(-196254), up)

	// exact tick prices do not move when rounding up
	exact, err := PriceToTick("1", 6, 6, true)
	require.NoError(t, err)
	assert.Equal(t, tick.Tick(0), exact)
}
