package fixedpoint

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func bi(s string) *big.Int {
	return mustInt(s)
}

func TestDivide(t *testing.T) {
	cases := []struct {
		x, y    int64
		roundUp bool
		want    int64
	}{
		{10, 3, false, 3},
		{10, 3, true, 4},
		{9, 3, true, 3},
		{0, 7, true, 0},
		{0, 7, false, 0},
		{1, 1000, true, 1},
		{999, 1000, false, 0},
	}
	for _, c := range cases {
		got := Divide(big.NewInt(c.x), big.NewInt(c.y), c.roundUp)
		assert.Equal(t, c.want, got.Int64(), "divide(%d, %d, %v)", c.x, c.y, c.roundUp)
	}
}

func TestDivideDoesNotAliasInputs(t *testing.T) {
	x, y := big.NewInt(100), big.NewInt(7)
	Divide(x, y, true)
	Divide(x, y, false)
	assert.Equal(t, int64(100), x.Int64())
	assert.Equal(t, int64(7), y.Int64())
}

func TestDivideRoundUpIsCeiling(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Uint64().Draw(t, "x")
		y := rapid.Uint64Range(1, 1<<40).Draw(t, "y")
		bx, by := new(big.Int).SetUint64(x), new(big.Int).SetUint64(y)

		down := Divide(bx, by, false)
		up := Divide(bx, by, true)

		rem := new(big.Int).Rem(bx, by)
		diff := new(big.Int).Sub(up, down).Int64()
		if rem.Sign() == 0 && diff != 0 {
			t.Fatalf("exact division %d/%d rounded up to %s", x, y, up)
		}
		if rem.Sign() != 0 && diff != 1 {
			t.Fatalf("inexact division %d/%d: down=%s up=%s", x, y, down, up)
		}
	})
}

func TestLog2(t *testing.T) {
	n, err := Log2(big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = Log2(Q96)
	require.NoError(t, err)
	assert.Equal(t, 96, n)

	n, err = Log2(new(big.Int).Sub(Q96, big.NewInt(1)))
	require.NoError(t, err)
	assert.Equal(t, 95, n)

	_, err = Log2(big.NewInt(0))
	assert.ErrorIs(t, err, ErrUndefined)
	_, err = Log2(big.NewInt(-5))
	assert.ErrorIs(t, err, ErrUndefined)
}

func TestLnWad(t *testing.T) {
	cases := []struct {
		x, want string
	}{
		{"79228162514264337593543950336", "4092245448"},
		{"158456325028528675187087900672", "54916777467707473355233716576"},
		{"39614081257132168796771975168", "-54916777467707473347049225680"},
		{"237684487542793012780631851008", "87041032946764879770358722297"},
		{"1000000000000000000", "-1988278089788132588086309697404"},
		{"1350587", "-4153621943682668213396937370300"},
		{"4647684107270898330752324302845848816923571339324334", "4153621943682668213397432467655"},
		{"1", "-5272010636899917441705488982842"},
	}
	for _, c := range cases {
		got, err := LnWad(bi(c.x))
		require.NoError(t, err)
		assert.Equal(t, c.want, got.String(), "ln(%s)", c.x)
	}
}

func TestLnWadOfOneIsNearZero(t *testing.T) {
	got, err := LnWad(Q96)
	require.NoError(t, err)
	// error against the exact value is far below one part in 10^18 of Q96
	assert.True(t, got.CmpAbs(big.NewInt(1<<33)) < 0, "ln(1) = %s", got)
}

func TestLnWadIsMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Uint64Range(1, 1<<62).Draw(t, "a")
		shift := rapid.UintRange(0, 100).Draw(t, "shift")
		x := new(big.Int).Lsh(new(big.Int).SetUint64(a), shift)
		y := new(big.Int).Add(x, new(big.Int).Rsh(x, 10))
		y.Add(y, big.NewInt(1))

		lx, err := LnWad(x)
		if err != nil {
			t.Fatal(err)
		}
		ly, err := LnWad(y)
		if err != nil {
			t.Fatal(err)
		}
		if lx.Cmp(ly) > 0 {
			t.Fatalf("ln(%s)=%s > ln(%s)=%s", x, lx, y, ly)
		}
	})
}

func TestLnWadRejectsNonPositive(t *testing.T) {
	_, err := LnWad(big.NewInt(0))
	assert.ErrorIs(t, err, ErrUndefined)
	_, err = LnWad(big.NewInt(-1))
	assert.ErrorIs(t, err, ErrUndefined)
}
