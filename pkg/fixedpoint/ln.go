package fixedpoint

import "math/big"

func mustInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("fixedpoint: bad constant " + s)
	}
	return v
}

// Coefficients of the (8, 8)-term rational approximation of ln on [1, 2) * 2^96.
// p is monic and q is monic; the order below is the evaluation order.
var (
	lnP = [...]*big.Int{
		mustInt("3273285459638523848632254066296"),
		mustInt("24828157081833163892658089445524"),
		mustInt("43456485725739037958740375743393"),
		mustInt("-11111509109440967052023855526967"),
		mustInt("-45023709667254063763336534515857"),
		mustInt("-14706773417378608786704636184526"),
	}
	lnPTail = new(big.Int).Lsh(mustInt("795164235651350426258249787498"), 96)

	lnQ = [...]*big.Int{
		mustInt("5573035233440673466300451813936"),
		mustInt("71694874799317883764090561454958"),
		mustInt("283447036172924575727196451306956"),
		mustInt("401686690394027663651624208769553"),
		mustInt("204048457590392012362485061816622"),
		mustInt("31853899698501571402653359427138"),
		mustInt("909429971244387300277376558375"),
	}

	// scale factor s and ln(2), both in base 5^18 * 2^192
	lnScale = mustInt("1677202110996718588342820967067443963516166")
	lnTwo   = mustInt("16597577552685614221487285958193947469193820559219878177908093499208371")

	// 5^18 * 2^96 takes the result from base 5^18 * 2^192 back to Q96
	lnBase = new(big.Int).Lsh(new(big.Int).Exp(big.NewInt(5), big.NewInt(18), nil), 96)
)

// LnWad returns ln(x / 2^96) scaled by 2^96, i.e. the natural logarithm of a
// Q96 value expressed in Q96. The result is floored.
func LnWad(x *big.Int) (*big.Int, error) {
	msb, err := Log2(x)
	if err != nil {
		return nil, err
	}

	// ln(2^k * y) = k * ln(2) + ln(y), with y reduced to [1, 2) * 2^96
	k := int64(msb - 96)
	y := new(big.Int)
	if k >= 0 {
		y.Rsh(x, uint(k))
	} else {
		y.Lsh(x, uint(-k))
	}

	p := new(big.Int).Add(y, lnP[0])
	for _, c := range lnP[1:] {
		p.Mul(p, y).Rsh(p, 96).Add(p, c)
	}
	// p stays in the 2^192 basis so the division below lands in Q96
	p.Mul(p, y).Sub(p, lnPTail)

	q := new(big.Int).Add(y, lnQ[0])
	for _, c := range lnQ[1:] {
		q.Mul(q, y).Rsh(q, 96).Add(q, c)
	}

	// q has no roots in the domain
	r := new(big.Int).Quo(p, q)
	r.Mul(r, lnScale)
	r.Add(r, new(big.Int).Mul(lnTwo, big.NewInt(k)))
	return r.Div(r, lnBase), nil
}
