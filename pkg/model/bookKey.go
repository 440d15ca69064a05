package model

import (
	"math/big"

	"github.com/Yusufzhafir/clob-sim/pkg/fee"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// BookKey identifies a book on chain. Takers pay Base and receive Quote.
type BookKey struct {
	Base        common.Address
	UnitSize    uint64
	Quote       common.Address
	MakerPolicy fee.Policy
	Hooks       common.Address
	TakerPolicy fee.Policy
}

// ID is the low 192 bits of keccak256(abi.encode(key)).
func (k BookKey) ID() *big.Int {
	enc := make([]byte, 0, 6*32)
	enc = append(enc, common.LeftPadBytes(k.Base.Bytes(), 32)...)
	enc = append(enc, math.PaddedBigBytes(new(big.Int).SetUint64(k.UnitSize), 32)...)
	enc = append(enc, common.LeftPadBytes(k.Quote.Bytes(), 32)...)
	enc = append(enc, math.PaddedBigBytes(big.NewInt(int64(k.MakerPolicy.Encode())), 32)...)
	enc = append(enc, common.LeftPadBytes(k.Hooks.Bytes(), 32)...)
	enc = append(enc, math.PaddedBigBytes(big.NewInt(int64(k.TakerPolicy.Encode())), 32)...)

	h := crypto.Keccak256(enc)
	return new(big.Int).SetBytes(h[len(h)-24:])
}

// DefaultUnitSize is the unit size books quoted in a currency with the
// given decimals use unless the chain overrides it.
func DefaultUnitSize(decimals uint8) uint64 {
	if decimals <= 6 {
		return 1
	}
	return math.BigPow(10, int64(decimals-6)).Uint64()
}
