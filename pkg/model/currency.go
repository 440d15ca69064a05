package model

import (
	"github.com/ethereum/go-ethereum/common"
)

// NativeAddress stands for the chain's native currency in book keys.
var NativeAddress = common.Address{}

type Currency struct {
	Address  common.Address `json:"address"`
	Symbol   string         `json:"symbol"`
	Name     string         `json:"name"`
	Decimals uint8          `json:"decimals"`
}

func (c Currency) IsNative() bool {
	return c.Address == NativeAddress
}

func (c Currency) Equal(other Currency) bool {
	return c.Address == other.Address
}
