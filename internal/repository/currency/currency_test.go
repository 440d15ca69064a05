package currency

import (
	"testing"

	"github.com/Yusufzhafir/clob-sim/pkg/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyRecordRoundTrip(t *testing.T) {
	usdc := model.Currency{
		Address:  common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"),
		Symbol:   "USDC",
		Name:     "USD Coin",
		Decimals: 6,
	}
	rec := FromModel(8453, usdc)
	assert.Equal(t, "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913", rec.Address)
	assert.Equal(t, int64(8453), rec.ChainID)

	back, err := rec.ToModel()
	require.NoError(t, err)
	assert.Equal(t, usdc, back)
}

func TestCurrencyRecordRejectsGarbage(t *testing.T) {
	_, err := CurrencyRecord{Address: "0x12", Decimals: 6}.ToModel()
	assert.Error(t, err)
	_, err = CurrencyRecord{Address: "0x0000000000000000000000000000000000000000", Decimals: 78}.ToModel()
	assert.Error(t, err)
}
