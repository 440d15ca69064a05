package currency

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Yusufzhafir/clob-sim/pkg/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("currency not found")

// --- Models corresponding to DB tables ---
type CurrencyRecord struct {
	ChainID  int64  `db:"chain_id"`
	Address  string `db:"address"` // lower-case hex
	Symbol   string `db:"symbol"`
	Name     string `db:"name"`
	Decimals int16  `db:"decimals"`
}

func (r CurrencyRecord) ToModel() (model.Currency, error) {
	if !common.IsHexAddress(r.Address) {
		return model.Currency{}, fmt.Errorf("currency %s on chain %d: bad address", r.Address, r.ChainID)
	}
	if r.Decimals < 0 || r.Decimals > 77 {
		return model.Currency{}, fmt.Errorf("currency %s on chain %d: bad decimals %d", r.Address, r.ChainID, r.Decimals)
	}
	return model.Currency{
		Address:  common.HexToAddress(r.Address),
		Symbol:   r.Symbol,
		Name:     r.Name,
		Decimals: uint8(r.Decimals),
	}, nil
}

func FromModel(chainID uint64, c model.Currency) CurrencyRecord {
	return CurrencyRecord{
		ChainID:  int64(chainID),
		Address:  addressKey(c.Address),
		Symbol:   c.Symbol,
		Name:     c.Name,
		Decimals: int16(c.Decimals),
	}
}

func addressKey(a common.Address) string {
	return strings.ToLower(a.Hex())
}

// --- Repository Interface ---
type CurrencyRepository interface {
	GetCurrency(ctx context.Context, q sqlx.QueryerContext, chainID uint64, address common.Address) (model.Currency, error)
	ListCurrencies(ctx context.Context, q sqlx.QueryerContext, chainID uint64) ([]model.Currency, error)
	UpsertCurrency(ctx context.Context, tx *sqlx.Tx, chainID uint64, c model.Currency) error
}

// --- Implementation ---
type currencyRepositoryImpl struct{}

func NewCurrencyRepository() CurrencyRepository {
	return &currencyRepositoryImpl{}
}

func (r *currencyRepositoryImpl) GetCurrency(ctx context.Context, q sqlx.QueryerContext, chainID uint64, address common.Address) (model.Currency, error) {
	var rec CurrencyRecord
	err := sqlx.GetContext(ctx, q, &rec,
		`SELECT chain_id, address, symbol, name, decimals FROM currencies WHERE chain_id=$1 AND address=$2`,
		int64(chainID), addressKey(address))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Currency{}, fmt.Errorf("%w: %s on chain %d", ErrNotFound, address.Hex(), chainID)
	}
	if err != nil {
		return model.Currency{}, err
	}
	return rec.ToModel()
}

func (r *currencyRepositoryImpl) ListCurrencies(ctx context.Context, q sqlx.QueryerContext, chainID uint64) ([]model.Currency, error) {
	var recs []CurrencyRecord
	err := sqlx.SelectContext(ctx, q, &recs,
		`SELECT chain_id, address, symbol, name, decimals FROM currencies WHERE chain_id=$1 ORDER BY address`,
		int64(chainID))
	if err != nil {
		return nil, err
	}
	out := make([]model.Currency, 0, len(recs))
	for _, rec := range recs {
		c, err := rec.ToModel()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *currencyRepositoryImpl) UpsertCurrency(ctx context.Context, tx *sqlx.Tx, chainID uint64, c model.Currency) error {
	_, err := tx.NamedExecContext(ctx,
		`INSERT INTO currencies (chain_id, address, symbol, name, decimals)
         VALUES (:chain_id, :address, :symbol, :name, :decimals)
         ON CONFLICT (chain_id, address) DO UPDATE SET symbol=EXCLUDED.symbol, name=EXCLUDED.name, decimals=EXCLUDED.decimals`,
		FromModel(chainID, c))
	return err
}
