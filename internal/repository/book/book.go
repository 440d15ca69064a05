package book

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Yusufzhafir/clob-sim/pkg/model"
	"github.com/Yusufzhafir/clob-sim/pkg/tick"
	"github.com/Yusufzhafir/clob-sim/pkg/util"
	"github.com/jmoiron/sqlx"
)

// --- Models corresponding to DB tables ---
type DepthRecord struct {
	ChainID   int64  `db:"chain_id"`
	BookID    string `db:"book_id"` // NUMERIC(78,0)
	Tick      int32  `db:"tick"`
	RawAmount string `db:"raw_amount"` // NUMERIC(20,0), fits a uint64
}

func (r DepthRecord) ToModel() (model.Depth, error) {
	raw, err := util.StringToBigInt(r.RawAmount)
	if err != nil {
		return model.Depth{}, fmt.Errorf("depth at tick %d: %w", r.Tick, err)
	}
	if !raw.IsUint64() {
		return model.Depth{}, fmt.Errorf("depth at tick %d: raw amount %s overflows", r.Tick, r.RawAmount)
	}
	return model.Depth{Tick: tick.Tick(r.Tick), RawAmount: raw.Uint64()}, nil
}

// --- Repository Interface ---
type BookRepository interface {
	ListDepths(ctx context.Context, q sqlx.QueryerContext, chainID uint64, bookID *big.Int) ([]model.Depth, error)
	ReplaceDepths(ctx context.Context, tx *sqlx.Tx, chainID uint64, bookID *big.Int, depths []model.Depth) error
}

// --- Implementation ---
type bookRepositoryImpl struct{}

func NewBookRepository() BookRepository {
	return &bookRepositoryImpl{}
}

// ListDepths returns the stored snapshot of a book, best tick first.
func (r *bookRepositoryImpl) ListDepths(ctx context.Context, q sqlx.QueryerContext, chainID uint64, bookID *big.Int) ([]model.Depth, error) {
	var recs []DepthRecord
	err := sqlx.SelectContext(ctx, q, &recs,
		`SELECT chain_id, book_id::text AS book_id, tick, raw_amount::text AS raw_amount
         FROM book_depths WHERE chain_id=$1 AND book_id=$2 AND raw_amount > 0 ORDER BY tick DESC`,
		int64(chainID), bookID.String())
	if err != nil {
		return nil, err
	}
	out := make([]model.Depth, 0, len(recs))
	for _, rec := range recs {
		d, err := rec.ToModel()
		if err != nil {
			return nil, fmt.Errorf("book %s: %w", bookID, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// ReplaceDepths swaps the stored snapshot of a book for depths.
func (r *bookRepositoryImpl) ReplaceDepths(ctx context.Context, tx *sqlx.Tx, chainID uint64, bookID *big.Int, depths []model.Depth) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM book_depths WHERE chain_id=$1 AND book_id=$2`,
		int64(chainID), bookID.String()); err != nil {
		return err
	}
	for _, d := range depths {
		if err := d.Tick.Validate(); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO book_depths (chain_id, book_id, tick, raw_amount) VALUES ($1, $2, $3, $4)
             ON CONFLICT (chain_id, book_id, tick) DO UPDATE SET raw_amount = book_depths.raw_amount + EXCLUDED.raw_amount, updated_at = NOW()`,
			int64(chainID), bookID.String(), int32(d.Tick), new(big.Int).SetUint64(d.RawAmount).String())
		if err != nil {
			return err
		}
	}
	return nil
}
