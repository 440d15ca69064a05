package quote

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	bookRepository "github.com/Yusufzhafir/clob-sim/internal/repository/book"
	currencyRepository "github.com/Yusufzhafir/clob-sim/internal/repository/currency"
	"github.com/Yusufzhafir/clob-sim/pkg/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx"
)

// CurrencySource resolves currency metadata. Unknown currencies are
// reported with ErrUnknownCurrency.
type CurrencySource interface {
	GetCurrency(ctx context.Context, chainID uint64, address common.Address) (model.Currency, error)
}

// DepthSource returns the resting depths of one book.
type DepthSource interface {
	ListDepths(ctx context.Context, chainID uint64, bookID *big.Int) ([]model.Depth, error)
}

// DBSource serves snapshots stored by the repositories.
type DBSource struct {
	db           *sqlx.DB
	currencyRepo currencyRepository.CurrencyRepository
	bookRepo     bookRepository.BookRepository
}

type DBSourceOpts struct {
	Db           *sqlx.DB
	CurrencyRepo currencyRepository.CurrencyRepository
	BookRepo     bookRepository.BookRepository
}

func NewDBSource(opts DBSourceOpts) *DBSource {
	return &DBSource{db: opts.Db, currencyRepo: opts.CurrencyRepo, bookRepo: opts.BookRepo}
}

func (s *DBSource) GetCurrency(ctx context.Context, chainID uint64, address common.Address) (model.Currency, error) {
	c, err := s.currencyRepo.GetCurrency(ctx, s.db, chainID, address)
	if errors.Is(err, currencyRepository.ErrNotFound) {
		return c, fmt.Errorf("%w: %v", ErrUnknownCurrency, err)
	}
	return c, err
}

func (s *DBSource) ListDepths(ctx context.Context, chainID uint64, bookID *big.Int) ([]model.Depth, error) {
	return s.bookRepo.ListDepths(ctx, s.db, chainID, bookID)
}
