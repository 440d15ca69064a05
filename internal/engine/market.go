package engine

import (
	"fmt"
	"math/big"

	"github.com/Yusufzhafir/clob-sim/pkg/model"
	"github.com/Yusufzhafir/clob-sim/pkg/tick"
	"github.com/ethereum/go-ethereum/common"
)

type MarketOpts struct {
	Quote model.Currency
	Base  model.Currency
	Bid   *Book
	Ask   *Book
}

// Market pairs the two books of a quote/base pair. Limit ticks are given in
// the bid book's tick space; the ask book's ticks run the other way.
type Market struct {
	quote model.Currency
	base  model.Currency
	bid   *Book
	ask   *Book
}

type TakeParams struct {
	// TakeQuote receives the market quote currency, otherwise the base.
	TakeQuote bool
	LimitTick tick.Tick
	AmountOut *big.Int
}

type SpendParams struct {
	// SpendBase pays the market base currency, otherwise the quote.
	SpendBase bool
	LimitTick tick.Tick
	AmountIn  *big.Int
}

func NewMarket(opts MarketOpts) (*Market, error) {
	if opts.Quote.Equal(opts.Base) {
		return nil, fmt.Errorf("%w: quote and base are both %s", ErrInvalidTokenPair, opts.Quote.Address)
	}
	if opts.Bid == nil || opts.Ask == nil {
		return nil, fmt.Errorf("%w: market needs both books", ErrInvalidTokenPair)
	}
	if !opts.Bid.Quote().Equal(opts.Quote) || !opts.Bid.Base().Equal(opts.Base) {
		return nil, fmt.Errorf("%w: bid book trades %s for %s", ErrInvalidTokenPair, opts.Bid.Base().Address, opts.Bid.Quote().Address)
	}
	if !opts.Ask.Quote().Equal(opts.Base) || !opts.Ask.Base().Equal(opts.Quote) {
		return nil, fmt.Errorf("%w: ask book trades %s for %s", ErrInvalidTokenPair, opts.Ask.Base().Address, opts.Ask.Quote().Address)
	}
	return &Market{quote: opts.Quote, base: opts.Base, bid: opts.Bid, ask: opts.Ask}, nil
}

func (m *Market) Quote() model.Currency { return m.quote }
func (m *Market) Base() model.Currency  { return m.base }
func (m *Market) Bid() *Book            { return m.bid }
func (m *Market) Ask() *Book            { return m.ask }

func (m *Market) Take(p TakeParams) (model.MarketFill, error) {
	book, limit := m.ask, p.LimitTick.Invert()
	if p.TakeQuote {
		book, limit = m.bid, p.LimitTick
	}
	price, err := tick.ToPrice(limit)
	if err != nil {
		return model.MarketFill{}, err
	}
	return model.MarketFill{BookID: book.ID(), Fill: book.Take(price, p.AmountOut)}, nil
}

func (m *Market) Spend(p SpendParams) (model.MarketFill, error) {
	book, limit := m.ask, p.LimitTick.Invert()
	if p.SpendBase {
		book, limit = m.bid, p.LimitTick
	}
	price, err := tick.ToPrice(limit)
	if err != nil {
		return model.MarketFill{}, err
	}
	return model.MarketFill{BookID: book.ID(), Fill: book.Spend(price, p.AmountIn)}, nil
}

// ResolvePair splits two tokens into (quote, base). The first token found in
// quotePriority is the quote; with no match the lower address is.
func ResolvePair(tokens []model.Currency, quotePriority []common.Address) (quote, base model.Currency, err error) {
	if len(tokens) != 2 {
		return quote, base, fmt.Errorf("%w: need 2 tokens, got %d", ErrInvalidTokenPair, len(tokens))
	}
	a, b := tokens[0], tokens[1]
	if a.Equal(b) {
		return quote, base, fmt.Errorf("%w: duplicate token %s", ErrInvalidTokenPair, a.Address)
	}
	for _, addr := range quotePriority {
		switch addr {
		case a.Address:
			return a, b, nil
		case b.Address:
			return b, a, nil
		}
	}
	if a.Address.Cmp(b.Address) < 0 {
		return a, b, nil
	}
	return b, a, nil
}
