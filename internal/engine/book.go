package engine

import (
	"fmt"
	"math/big"

	orderbookModel "github.com/Yusufzhafir/clob-sim/internal/engine/model"
	"github.com/Yusufzhafir/clob-sim/pkg/fixedpoint"
	"github.com/Yusufzhafir/clob-sim/pkg/model"
	"github.com/Yusufzhafir/clob-sim/pkg/tick"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/google/btree"
)

type BookOpts struct {
	Key    model.BookKey
	Base   model.Currency
	Quote  model.Currency
	Depths []model.Depth
}

// Book is an immutable snapshot of one side of an on-chain book. Takers
// receive Quote and pay Base.
type Book struct {
	key      model.BookKey
	id       *big.Int
	base     model.Currency
	quote    model.Currency
	unitSize *big.Int
	depths   *btree.BTree
}

func NewBook(opts BookOpts) (*Book, error) {
	if opts.Key.UnitSize == 0 {
		return nil, ErrInvalidUnitSize
	}
	if opts.Key.Base != opts.Base.Address || opts.Key.Quote != opts.Quote.Address {
		return nil, fmt.Errorf("%w: book key %s/%s does not match currencies %s/%s",
			ErrInvalidTokenPair, opts.Key.Base, opts.Key.Quote, opts.Base.Address, opts.Quote.Address)
	}

	depths := btree.New(32)
	for _, d := range opts.Depths {
		if err := d.Tick.Validate(); err != nil {
			return nil, err
		}
		if d.RawAmount == 0 {
			continue
		}
		level := &orderbookModel.DepthLevel{Tick: d.Tick, RawAmount: d.RawAmount}
		if item := depths.Get(level); item != nil {
			existing := item.(*orderbookModel.DepthLevel)
			if existing.RawAmount > ^uint64(0)-d.RawAmount {
				return nil, fmt.Errorf("%w: raw amount at tick %d overflows", ErrInvalidDepth, d.Tick)
			}
			existing.RawAmount += d.RawAmount
			continue
		}
		depths.ReplaceOrInsert(level)
	}

	return &Book{
		key:      opts.Key,
		id:       opts.Key.ID(),
		base:     opts.Base,
		quote:    opts.Quote,
		unitSize: new(big.Int).SetUint64(opts.Key.UnitSize),
		depths:   depths,
	}, nil
}

func (b *Book) ID() *big.Int {
	return new(big.Int).Set(b.id)
}

func (b *Book) Key() model.BookKey {
	return b.key
}

func (b *Book) Base() model.Currency {
	return b.base
}

func (b *Book) Quote() model.Currency {
	return b.quote
}

func (b *Book) UnitSize() uint64 {
	return b.key.UnitSize
}

// Depths returns the levels best tick first.
func (b *Book) Depths() []model.Depth {
	out := make([]model.Depth, 0, b.depths.Len())
	b.depths.Ascend(func(item btree.Item) bool {
		level := item.(*orderbookModel.DepthLevel)
		out = append(out, model.Depth{Tick: level.Tick, RawAmount: level.RawAmount})
		return true
	})
	return out
}

// BestTick reports the highest tick with liquidity.
func (b *Book) BestTick() (tick.Tick, bool) {
	if b.depths.Len() == 0 {
		return tick.Sentinel, false
	}
	return b.depths.Min().(*orderbookModel.DepthLevel).Tick, true
}

// walk visits levels best first until visit returns false, the level price
// falls below limitPrice or the tick reaches the sentinel.
func (b *Book) walk(limitPrice *big.Int, visit func(t tick.Tick, raw *big.Int) bool) {
	b.depths.Ascend(func(item btree.Item) bool {
		level := item.(*orderbookModel.DepthLevel)
		if level.Tick <= tick.Sentinel || limitPrice.Cmp(tick.MustToPrice(level.Tick)) > 0 {
			return false
		}
		return visit(level.Tick, new(big.Int).SetUint64(level.RawAmount))
	})
}

// fill converts maxRaw units at t into a quote/base pair with the taker fee applied.
func (b *Book) fill(t tick.Tick, raw, maxRaw *big.Int) (quote, base *big.Int) {
	quote = new(big.Int).Mul(math.BigMin(raw, maxRaw), b.unitSize)
	base, _ = tick.QuoteToBase(t, quote, true)

	policy := b.key.TakerPolicy
	if policy.UsesQuote() {
		quote.Sub(quote, policy.CalculateFee(quote, false))
	} else {
		base.Add(base, policy.CalculateFee(base, false))
	}
	return quote, base
}

// Take simulates receiving up to amountOut quote at prices no worse than limitPrice.
func (b *Book) Take(limitPrice, amountOut *big.Int) model.Fill {
	res := model.EmptyFill()
	policy := b.key.TakerPolicy

	b.walk(limitPrice, func(t tick.Tick, raw *big.Int) bool {
		remaining := new(big.Int).Sub(amountOut, res.TakenQuoteAmount)
		maxAmount := remaining
		if policy.UsesQuote() {
			maxAmount = policy.CalculateOriginalAmount(remaining, true)
		}
		maxRaw := fixedpoint.Divide(maxAmount, b.unitSize, true)
		if maxRaw.Sign() == 0 {
			return false
		}

		quote, base := b.fill(t, raw, maxRaw)
		if quote.Sign() == 0 {
			return false
		}
		res.TakenQuoteAmount.Add(res.TakenQuoteAmount, quote)
		res.SpentBaseAmount.Add(res.SpentBaseAmount, base)
		return amountOut.Cmp(res.TakenQuoteAmount) > 0
	})
	return res
}

// Spend simulates paying up to amountIn base at prices no worse than limitPrice.
func (b *Book) Spend(limitPrice, amountIn *big.Int) model.Fill {
	res := model.EmptyFill()
	policy := b.key.TakerPolicy

	b.walk(limitPrice, func(t tick.Tick, raw *big.Int) bool {
		if res.SpentBaseAmount.Cmp(amountIn) > 0 {
			return false
		}
		remaining := new(big.Int).Sub(amountIn, res.SpentBaseAmount)
		maxAmount := remaining
		if !policy.UsesQuote() {
			maxAmount = policy.CalculateOriginalAmount(remaining, false)
		}
		maxRaw, _ := tick.BaseToQuote(t, maxAmount, false)
		maxRaw.Quo(maxRaw, b.unitSize)
		if maxRaw.Sign() == 0 {
			return false
		}

		quote, base := b.fill(t, raw, maxRaw)
		if base.Sign() == 0 {
			return false
		}
		res.TakenQuoteAmount.Add(res.TakenQuoteAmount, quote)
		res.SpentBaseAmount.Add(res.SpentBaseAmount, base)
		return true
	})
	return res
}
