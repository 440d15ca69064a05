package quote

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/Yusufzhafir/clob-sim/internal/config"
	"github.com/Yusufzhafir/clob-sim/internal/engine"
	"github.com/Yusufzhafir/clob-sim/pkg/model"
	"github.com/Yusufzhafir/clob-sim/pkg/tick"
	"github.com/Yusufzhafir/clob-sim/pkg/util"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnknownChain    = errors.New("unknown chain")
	ErrUnknownCurrency = errors.New("unknown currency")
)

type ExpectedOutputParams struct {
	ChainID     uint64
	InputToken  common.Address
	OutputToken common.Address
	AmountIn    string // human units of InputToken
	LimitPrice  string // quote per base, empty for no limit
}

type ExpectedInputParams struct {
	ChainID     uint64
	InputToken  common.Address
	OutputToken common.Address
	AmountOut   string // human units of OutputToken
	LimitPrice  string
}

type QuoteUseCase interface {
	GetExpectedOutput(ctx context.Context, params ExpectedOutputParams) (*model.Quote, error)
	GetExpectedInput(ctx context.Context, params ExpectedInputParams) (*model.Quote, error)
	GetBookDepth(ctx context.Context, chainID uint64, base, quote common.Address) (*model.BookDepth, error)
}

type quoteUseCaseImpl struct {
	chains     *config.Registry
	currencies CurrencySource
	depths     DepthSource
	logger     *log.Logger
}

type QuoteUseCaseOpts struct {
	Chains     *config.Registry
	Currencies CurrencySource
	Depths     DepthSource
	Logger     *log.Logger
}

func NewQuoteUseCase(opts QuoteUseCaseOpts) QuoteUseCase {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &quoteUseCaseImpl{
		chains:     opts.Chains,
		currencies: opts.Currencies,
		depths:     opts.Depths,
		logger:     logger,
	}
}

// GetExpectedOutput previews spending AmountIn of InputToken.
func (u *quoteUseCaseImpl) GetExpectedOutput(ctx context.Context, params ExpectedOutputParams) (*model.Quote, error) {
	m, input, output, err := u.loadMarket(ctx, params.ChainID, params.InputToken, params.OutputToken)
	if err != nil {
		return nil, err
	}
	amountIn, err := util.ParseUnits(params.AmountIn, input.Decimals)
	if err != nil {
		return nil, err
	}
	spendBase := input.Equal(m.Base())
	limitTick, err := limitTickFor(m, params.LimitPrice, spendBase)
	if err != nil {
		return nil, err
	}

	fill, err := m.Spend(engine.SpendParams{SpendBase: spendBase, LimitTick: limitTick, AmountIn: amountIn})
	if err != nil {
		return nil, err
	}
	u.logger.Printf("expected output chain=%d book=%s in=%s%s out=%s%s",
		params.ChainID, fill.BookID, fill.SpentBaseAmount, input.Symbol, fill.TakenQuoteAmount, output.Symbol)
	return toQuote(fill, input, output), nil
}

// GetExpectedInput previews receiving AmountOut of OutputToken.
func (u *quoteUseCaseImpl) GetExpectedInput(ctx context.Context, params ExpectedInputParams) (*model.Quote, error) {
	m, input, output, err := u.loadMarket(ctx, params.ChainID, params.InputToken, params.OutputToken)
	if err != nil {
		return nil, err
	}
	amountOut, err := util.ParseUnits(params.AmountOut, output.Decimals)
	if err != nil {
		return nil, err
	}
	takeQuote := output.Equal(m.Quote())
	limitTick, err := limitTickFor(m, params.LimitPrice, takeQuote)
	if err != nil {
		return nil, err
	}

	fill, err := m.Take(engine.TakeParams{TakeQuote: takeQuote, LimitTick: limitTick, AmountOut: amountOut})
	if err != nil {
		return nil, err
	}
	u.logger.Printf("expected input chain=%d book=%s in=%s%s out=%s%s",
		params.ChainID, fill.BookID, fill.SpentBaseAmount, input.Symbol, fill.TakenQuoteAmount, output.Symbol)
	return toQuote(fill, input, output), nil
}

func (u *quoteUseCaseImpl) GetBookDepth(ctx context.Context, chainID uint64, base, quote common.Address) (*model.BookDepth, error) {
	chain, ok := u.chains.Chain(chainID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChain, chainID)
	}
	baseCurrency, quoteCurrency, err := u.loadPair(ctx, chainID, base, quote)
	if err != nil {
		return nil, err
	}
	book, err := u.loadBook(ctx, chain, baseCurrency, quoteCurrency)
	if err != nil {
		return nil, err
	}

	depth := &model.BookDepth{
		BookID:    book.ID().String(),
		Base:      baseCurrency,
		Quote:     quoteCurrency,
		UnitSize:  book.UnitSize(),
		Levels:    make([]model.DepthLevel, 0),
		Timestamp: time.Now().UnixMilli(),
	}
	unitSize := new(big.Int).SetUint64(book.UnitSize())
	for _, d := range book.Depths() {
		price, err := util.FormatTickPrice(d.Tick, quoteCurrency.Decimals, baseCurrency.Decimals)
		if err != nil {
			return nil, err
		}
		amount := new(big.Int).Mul(new(big.Int).SetUint64(d.RawAmount), unitSize)
		depth.Levels = append(depth.Levels, model.DepthLevel{
			Tick:        d.Tick,
			Price:       price,
			RawAmount:   d.RawAmount,
			QuoteAmount: util.FormatUnits(amount, quoteCurrency.Decimals),
		})
	}
	return depth, nil
}

// loadMarket builds the market of the pair and returns the currencies in
// input/output order.
func (u *quoteUseCaseImpl) loadMarket(ctx context.Context, chainID uint64, inputToken, outputToken common.Address) (*engine.Market, model.Currency, model.Currency, error) {
	var input, output model.Currency
	chain, ok := u.chains.Chain(chainID)
	if !ok {
		return nil, input, output, fmt.Errorf("%w: %d", ErrUnknownChain, chainID)
	}
	input, output, err := u.loadPair(ctx, chainID, inputToken, outputToken)
	if err != nil {
		return nil, input, output, err
	}
	quoteCurrency, baseCurrency, err := engine.ResolvePair([]model.Currency{input, output}, chain.QuotePriority)
	if err != nil {
		return nil, input, output, err
	}

	var bid, ask *engine.Book
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bid, err = u.loadBook(gctx, chain, baseCurrency, quoteCurrency)
		return err
	})
	g.Go(func() error {
		var err error
		ask, err = u.loadBook(gctx, chain, quoteCurrency, baseCurrency)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, input, output, err
	}

	m, err := engine.NewMarket(engine.MarketOpts{Quote: quoteCurrency, Base: baseCurrency, Bid: bid, Ask: ask})
	return m, input, output, err
}

func (u *quoteUseCaseImpl) loadPair(ctx context.Context, chainID uint64, a, b common.Address) (model.Currency, model.Currency, error) {
	var ca, cb model.Currency
	if a == b {
		return ca, cb, fmt.Errorf("%w: both tokens are %s", engine.ErrInvalidTokenPair, a.Hex())
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ca, err = u.currencies.GetCurrency(gctx, chainID, a)
		return err
	})
	g.Go(func() error {
		var err error
		cb, err = u.currencies.GetCurrency(gctx, chainID, b)
		return err
	})
	err := g.Wait()
	return ca, cb, err
}

func (u *quoteUseCaseImpl) loadBook(ctx context.Context, chain *config.Chain, base, quote model.Currency) (*engine.Book, error) {
	key := chain.BookKey(base, quote)
	depths, err := u.depths.ListDepths(ctx, chain.ID, key.ID())
	if err != nil {
		return nil, fmt.Errorf("loading book %s/%s: %w", base.Symbol, quote.Symbol, err)
	}
	return engine.NewBook(engine.BookOpts{Key: key, Base: base, Quote: quote, Depths: depths})
}

// limitTickFor turns a human limit price into a bid-space limit tick. A
// seller's limit rounds up and a buyer's down so rounding never loosens it.
func limitTickFor(m *engine.Market, limitPrice string, selling bool) (tick.Tick, error) {
	if limitPrice == "" {
		if selling {
			return tick.MinTick, nil
		}
		return tick.MaxTick, nil
	}
	return util.PriceToTick(limitPrice, m.Quote().Decimals, m.Base().Decimals, selling)
}

func toQuote(fill model.MarketFill, input, output model.Currency) *model.Quote {
	return &model.Quote{
		BookID:      fill.BookID.String(),
		TakenAmount: util.FormatUnits(fill.TakenQuoteAmount, output.Decimals),
		SpentAmount: util.FormatUnits(fill.SpentBaseAmount, input.Decimals),
		TakenRaw:    fill.TakenQuoteAmount.String(),
		SpentRaw:    fill.SpentBaseAmount.String(),
	}
}
