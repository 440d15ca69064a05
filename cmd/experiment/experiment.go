package main

import (
	"log"
	"math/big"

	"github.com/Yusufzhafir/clob-sim/internal/config"
	"github.com/Yusufzhafir/clob-sim/internal/engine"
	"github.com/Yusufzhafir/clob-sim/pkg/model"
	"github.com/Yusufzhafir/clob-sim/pkg/tick"
	"github.com/Yusufzhafir/clob-sim/pkg/util"
)

// Walks the books of snapshot.yaml in memory, no database needed.
func main() {
	chains, err := config.LoadChains("chains.yaml")
	if err != nil {
		log.Fatalf("error loading chains: %v", err)
	}
	snap, err := config.LoadSnapshot("snapshot.yaml")
	if err != nil {
		log.Fatalf("error loading snapshot: %v", err)
	}
	chain, books, err := snap.Resolve(chains)
	if err != nil {
		log.Fatalf("error resolving snapshot: %v", err)
	}

	built := make([]*engine.Book, 0, len(books))
	for _, b := range books {
		book, err := engine.NewBook(engine.BookOpts{Key: b.Key, Base: b.Base, Quote: b.Quote, Depths: b.Depths})
		if err != nil {
			log.Fatalf("error building book: %v", err)
		}
		built = append(built, book)
		log.Printf("book %s: %s -> %s, unit %d, levels %v", book.ID(), b.Base.Symbol, b.Quote.Symbol, book.UnitSize(), book.Depths())
	}
	if len(built) != 2 {
		log.Fatalf("snapshot needs exactly a bid and an ask book, got %d", len(built))
	}

	quote, base, err := engine.ResolvePair([]model.Currency{built[0].Base(), built[0].Quote()}, chain.QuotePriority)
	if err != nil {
		log.Fatalf("error resolving pair: %v", err)
	}
	bid, ask := built[0], built[1]
	if !bid.Quote().Equal(quote) {
		bid, ask = ask, bid
	}
	market, err := engine.NewMarket(engine.MarketOpts{Quote: quote, Base: base, Bid: bid, Ask: ask})
	if err != nil {
		log.Fatalf("error building market: %v", err)
	}

	sell, _ := util.ParseUnits("2.5", base.Decimals)
	fill, err := market.Spend(engine.SpendParams{SpendBase: true, LimitTick: tick.MinTick, AmountIn: sell})
	if err != nil {
		log.Fatalf("spend: %v", err)
	}
	log.Printf("sell %s %s -> %s %s (book %s)",
		util.FormatUnits(fill.SpentBaseAmount, base.Decimals), base.Symbol,
		util.FormatUnits(fill.TakenQuoteAmount, quote.Decimals), quote.Symbol, fill.BookID)

	buy, _ := util.ParseUnits("3", base.Decimals)
	fill, err = market.Take(engine.TakeParams{TakeQuote: false, LimitTick: tick.MaxTick, AmountOut: buy})
	if err != nil {
		log.Fatalf("take: %v", err)
	}
	log.Printf("buy %s %s <- %s %s (book %s)",
		util.FormatUnits(fill.TakenQuoteAmount, base.Decimals), base.Symbol,
		util.FormatUnits(fill.SpentBaseAmount, quote.Decimals), quote.Symbol, fill.BookID)

	// nothing rests above the best bid
	best, _ := market.Bid().BestTick()
	fill, _ = market.Spend(engine.SpendParams{SpendBase: true, LimitTick: best + 1, AmountIn: big.NewInt(1)})
	log.Printf("sell above best bid filled nothing: %v", fill.IsEmpty())
}
