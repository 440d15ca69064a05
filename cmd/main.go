package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Yusufzhafir/clob-sim/internal/config"
	bookRepository "github.com/Yusufzhafir/clob-sim/internal/repository/book"
	currencyRepository "github.com/Yusufzhafir/clob-sim/internal/repository/currency"
	"github.com/Yusufzhafir/clob-sim/internal/router"
	"github.com/Yusufzhafir/clob-sim/internal/router/middleware"
	"github.com/Yusufzhafir/clob-sim/internal/usecase/quote"
	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.Default()
	//load environment variable
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("error loading config: %v", err)
	}

	chains, err := config.LoadChains(cfg.ChainsPath)
	if err != nil {
		logger.Fatalf("error loading chains from %s: %v", cfg.ChainsPath, err)
	}
	logger.Printf("loaded %d chains from %s", chains.Len(), cfg.ChainsPath)

	db, err := sqlx.Connect("postgres", cfg.DB.DSN())
	if err != nil {
		logger.Fatalf("error connecting postgres: %v", err)
	}
	defer db.Close()

	source := quote.NewDBSource(quote.DBSourceOpts{
		Db:           db,
		CurrencyRepo: currencyRepository.NewCurrencyRepository(),
		BookRepo:     bookRepository.NewBookRepository(),
	})
	quoteUseCase := quote.NewQuoteUseCase(quote.QuoteUseCaseOpts{
		Chains:     chains,
		Currencies: source,
		Depths:     source,
		Logger:     logger,
	})

	serveMux := http.NewServeMux()
	tokenMaker := middleware.NewJWTMaker(cfg.JWTSecret)
	//bind router
	router.BindRouter(router.BindRouterOpts{
		ServerRouter: serveMux,
		QuoteUseCase: quoteUseCase,
		TokenMaker:   tokenMaker,
		Logger:       logger,
	})
	logger.Println("finished binding router")

	server := http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.Cors(serveMux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Start server in background.
	go func() {
		logger.Printf("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen error: %v", err)
		}
	}()

	// Block until we get a signal (or parent context canceled).
	<-rootCtx.Done()
	logger.Println("shutdown signal received")

	// Give in-flight requests up to 10s to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		// If graceful shutdown times out, force close.
		logger.Printf("graceful shutdown failed: %v; forcing close", err)
		_ = server.Close()
	}

	logger.Println("server stopped")
}
