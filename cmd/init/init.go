package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Yusufzhafir/clob-sim/internal/config"
	"github.com/Yusufzhafir/clob-sim/internal/repository"
	bookRepository "github.com/Yusufzhafir/clob-sim/internal/repository/book"
	currencyRepository "github.com/Yusufzhafir/clob-sim/internal/repository/currency"
	"github.com/Yusufzhafir/clob-sim/internal/router/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli"

	_ "github.com/lib/pq"
)

var (
	rootCtx    context.Context
	tokenTTL   time.Duration
	clientName string
)

func connect(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DB.DSN())
	if err != nil {
		return nil, fmt.Errorf("error connecting postgres: %w", err)
	}
	return db, nil
}

func migrate(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.Migrate(rootCtx, db); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	log.Println("schema is ready")
	return nil
}

// seedCurrencies upserts every currency listed in the chain registry.
func seedCurrencies(c *cli.Context) error {
	if len(c.Args()) == 0 {
		return fmt.Errorf("usage: init currencies CHAIN_ID...")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	chains, err := config.LoadChains(cfg.ChainsPath)
	if err != nil {
		return err
	}
	db, err := connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := currencyRepository.NewCurrencyRepository()
	rootTx := db.MustBeginTx(rootCtx, nil)
	defer rootTx.Rollback()

	for _, id := range c.Args() {
		var chainID uint64
		if _, err := fmt.Sscan(id, &chainID); err != nil {
			return fmt.Errorf("bad chain id %q", id)
		}
		chain, ok := chains.Chain(chainID)
		if !ok {
			return fmt.Errorf("chain %d is not configured", chainID)
		}
		for _, cur := range chain.Currencies {
			if err := repo.UpsertCurrency(rootCtx, rootTx, chain.ID, cur); err != nil {
				return fmt.Errorf("error saving %s on chain %d: %w", cur.Symbol, chain.ID, err)
			}
			log.Printf("chain %d: %s %s (%d decimals)", chain.ID, cur.Symbol, cur.Address.Hex(), cur.Decimals)
		}
	}
	return rootTx.Commit()
}

// seedDepths replaces the stored depths of every book listed in a snapshot file.
func seedDepths(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("usage: init depths SNAPSHOT_FILE")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	chains, err := config.LoadChains(cfg.ChainsPath)
	if err != nil {
		return err
	}
	snap, err := config.LoadSnapshot(path)
	if err != nil {
		return err
	}
	chain, books, err := snap.Resolve(chains)
	if err != nil {
		return err
	}
	db, err := connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := bookRepository.NewBookRepository()
	rootTx := db.MustBeginTx(rootCtx, nil)
	defer rootTx.Rollback()

	for _, b := range books {
		id := b.Key.ID()
		if err := repo.ReplaceDepths(rootCtx, rootTx, chain.ID, id, b.Depths); err != nil {
			return fmt.Errorf("error saving book %s: %w", id, err)
		}
		log.Printf("chain %d: book %s (%s -> %s) with %d levels", chain.ID, id, b.Base.Symbol, b.Quote.Symbol, len(b.Depths))
	}
	return rootTx.Commit()
}

func issueToken(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	token, claims, err := middleware.NewJWTMaker(cfg.JWTSecret).CreateToken(clientName, tokenTTL)
	if err != nil {
		return err
	}
	log.Printf("token %s for %s expires at %s", claims.ID, claims.Client, claims.ExpiresAt.Time.Format(time.RFC3339))
	fmt.Println(token)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCtx = ctx

	app := cli.NewApp()
	app.Name = "clob-sim init"
	app.Usage = "prepare the snapshot database and API clients"

	app.Commands = []cli.Command{
		{
			Name:   "migrate",
			Usage:  "Create the snapshot tables: ./init migrate",
			Action: migrate,
		},
		{
			Name:   "currencies",
			Usage:  "Store the currencies the chain registry lists: ./init currencies CHAIN_ID...",
			Action: seedCurrencies,
		},
		{
			Name:   "depths",
			Usage:  "Replace book depths from a snapshot file: ./init depths snapshot.yaml",
			Action: seedDepths,
		},
		{
			Name:  "token",
			Usage: "Issue a bearer token for an API client: ./init token -client NAME",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "client",
					Value:       "local",
					Usage:       "client name recorded in the token",
					Destination: &clientName,
				},
				cli.DurationFlag{
					Name:        "ttl",
					Value:       24 * time.Hour,
					Usage:       "token lifetime",
					Destination: &tokenTTL,
				},
			},
			Action: issueToken,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("command failed with error: %v", err)
	}
}
