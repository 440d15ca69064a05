package config

import (
	"fmt"
	"os"

	"github.com/Yusufzhafir/clob-sim/pkg/model"
	"github.com/Yusufzhafir/clob-sim/pkg/tick"
	"gopkg.in/yaml.v3"
)

type DepthConfig struct {
	Tick      int32  `yaml:"tick"`
	RawAmount uint64 `yaml:"rawAmount"`
}

type BookSnapshotConfig struct {
	Base   string        `yaml:"base"`
	Quote  string        `yaml:"quote"`
	Depths []DepthConfig `yaml:"depths"`
}

type SnapshotConfig struct {
	ChainID uint64               `yaml:"chainId"`
	Books   []BookSnapshotConfig `yaml:"books"`
}

// BookSnapshot is a book of a configured chain with its resting depths.
type BookSnapshot struct {
	Key    model.BookKey
	Base   model.Currency
	Quote  model.Currency
	Depths []model.Depth
}

func LoadSnapshot(path string) (*SnapshotConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap SnapshotConfig
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &snap, nil
}

// Resolve binds the snapshot to its chain, deriving every book key.
func (s *SnapshotConfig) Resolve(reg *Registry) (*Chain, []BookSnapshot, error) {
	chain, ok := reg.Chain(s.ChainID)
	if !ok {
		return nil, nil, fmt.Errorf("snapshot chain %d is not configured", s.ChainID)
	}
	books := make([]BookSnapshot, 0, len(s.Books))
	for i, b := range s.Books {
		base, err := chainCurrency(chain, b.Base)
		if err != nil {
			return nil, nil, fmt.Errorf("book %d base: %w", i, err)
		}
		quote, err := chainCurrency(chain, b.Quote)
		if err != nil {
			return nil, nil, fmt.Errorf("book %d quote: %w", i, err)
		}
		depths := make([]model.Depth, 0, len(b.Depths))
		for _, d := range b.Depths {
			t := tick.Tick(d.Tick)
			if err := t.Validate(); err != nil {
				return nil, nil, fmt.Errorf("book %d: %w", i, err)
			}
			depths = append(depths, model.Depth{Tick: t, RawAmount: d.RawAmount})
		}
		books = append(books, BookSnapshot{Key: chain.BookKey(base, quote), Base: base, Quote: quote, Depths: depths})
	}
	return chain, books, nil
}

func chainCurrency(chain *Chain, s string) (model.Currency, error) {
	addr, err := parseAddress(s)
	if err != nil {
		return model.Currency{}, err
	}
	c, ok := chain.Currency(addr)
	if !ok {
		return model.Currency{}, fmt.Errorf("currency %s is not listed for chain %d", addr, chain.ID)
	}
	return c, nil
}
