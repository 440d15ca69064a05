package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Yusufzhafir/clob-sim/pkg/fee"
	"github.com/Yusufzhafir/clob-sim/pkg/model"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

type PolicyConfig struct {
	UsesQuote bool  `yaml:"usesQuote"`
	Rate      int32 `yaml:"rate"`
}

type CurrencyConfig struct {
	Address  string `yaml:"address"`
	Symbol   string `yaml:"symbol"`
	Name     string `yaml:"name"`
	Decimals uint8  `yaml:"decimals"`
}

type ChainConfig struct {
	ChainID       uint64            `yaml:"chainId"`
	Name          string            `yaml:"name"`
	Hooks         string            `yaml:"hooks"`
	MakerPolicy   PolicyConfig      `yaml:"makerPolicy"`
	TakerPolicy   PolicyConfig      `yaml:"takerPolicy"`
	QuotePriority []string          `yaml:"quotePriority"`
	UnitSizes     map[string]uint64 `yaml:"unitSizes"`
	Currencies    []CurrencyConfig  `yaml:"currencies"`
}

type chainsFile struct {
	Chains []ChainConfig `yaml:"chains"`
}

// Chain holds the per-chain constants books are derived from.
type Chain struct {
	ID            uint64
	Name          string
	Hooks         common.Address
	MakerPolicy   fee.Policy
	TakerPolicy   fee.Policy
	QuotePriority []common.Address
	Currencies    []model.Currency
	unitSizes     map[common.Address]uint64
}

// Currency looks up a currency listed for the chain.
func (ch *Chain) Currency(address common.Address) (model.Currency, bool) {
	for _, c := range ch.Currencies {
		if c.Address == address {
			return c, true
		}
	}
	return model.Currency{}, false
}

// UnitSize is the unit size of books quoted in c, the override if one is
// configured.
func (ch *Chain) UnitSize(c model.Currency) uint64 {
	if v, ok := ch.unitSizes[c.Address]; ok {
		return v
	}
	return model.DefaultUnitSize(c.Decimals)
}

func (ch *Chain) BookKey(base, quote model.Currency) model.BookKey {
	return model.BookKey{
		Base:        base.Address,
		UnitSize:    ch.UnitSize(quote),
		Quote:       quote.Address,
		MakerPolicy: ch.MakerPolicy,
		Hooks:       ch.Hooks,
		TakerPolicy: ch.TakerPolicy,
	}
}

type Registry struct {
	chains map[uint64]*Chain
}

func (r *Registry) Chain(id uint64) (*Chain, bool) {
	ch, ok := r.chains[id]
	return ch, ok
}

func (r *Registry) Len() int {
	return len(r.chains)
}

func LoadChains(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseChains(data)
}

func ParseChains(data []byte) (*Registry, error) {
	var file chainsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing chains: %w", err)
	}
	if len(file.Chains) == 0 {
		return nil, fmt.Errorf("at least one chain is required")
	}

	reg := &Registry{chains: make(map[uint64]*Chain, len(file.Chains))}
	for _, cc := range file.Chains {
		ch, err := cc.build()
		if err != nil {
			return nil, fmt.Errorf("invalid configuration for chain %d: %w", cc.ChainID, err)
		}
		if _, dup := reg.chains[ch.ID]; dup {
			return nil, fmt.Errorf("chain %d configured twice", ch.ID)
		}
		reg.chains[ch.ID] = ch
	}
	return reg, nil
}

func (cc ChainConfig) build() (*Chain, error) {
	if cc.ChainID == 0 {
		return nil, fmt.Errorf("chainId is required")
	}
	maker, err := fee.New(cc.MakerPolicy.UsesQuote, cc.MakerPolicy.Rate)
	if err != nil {
		return nil, fmt.Errorf("maker policy: %w", err)
	}
	taker, err := fee.New(cc.TakerPolicy.UsesQuote, cc.TakerPolicy.Rate)
	if err != nil {
		return nil, fmt.Errorf("taker policy: %w", err)
	}

	ch := &Chain{
		ID:          cc.ChainID,
		Name:        cc.Name,
		MakerPolicy: maker,
		TakerPolicy: taker,
		unitSizes:   make(map[common.Address]uint64, len(cc.UnitSizes)),
	}
	if cc.Hooks != "" {
		if ch.Hooks, err = parseAddress(cc.Hooks); err != nil {
			return nil, fmt.Errorf("hooks: %w", err)
		}
	}
	for _, s := range cc.QuotePriority {
		addr, err := parseAddress(s)
		if err != nil {
			return nil, fmt.Errorf("quote priority: %w", err)
		}
		ch.QuotePriority = append(ch.QuotePriority, addr)
	}
	for s, size := range cc.UnitSizes {
		addr, err := parseAddress(s)
		if err != nil {
			return nil, fmt.Errorf("unit sizes: %w", err)
		}
		if size == 0 {
			return nil, fmt.Errorf("unit size for %s must be positive", addr)
		}
		ch.unitSizes[addr] = size
	}
	for _, cur := range cc.Currencies {
		addr, err := parseAddress(cur.Address)
		if err != nil {
			return nil, fmt.Errorf("currencies: %w", err)
		}
		if _, dup := ch.Currency(addr); dup {
			return nil, fmt.Errorf("currency %s listed twice", addr)
		}
		if cur.Decimals > 77 {
			return nil, fmt.Errorf("currency %s: decimals %d out of range", addr, cur.Decimals)
		}
		ch.Currencies = append(ch.Currencies, model.Currency{Address: addr, Symbol: cur.Symbol, Name: cur.Name, Decimals: cur.Decimals})
	}
	return ch, nil
}

func parseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%q is not an address", s)
	}
	return common.HexToAddress(s), nil
}
