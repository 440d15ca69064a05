package model

import "github.com/Yusufzhafir/clob-sim/pkg/tick"

// Depth is the resting liquidity at one tick, counted in unit-size chunks.
type Depth struct {
	Tick      tick.Tick `json:"tick"`
	RawAmount uint64    `json:"rawAmount"`
}

type DepthLevel struct {
	Tick        tick.Tick `json:"tick"`
	Price       string    `json:"price"` // quote per base, decimal
	RawAmount   uint64    `json:"rawAmount"`
	QuoteAmount string    `json:"quoteAmount"`
}

// BookDepth is the depth view of one book, best level first.
type BookDepth struct {
	BookID    string       `json:"bookId"`
	Base      Currency     `json:"base"`
	Quote     Currency     `json:"quote"`
	UnitSize  uint64       `json:"unitSize"`
	Levels    []DepthLevel `json:"levels"`
	Timestamp int64        `json:"timestamp"`
}
