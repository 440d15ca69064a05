package model

import (
	"github.com/Yusufzhafir/clob-sim/pkg/tick"
	"github.com/google/btree"
)

// DepthLevel is one tick of resting liquidity, ordered best (highest) tick first.
type DepthLevel struct {
	Tick      tick.Tick
	RawAmount uint64
}

func (l *DepthLevel) Less(than btree.Item) bool {
	other := than.(*DepthLevel)
	return l.Tick > other.Tick // Reverse
}
