package book

import (
	"testing"

	"github.com/Yusufzhafir/clob-sim/pkg/model"
	"github.com/Yusufzhafir/clob-sim/pkg/tick"
	"github.com/Yusufzhafir/clob-sim/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepthRecordToModel(t *testing.T) {
	d, err := DepthRecord{Tick: -196255, RawAmount: "18446744073709551615"}.ToModel()
	require.NoError(t, err)
	assert.Equal(t, model.Depth{Tick: tick.Tick(-196255), RawAmount: ^uint64(0)}, d)

	_, err = DepthRecord{Tick: 1, RawAmount: "18446744073709551616"}.ToModel()
	assert.Error(t, err)

	_, err = DepthRecord{Tick: 1, RawAmount: "1.5"}.ToModel()
	assert.ErrorIs(t, err, util.ErrInvalidAmount)
}
