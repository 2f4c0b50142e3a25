package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticRoundTrip(t *testing.T) {
	s, k, tt, r, vol := 100.0, 100.0, 0.5, 0.03, 0.2
	call, put := fairPair(s, k, tt, r, 0, vol)

	// 由真实看跌合成看涨，应复制市场看涨价格
	synCall, err := BuildSyntheticCall("AAPL", put, s, k, r, tt)
	require.NoError(t, err)
	assert.InDelta(t, call, synCall.Price.InexactFloat64(), 1e-9)

	// 再由合成看涨反向合成看跌，应回到原始看跌价格
	synPut, err := BuildSyntheticPut("AAPL", synCall.Price.InexactFloat64(), s, k, r, tt)
	require.NoError(t, err)
	assert.InDelta(t, put, synPut.Price.InexactFloat64(), 1e-9)
}

func TestSyntheticStock(t *testing.T) {
	s, k, tt, r, vol := 100.0, 95.0, 1.0, 0.04, 0.3
	call, put := fairPair(s, k, tt, r, 0, vol)

	syn, err := BuildSyntheticStock("AAPL", call, put, k, r, tt)
	require.NoError(t, err)
	assert.InDelta(t, s, syn.Price.InexactFloat64(), 1e-9)
	assert.Len(t, syn.Legs, 3)
}

func TestSyntheticBond(t *testing.T) {
	s, k, tt, r, vol := 100.0, 100.0, 0.5, 0.03, 0.2
	call, put := fairPair(s, k, tt, r, 0, vol)

	syn, err := BuildSyntheticBond("AAPL", call, put, s)
	require.NoError(t, err)
	// 合成零息债价格为 K 的现值
	assert.InDelta(t, k*math.Exp(-r*tt), syn.Price.InexactFloat64(), 1e-9)
}

func TestSyntheticForward(t *testing.T) {
	s, k, tt, r, vol := 100.0, 100.0, 0.5, 0.03, 0.2
	call, put := fairPair(s, k, tt, r, 0, vol)

	syn, err := BuildSyntheticForward("AAPL", call, put)
	require.NoError(t, err)
	// C − P = S − K·e^(−rT)
	assert.InDelta(t, s-k*math.Exp(-r*tt), syn.Price.InexactFloat64(), 1e-9)
	assert.Equal(t, SyntheticForward, syn.Type)

	// 多空两腿权重相反
	require.Len(t, syn.Legs, 2)
	assert.InDelta(t, 1.0, syn.Legs[0].Weight, 1e-12)
	assert.InDelta(t, -1.0, syn.Legs[1].Weight, 1e-12)
}
