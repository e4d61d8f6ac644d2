package reionize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCAMBMonotoneTransition(t *testing.T) {
	c := CAMB{
		ZReio: 7.67, DeltaZ: 0.5, Alpha: 1.5,
		XeBefore: 2e-4, XeAfter: 1.16,
	}
	xeFar, _ := c.Eval(20)
	xeMid, dxedzMid := c.Eval(c.ZReio)
	xeNear, _ := c.Eval(0)
	assert.InDelta(t, c.XeBefore, xeFar, 1e-3)
	assert.InDelta(t, c.XeAfter, xeNear, 1e-2)
	assert.Less(t, xeFar, xeMid)
	assert.Less(t, xeMid, xeNear)
	assert.NotEqual(t, 0.0, dxedzMid)
}

func TestCAMBWithHelium(t *testing.T) {
	c := CAMB{
		ZReio: 7.67, DeltaZ: 0.5, Alpha: 1.5,
		XeBefore: 2e-4, XeAfter: 1.0,
		HeliumOn: true, ZHelium: 3.5, WidthHelium: 0.5, XeHeliumJump: 0.16,
	}
	xeWithHe, _ := c.Eval(0)
	c.HeliumOn = false
	xeWithoutHe, _ := c.Eval(0)
	assert.Greater(t, xeWithHe, xeWithoutHe)
}

func TestHalfTanhAmplitude(t *testing.T) {
	h := HalfTanh{ZReio: 10, DeltaZ: 1, XeBefore: 0, XeAfter: 1}
	xe, _ := h.Eval(0)
	assert.InDelta(t, 0.5, xe, 1e-2)
	z, ok := h.LinearBelow()
	assert.True(t, ok)
	assert.Equal(t, 20.0, z)
}

func TestBinsTanhEndpoints(t *testing.T) {
	b := BinsTanh{Z: []float64{0, 5, 10}, Xe: []float64{1, 0.5, 0.1}, Sharpness: 2}
	xe0, _ := b.Eval(-1)
	xe1, _ := b.Eval(11)
	assert.Equal(t, 1.0, xe0)
	assert.Equal(t, 0.1, xe1)
	xeMid, _ := b.Eval(2.5)
	assert.InDelta(t, 0.75, xeMid, 0.05)
}

func TestManyTanhSentinels(t *testing.T) {
	m := ManyTanh{
		Z: []float64{10, 3.5}, Xe: []float64{SentinelPostHe1, SentinelPostHe2},
		Width: 0.5, XeBeforeFirstJump: 2e-4, XeHe1: 1.0, XeHe2: 1.16,
	}
	xeFar, _ := m.Eval(20)
	xeNear, _ := m.Eval(0)
	assert.InDelta(t, 2e-4, xeFar, 1e-3)
	assert.InDelta(t, 1.16, xeNear, 1e-2)
}

func TestInterRequiresConventions(t *testing.T) {
	in := &Inter{Z: []float64{1, 5}, Xe: []float64{0.1, SentinelFromRecombination}}
	assert.Error(t, in.Build())

	in2 := &Inter{Z: []float64{0, 5}, Xe: []float64{0.1, 0.2}}
	assert.Error(t, in2.Build())
}

func TestInterPiecewiseLinear(t *testing.T) {
	in := &Inter{
		Z: []float64{0, 10, 50}, Xe: []float64{1.0, 0.5, SentinelFromRecombination},
		XeFromRecombination: 2e-4,
	}
	require.NoError(t, in.Build())
	xe, _ := in.Eval(5)
	assert.InDelta(t, 0.75, xe, 1e-9)
	z, ok := in.LinearBelow()
	assert.True(t, ok)
	assert.Equal(t, 50.0, z)
}
