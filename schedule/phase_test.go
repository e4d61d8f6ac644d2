package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseActive(t *testing.T) {
	tMat, xH, xHe := Brec.Active()
	assert.True(t, tMat)
	assert.False(t, xH)
	assert.False(t, xHe)

	tMat, xH, xHe = H.Active()
	assert.True(t, tMat)
	assert.False(t, xH)
	assert.True(t, xHe)

	tMat, xH, xHe = Frec.Active()
	assert.True(t, tMat)
	assert.True(t, xH)
	assert.True(t, xHe)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "brec", Brec.String())
	assert.Equal(t, "reio", Reio.String())
}

func TestBuildCoversFullRange(t *testing.T) {
	prec := DefaultPrecision()
	intervals, err := Build(5000, 0, prec, true)
	require.NoError(t, err)
	require.NotEmpty(t, intervals)

	assert.Equal(t, 5000.0, intervals[0].ZStart)
	assert.Equal(t, 0.0, intervals[len(intervals)-1].ZEnd)
	for i := 1; i < len(intervals); i++ {
		assert.Equal(t, intervals[i-1].ZEnd, intervals[i].ZStart)
	}
	assert.Equal(t, Reio, intervals[len(intervals)-1].Phase)
}

func TestBuildWithoutReionization(t *testing.T) {
	prec := DefaultPrecision()
	intervals, err := Build(5000, 0, prec, false)
	require.NoError(t, err)
	last := intervals[len(intervals)-1]
	assert.Equal(t, Frec, last.Phase)
	assert.Equal(t, 0.0, last.ZEnd)
}

func TestBuildRejectsLowZInitial(t *testing.T) {
	prec := DefaultPrecision()
	_, err := Build(1000, 0, prec, true)
	assert.Error(t, err)
}

func TestWeightEndpoints(t *testing.T) {
	assert.Equal(t, 0.0, Weight(0))
	assert.Equal(t, 1.0, Weight(1))
	assert.InDelta(t, 0.5, Weight(0.5), 1e-9)
	assert.Equal(t, 0.0, Weight(-1))
	assert.Equal(t, 1.0, Weight(2))
}

func TestBlendInterpolates(t *testing.T) {
	assert.InDelta(t, 1.0, Blend(1.0, 2.0, 0), 1e-9)
	assert.InDelta(t, 2.0, Blend(1.0, 2.0, 1), 1e-9)
}
