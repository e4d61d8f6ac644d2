package derive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSyntheticTable builds an increasing-tau table with a
// single-peaked "visibility-like" dkappa/dtau, loosely mimicking the
// shape of a real recombination history, for exercising the pass
// without a full thermo run.
func buildSyntheticTable(n int) (tau, z, kappaDot, rOfTau []float64) {
	tau = make([]float64, n)
	z = make([]float64, n)
	kappaDot = make([]float64, n)
	rOfTau = make([]float64, n)
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		tau[i] = 1 + frac*300
		z[i] = 1200 * (1 - frac)
		peak := 150.0
		width := 40.0
		kappaDot[i] = 0.001 + 5.0*math.Exp(-(tau[i]-peak)*(tau[i]-peak)/(2*width*width))
		rOfTau[i] = 0.1 + 0.5*frac
	}
	return
}

func TestRunProducesFiniteColumns(t *testing.T) {
	tau, z, kappaDot, rOfTau := buildSyntheticTable(60)
	cols, epochs, err := Run(tau, z, kappaDot, rOfTau, tau[0], kappaDot[0], Params{
		SmoothRadius: 2, ZRecMin: 0, ZRecMax: 1e9,
	})
	require.NoError(t, err)
	assert.Len(t, cols.G, 60)
	assert.Len(t, cols.Rate, 60)
	for _, g := range cols.G {
		assert.False(t, g != g)
	}
	assert.Greater(t, epochs.ZRec, 0.0)
}

func TestDampingScalePositive(t *testing.T) {
	tau, _, kappaDot, rOfTau := buildSyntheticTable(60)
	rd2, err := DampingScale(tau, rOfTau, kappaDot, tau[0], kappaDot[0])
	require.NoError(t, err)
	assert.Greater(t, rd2, 0.0)
}

func TestDampingScaleRejectsZeroKappaDotIni(t *testing.T) {
	tau, _, kappaDot, rOfTau := buildSyntheticTable(10)
	_, err := DampingScale(tau, rOfTau, kappaDot, tau[0], 0)
	assert.Error(t, err)
}

func TestRunRejectsMismatchedLengths(t *testing.T) {
	_, _, err := Run([]float64{1, 2, 3}, []float64{1, 2}, []float64{1, 2, 3}, []float64{1, 2, 3}, 1, 1, Params{})
	assert.Error(t, err)
}
