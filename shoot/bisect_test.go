package shoot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A toy model where tau(z_reio) is monotonically increasing and known
// analytically, so the bisection result can be checked directly.
func toyEval(zReio float64) (float64, error) {
	return 0.01 * zReio, nil
}

func TestBisectFindsRoot(t *testing.T) {
	p := Params{ZReioMax: 50, StartFactor: 0, Width: 0, TolTau: 1e-6, MaxIterations: 200}
	res, err := Bisect(0.055, toyEval, p)
	require.NoError(t, err)
	assert.InDelta(t, 5.5, res.ZReio, 1e-3)
	assert.InDelta(t, 0.055, res.TauReio, 0.055*1e-6*2)
}

func TestBisectRejectsNonPositiveTarget(t *testing.T) {
	p := Params{ZReioMax: 50}
	_, err := Bisect(0, toyEval, p)
	assert.Error(t, err)
}

func TestBisectRejectsUnreachableTarget(t *testing.T) {
	p := Params{ZReioMax: 50, TolTau: 1e-6, MaxIterations: 50}
	_, err := Bisect(10.0, toyEval, p)
	assert.Error(t, err)
}

func TestTauFromKappaDot(t *testing.T) {
	tau := []float64{0, 1, 2, 3, 4}
	kd := []float64{1, 1, 1, 1, 1}
	v, err := TauFromKappaDot(tau, kd, 0, 4)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, v, 1e-2)
}

func TestTauFromKappaDotRejectsMismatchedLengths(t *testing.T) {
	_, err := TauFromKappaDot([]float64{0, 1}, []float64{1}, 0, 1)
	assert.Error(t, err)
}
