package evolve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunExponentialDecay checks the BDF2 stepper against the
// analytically known solution of dy/dmz = -y.
func TestRunExponentialDecay(t *testing.T) {
	deriv := func(mz float64, state []float64) ([]float64, error) {
		return []float64{-state[0]}, nil
	}
	d := NewDriver(deriv)

	var sampled []Sample
	final, err := d.Run(0, 5, []float64{1.0}, []float64{-0.5, -2, -5},
		func(s Sample) error {
			sampled = append(sampled, s)
			return nil
		})
	require.NoError(t, err)
	require.Len(t, sampled, 3)

	for _, s := range sampled {
		mz := -s.Z
		want := math.Exp(-mz)
		assert.InDelta(t, want, s.State[0], 5e-3)
	}
	assert.InDelta(t, math.Exp(-5), final[0], 5e-3)
}

func TestRunRejectsBadInterval(t *testing.T) {
	deriv := func(mz float64, state []float64) ([]float64, error) { return state, nil }
	d := NewDriver(deriv)
	_, err := d.Run(5, 1, []float64{1}, nil, nil)
	assert.Error(t, err)
}

func TestRunPropagatesDerivError(t *testing.T) {
	deriv := func(mz float64, state []float64) ([]float64, error) {
		return nil, assertErr
	}
	d := NewDriver(deriv)
	_, err := d.Run(0, 1, []float64{1}, nil, nil)
	assert.Error(t, err)
}

var assertErr = errTest("boom")

type errTest string

func (e errTest) Error() string { return string(e) }
