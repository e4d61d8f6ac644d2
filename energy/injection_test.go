package energy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	assert.Equal(t, 0.0, Zero(1100))
}

func TestConstantFractionRate(t *testing.T) {
	r := ConstantFractionRate(1e-10, 1e-26, 3e8, 4.5e17)
	assert.Greater(t, r(1100), 0.0)
	assert.Greater(t, r(0), 0.0)
	assert.Greater(t, r(1100), r(0))
}

func TestPowerLawRate(t *testing.T) {
	r := PowerLawRate(1.0, 2.0)
	assert.InDelta(t, 1.0, r(0), 1e-12)
	assert.InDelta(t, 4.0, r(1), 1e-12)
}

func TestIntegratedMatchesOnTheSpotWhenRateIsZero(t *testing.T) {
	r := Integrated(Zero, 1.0, 3.0, 3.0, 1.0)
	assert.Equal(t, 0.0, r(500))
}

func TestIntegratedIsFiniteAndPositive(t *testing.T) {
	onTheSpot := PowerLawRate(1e-20, 3.0)
	r := Integrated(onTheSpot, 0.01, 3.0, 3.0, 1.0)
	v := r(1000)
	assert.Greater(t, v, 0.0)
	assert.False(t, isNaNOrInf(v))
}

func isNaNOrInf(v float64) bool {
	return v != v || v > 1e300 || v < -1e300
}
