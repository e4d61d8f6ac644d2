package recombine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmogo/thermohistory/cosmo"
)

func sampleInputs(z float64) Inputs {
	return Inputs{
		Z:          z,
		Background: cosmo.State{H: 1e-4},
		FHe:        0.08,
		NH:         2e17,
		TCmb:       2.7255,
		FudgeH:     1.14,
	}
}

func TestChiIonHBounds(t *testing.T) {
	assert.InDelta(t, 0.369, chiIonH(0), 1e-6)
	assert.Equal(t, 0.0, chiIonH(1))
	assert.Equal(t, 0.0, chiIonH(2))
}

func TestChiHeatBounds(t *testing.T) {
	assert.Equal(t, 0.0, chiHeat(0))
	assert.Equal(t, 1.0, chiHeat(1))
	assert.Equal(t, 1.0, chiHeat(2))
}

func TestPeeblesEngineProducesFiniteDerivs(t *testing.T) {
	e := PeeblesEngine{HSwitch: HeSwitchFull}
	s := State{XH: 0.5, XHe: 0.05, TMat: 3000}
	d, err := e.Derivs(s, sampleInputs(1100))
	require.NoError(t, err)
	assert.False(t, isNaNOrInf(d.DXHDmz))
	assert.False(t, isNaNOrInf(d.DXHeDmz))
}

func TestPeeblesEngineRejectsNonPositiveH(t *testing.T) {
	e := PeeblesEngine{}
	in := sampleInputs(1100)
	in.Background.H = 0
	_, err := e.Derivs(State{XH: 0.5, TMat: 3000}, in)
	assert.Error(t, err)
}

func TestTwoLevelEngineApproachesSahaAtHighT(t *testing.T) {
	e := TwoLevelEngine{}
	s := State{XH: 0.999999, TMat: 10000}
	d, err := e.Derivs(s, sampleInputs(5000))
	require.NoError(t, err)
	assert.False(t, isNaNOrInf(d.DXHDmz))
	assert.Less(t, d.DXHDmz, 0.0, "x above its Saha value must fall as z decreases")
}

func TestMatterTemperatureTightCoupling(t *testing.T) {
	in := sampleInputs(1100)
	s := State{XH: 1.0, TMat: in.TCmb * 1101}
	dTdz, err := MatterTemperature(s, in, -1.0, -1e-3, 1e4)
	require.NoError(t, err)
	assert.False(t, isNaNOrInf(dTdz))
}

func TestMatterTemperatureFullEquation(t *testing.T) {
	in := sampleInputs(10)
	s := State{XH: 1e-4, TMat: 5}
	dTdz, err := MatterTemperature(s, in, -1.0, -1e-3, 1e-8)
	require.NoError(t, err)
	assert.False(t, isNaNOrInf(dTdz))
}

func TestMatterTemperatureRejectsZeroX(t *testing.T) {
	in := sampleInputs(1100)
	s := State{XH: 0, TMat: 3000}
	_, err := MatterTemperature(s, in, -1, -1e-3, 1e4)
	assert.Error(t, err)
}

func TestSahaIonizationFractionBounds(t *testing.T) {
	x := sahaIonizationFraction(2e17, 1e5, 157800.0)
	assert.GreaterOrEqual(t, x, 0.0)
	assert.LessOrEqual(t, x, 1.0)

	xCold := sahaIonizationFraction(2e17, 10, 157800.0)
	assert.Less(t, xCold, 1e-3)
}

func isNaNOrInf(v float64) bool {
	return v != v || v > 1e300 || v < -1e300
}
