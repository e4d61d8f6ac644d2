package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmogo/thermohistory/cosmo"
)

func testBackground(t *testing.T) cosmo.Background {
	bg, err := cosmo.NewLCDM(cosmo.Params{
		H0: 67, OmegaB: 0.049, OmegaCDM: 0.2655, OmegaGamma: 5.4e-5,
		OmegaLambda: 0.6854, TCmb: 2.7255,
	}, 2000)
	require.NoError(t, err)
	return bg
}

func TestBuildProducesIncreasingGrid(t *testing.T) {
	bg := testBackground(t)
	g, err := Build(Params{
		ZInitial: 6000, ZLinear: 3500, ZReioMax: 50,
		NLog: 50, NLin: 100, NReio: 40,
	}, bg)
	require.NoError(t, err)

	assert.Equal(t, 0.0, g.Z[0])
	assert.InDelta(t, 6000.0, g.Z[g.N()-1], 1e-6)
	for i := 1; i < g.N(); i++ {
		assert.Less(t, g.Z[i-1], g.Z[i])
	}
	assert.Equal(t, g.Tau[g.N()-1], g.TauIni)
}

func TestBuildRejectsLowZInitial(t *testing.T) {
	bg := testBackground(t)
	_, err := Build(Params{
		ZInitial: 4000, ZLinear: 2000, ZReioMax: 50,
		NLog: 10, NLin: 10, NReio: 10,
	}, bg)
	assert.Error(t, err)
}

func TestBuildRejectsBadOrdering(t *testing.T) {
	bg := testBackground(t)
	_, err := Build(Params{
		ZInitial: 6000, ZLinear: 50, ZReioMax: 3500,
		NLog: 10, NLin: 10, NReio: 10,
	}, bg)
	assert.Error(t, err)
}

func TestBuildRejectsTooFewPoints(t *testing.T) {
	bg := testBackground(t)
	_, err := Build(Params{
		ZInitial: 6000, ZLinear: 3500, ZReioMax: 50,
		NLog: 1, NLin: 10, NReio: 10,
	}, bg)
	assert.Error(t, err)
}
