package thermo

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmogo/thermohistory/bbn"
	"github.com/cosmogo/thermohistory/interpolate"
)

// smallConfig returns a Config sized like grid_test.go's fixtures, kept
// small so the end-to-end scenarios below exercise the real pipeline
// without paying for production-scale grid resolution.
func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.H0 = 67
	cfg.OmegaB = 0.049
	cfg.OmegaCDM = 0.2655
	cfg.OmegaLambda = 0.6854
	cfg.YHeSource = YHeFixed
	cfg.YHeFixedValue = 0.245
	cfg.ZInitial = 6000
	cfg.ZLinear = 3500
	cfg.ReionizationZStartMax = 50
	cfg.NzLog, cfg.NzLin, cfg.ReionizationSampling = 40, 60, 30
	return cfg
}

func TestInitMinimalLCDMNoReionization(t *testing.T) {
	cfg := smallConfig()
	cfg.ReioParametrization = "none"

	h, err := Init(context.Background(), cfg, nil, nil)
	require.NoError(t, err)

	sc := h.Scalars()
	assert.Greater(t, sc.ZRec, 800.0)
	assert.Less(t, sc.ZRec, 1500.0)
	assert.Greater(t, sc.ZDrag, sc.ZRec*0.5)

	row, err := h.At(sc.ZRec, interpolate.Normal, nil)
	require.NoError(t, err)
	assert.Greater(t, row.Xe, 0.0)
	assert.Greater(t, row.G, 0.0)
}

func TestInitCambReionizationGivenZReio(t *testing.T) {
	cfg := smallConfig()
	cfg.ReioParametrization = "camb"
	cfg.ReioZOrTau = ReioByRedshift
	cfg.ZReio = 8.0
	cfg.DeltaZReio = 0.5

	h, err := Init(context.Background(), cfg, nil, nil)
	require.NoError(t, err)

	row, err := h.At(0.0, interpolate.Normal, nil)
	require.NoError(t, err)
	assert.Greater(t, row.Xe, 1.0, "hydrogen and helium should both be ionized today")

	rowHigh, err := h.At(200.0, interpolate.Normal, nil)
	require.NoError(t, err)
	assert.Less(t, rowHigh.Xe, row.Xe, "ionization before reionization must be lower than today's")
}

func TestInitRoundTripsZReioAndTauReio(t *testing.T) {
	cfg := smallConfig()
	cfg.ReioParametrization = "camb"
	cfg.DeltaZReio = 0.5

	cfg.ReioZOrTau = ReioByRedshift
	cfg.ZReio = 9.0
	hFixed, err := Init(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	targetTau := hFixed.Scalars().TauReio

	cfg.ReioZOrTau = ReioByTau
	cfg.TauReioTarget = targetTau
	hShot, err := Init(context.Background(), cfg, nil, nil)
	require.NoError(t, err)

	assert.InDelta(t, 9.0, hShot.Scalars().ZReio, 0.5)
}

func TestInitIsIdempotent(t *testing.T) {
	cfg := smallConfig()
	cfg.ReioParametrization = "half_tanh"
	cfg.ZReio = 10.0
	cfg.DeltaZReio = 1.0

	h1, err := Init(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	h2, err := Init(context.Background(), cfg, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, h1.Scalars(), h2.Scalars())

	r1, err := h1.At(1000.0, interpolate.Normal, nil)
	require.NoError(t, err)
	r2, err := h2.At(1000.0, interpolate.Normal, nil)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}

func TestAtExtrapolatesContinuouslyAboveZInitial(t *testing.T) {
	cfg := smallConfig()
	cfg.ReioParametrization = "none"

	h, err := Init(context.Background(), cfg, nil, nil)
	require.NoError(t, err)

	atBoundary, err := h.At(cfg.ZInitial, interpolate.Normal, nil)
	require.NoError(t, err)
	justAbove, err := h.At(cfg.ZInitial*1.0001, interpolate.Normal, nil)
	require.NoError(t, err)

	assert.InDelta(t, atBoundary.Xe, justAbove.Xe, 1e-6)
	assert.InDelta(t, atBoundary.KappaDot, justAbove.KappaDot, atBoundary.KappaDot*0.01)
}

const sampleBBNTable = `
# N_omega N_delta
3 2
% omega_b  delta_Neff  Y_He
0.020 0.0 0.240
0.022 0.0 0.245
0.024 0.0 0.250
0.020 1.0 0.250
0.022 1.0 0.255
0.024 1.0 0.260
`

func TestInitResolvesYHeFromBBNTable(t *testing.T) {
	tbl, err := bbn.Parse(strings.NewReader(sampleBBNTable))
	require.NoError(t, err)

	cfg := smallConfig()
	cfg.YHeSource = YHeFromBBN
	cfg.NEff = 3.046
	cfg.ReioParametrization = "none"

	cfg, err = ResolveYHeFromTable(cfg, tbl)
	require.NoError(t, err)
	assert.InDelta(t, 0.240+0.005*(0.049*0.67*0.67-0.020)/0.002, cfg.YHeFixedValue, 1e-9)
	assert.Equal(t, YHeFixed, cfg.YHeSource)

	h, err := Init(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Greater(t, h.Scalars().ZRec, 0.0)
}

func TestInitRejectsYHeFromBBNWithoutResolution(t *testing.T) {
	cfg := smallConfig()
	cfg.YHeSource = YHeFromBBN

	_, err := Init(context.Background(), cfg, nil, nil)
	require.Error(t, err)
	var thermoErr *Error
	require.ErrorAs(t, err, &thermoErr)
	assert.Equal(t, DomainError, thermoErr.Kind)
}
