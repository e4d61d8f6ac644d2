package bbn

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `
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

func TestParseAndInterpolate(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleTable))
	require.NoError(t, err)

	y, err := tbl.YHe(0.022, 0.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.245, y, 1e-9)

	y, err = tbl.YHe(0.021, 0.5)
	require.NoError(t, err)
	assert.Greater(t, y, 0.240)
	assert.Less(t, y, 0.260)
}

func TestYHeOutOfRange(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleTable))
	require.NoError(t, err)

	_, err = tbl.YHe(0.5, 0.0)
	assert.Error(t, err)

	_, err = tbl.YHe(0.022, 10.0)
	assert.Error(t, err)
}

func TestParseBadHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("not a header\n0.02 0.0 0.24\n"))
	assert.Error(t, err)
}

func TestParseRowCountMismatch(t *testing.T) {
	_, err := Parse(strings.NewReader("2 2\n0.02 0.0 0.24\n"))
	assert.Error(t, err)
}
