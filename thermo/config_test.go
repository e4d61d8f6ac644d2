package thermo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempIni(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	fname := filepath.Join(dir, "test.ini")
	require.NoError(t, os.WriteFile(fname, []byte(body), 0644))
	return fname
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	fname := writeTempIni(t, `
[thermodynamics]
H0 = 67.36
omega_b = 0.02237
omega_cdm = 0.1200
omega_lambda = 0.6847
yhe = 0.245
reio_parametrization = camb
z_reio = 7.6
reionization_width = 0.5
z_initial = 5000
`)

	cfg, err := LoadConfig(fname)
	require.NoError(t, err)

	assert.Equal(t, 67.36, cfg.H0)
	assert.Equal(t, 0.02237, cfg.OmegaB)
	assert.Equal(t, "camb", cfg.ReioParametrization)
	assert.Equal(t, 7.6, cfg.ZReio)
	assert.Equal(t, 5000.0, cfg.ZInitial)
	// fields left unset in the file keep DefaultConfig's values.
	assert.Equal(t, DefaultConfig().NzLog, cfg.NzLog)
}

func TestLoadConfigRejectsUnknownEnumValue(t *testing.T) {
	fname := writeTempIni(t, `
[thermodynamics]
recombination = not_a_real_engine
`)
	_, err := LoadConfig(fname)
	assert.Error(t, err)
}

func TestLoadConfigRejectsMissingHeader(t *testing.T) {
	fname := writeTempIni(t, "H0 = 67\n")
	_, err := LoadConfig(fname)
	assert.Error(t, err)
}
