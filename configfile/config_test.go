package configfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	fname := filepath.Join(dir, "test.config")
	require.NoError(t, os.WriteFile(fname, []byte(body), 0644))
	return fname
}

func TestLoadBasicTypes(t *testing.T) {
	var (
		n     int64
		z     float64
		name  string
		on    bool
		zs    []float64
		names []string
	)
	v := NewVars("thermo")
	v.Int(&n, "n", 0)
	v.Float(&z, "z", 0)
	v.String(&name, "name", "")
	v.Bool(&on, "on", false)
	v.Floats(&zs, "zs", nil)
	v.Strings(&names, "names", nil)

	fname := writeTempConfig(t, `
[thermo]
n = 42
z = 1100.5
name = planck18
on = true
zs = 1.0, 2.5, 3.0
names = h1, he1, he2
`)

	require.NoError(t, Load(fname, v))
	assert.Equal(t, int64(42), n)
	assert.Equal(t, 1100.5, z)
	assert.Equal(t, "planck18", name)
	assert.True(t, on)
	assert.Equal(t, []float64{1.0, 2.5, 3.0}, zs)
	assert.Equal(t, []string{"h1", "he1", "he2"}, names)
}

func TestLoadDefaultsPreservedWhenUnset(t *testing.T) {
	var n int64
	v := NewVars("thermo")
	v.Int(&n, "n", 7)

	fname := writeTempConfig(t, "[thermo]\n")
	require.NoError(t, Load(fname, v))
	assert.Equal(t, int64(7), n)
}

func TestLoadIgnoresCommentsAndBlankLines(t *testing.T) {
	var n int64
	v := NewVars("thermo")
	v.Int(&n, "n", 0)

	fname := writeTempConfig(t, `
[thermo]
# this is a comment
n = 3 # inline comment

`)
	require.NoError(t, Load(fname, v))
	assert.Equal(t, int64(3), n)
}

func TestLoadWrongHeaderFails(t *testing.T) {
	var n int64
	v := NewVars("thermo")
	v.Int(&n, "n", 0)

	fname := writeTempConfig(t, "[other]\nn = 3\n")
	err := Load(fname, v)
	assert.Error(t, err)
}

func TestLoadUnknownVariableFails(t *testing.T) {
	var n int64
	v := NewVars("thermo")
	v.Int(&n, "n", 0)

	fname := writeTempConfig(t, "[thermo]\nbogus = 3\n")
	err := Load(fname, v)
	assert.Error(t, err)
}

func TestLoadDuplicateVariableFails(t *testing.T) {
	var n int64
	v := NewVars("thermo")
	v.Int(&n, "n", 0)

	fname := writeTempConfig(t, "[thermo]\nn = 3\nn = 4\n")
	err := Load(fname, v)
	assert.Error(t, err)
}

func TestLoadTypeMismatchFails(t *testing.T) {
	var n int64
	v := NewVars("thermo")
	v.Int(&n, "n", 0)

	fname := writeTempConfig(t, "[thermo]\nn = not_a_number\n")
	err := Load(fname, v)
	assert.Error(t, err)
}

func TestLoadMissingFileFails(t *testing.T) {
	var n int64
	v := NewVars("thermo")
	v.Int(&n, "n", 0)

	err := Load(filepath.Join(t.TempDir(), "missing.config"), v)
	assert.Error(t, err)
}
