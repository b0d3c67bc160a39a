package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/hbond_analyzer_go/internal/gmx"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hbond.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Check())
	assert.Equal(t, "hbonds.xvg", c.TimeSeries)
	assert.Equal(t, "hbond.ndx", c.PairIndex)
	assert.Equal(t, "hbond_map.xpm", c.Map)
	assert.Equal(t, 300, c.DPI)
	assert.Equal(t, gmx.HBondDefault.Args(), c.HBond().Args())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
timeSeries: run1/hbonds.xvg
dpi: 150
gmx:
  exec: /opt/gromacs/bin/gmx_mpi
  selections: ["Protein", "Water"]
plots:
  kde: compare.png
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "run1/hbonds.xvg", c.TimeSeries)
	assert.Equal(t, 150, c.DPI)
	assert.Equal(t, "compare.png", c.Plots.KDE)
	assert.Equal(t, "hbond_pairs.png", c.Plots.Pairs, "unset fields keep their default")
	assert.Equal(t, "md.tpr", c.Gmx.TPR)

	hb := c.HBond()
	assert.Equal(t, "/opt/gromacs/bin/gmx_mpi", hb.Exec)
	assert.Equal(t, "run1/hbonds.xvg", hb.NumOut)
	assert.Equal(t, "Protein\nWater\n", hb.Stdin())
}

func TestLoad_Empty(t *testing.T) {
	for _, content := range []string{"", "# all defaults\n"} {
		c, err := Load(writeConfig(t, content))
		require.NoError(t, err)
		assert.Equal(t, Default(), c)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown field": "colour: red\n",
		"bad dpi":       "dpi: 0\n",
		"empty name":    "map: \"\"\n",
		"no selections": "gmx:\n  selections: []\n",
		"not yaml":      "dpi: [1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
