package parser

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXVG = `# This file was created by gmx hbond
# GROMACS reminds you: "Uh-oh"
@    title "Hydrogen Bonds"
@    xaxis  label "Time (ps)"
@ s0 legend "Hydrogen bonds"

0.000000   12   3
10.000000  14.9 2
broken line
20.000000  abc  1
30.000000  -2.7 0
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseXVG(t *testing.T) {
	ts, err := ParseXVG(strings.NewReader(sampleXVG))
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.01, 0.03}, ts.TimesNS)
	assert.Equal(t, []int{12, 14, -2}, ts.Counts)
	assert.Equal(t, 3, ts.Len())
	require.Len(t, ts.Skipped, 2)
	assert.Contains(t, ts.Skipped[0], "line 9")
	assert.Contains(t, ts.Skipped[1], `"abc"`)
}

func TestParseXVG_NonFinite(t *testing.T) {
	ts, err := ParseXVG(strings.NewReader("0 5\n10 nan\n20 inf\n30 1e30\n40 -Inf\nnan 3\n50 6\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, ts.Counts)
	assert.Equal(t, []float64{0, 0.05}, ts.TimesNS)
	require.Len(t, ts.Skipped, 5)
	assert.Contains(t, ts.Skipped[0], `"nan"`)
	assert.Contains(t, ts.Skipped[2], `"1e30"`)

	counts, skipped, err := ParseCounts(strings.NewReader("0 5\n10 NaN\n20 +Inf\n30 7.5\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 7.5}, counts)
	assert.Len(t, skipped, 2)
}

func TestParseXVG_Empty(t *testing.T) {
	for name, input := range map[string]string{
		"empty":       "",
		"metadata":    "# only\n@ comments\n\n",
		"all invalid": "x y\nfoo\n1.0 bar\n",
	} {
		t.Run(name, func(t *testing.T) {
			ts, err := ParseXVG(strings.NewReader(input))
			require.NoError(t, err)
			assert.True(t, ts.Empty())
			assert.Empty(t, ts.TimesNS)
			assert.Empty(t, ts.Counts)
		})
	}
}

func TestLoadXVG_Missing(t *testing.T) {
	_, err := LoadXVG(filepath.Join(t.TempDir(), "nope.xvg"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadXVG_Compressed(t *testing.T) {
	dir := t.TempDir()

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err := zw.Write([]byte(sampleXVG))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	gzPath := filepath.Join(dir, "hbonds.xvg.gz")
	require.NoError(t, os.WriteFile(gzPath, gz.Bytes(), 0o644))

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zstPath := filepath.Join(dir, "hbonds.xvg.zst")
	require.NoError(t, os.WriteFile(zstPath, enc.EncodeAll([]byte(sampleXVG), nil), 0o644))
	require.NoError(t, enc.Close())

	for _, path := range []string{gzPath, zstPath} {
		ts, err := LoadXVG(path)
		require.NoError(t, err, path)
		assert.Equal(t, []int{12, 14, -2}, ts.Counts, path)
	}
}

func TestParseCounts(t *testing.T) {
	counts, skipped, err := ParseCounts(strings.NewReader(sampleXVG))
	require.NoError(t, err)
	assert.Equal(t, []float64{12, 14.9, -2.7}, counts)
	assert.Len(t, skipped, 2)

	counts, _, err = ParseCounts(strings.NewReader("bad 3\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, counts, "time column is ignored")
}

func TestTrimExt(t *testing.T) {
	assert.Equal(t, "wt", TrimExt("runs/wt.xvg"))
	assert.Equal(t, "wt", TrimExt("runs/wt.xvg.gz"))
	assert.Equal(t, "mut.a", TrimExt("mut.a.xvg"))
	assert.Equal(t, "plain", TrimExt("plain"))
}

const sampleNDX = `[ donors_hydrogens_Protein ]
   1    2
  14   15
[ hbonds_Protein ]

  10   20
  11   x
   1    2    3
`

func TestParseNDXPairs(t *testing.T) {
	pairs, skipped, err := ParseNDXPairs(strings.NewReader(sampleNDX))
	require.NoError(t, err)
	assert.Equal(t, []IndexPair{{1, 2}, {14, 15}, {10, 20}}, pairs)
	assert.Len(t, skipped, 2)
	assert.Equal(t, "14-15", pairs[1].String())
}

func TestParseNDXLabels(t *testing.T) {
	in := "[ hbonds ]\nALA-12-N - GLY-45-O\n\n  SER-3-OG - ASP-9-OD1  \n[ other ]\n7 8\n"
	labels, err := ParseNDXLabels(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"ALA-12-N - GLY-45-O", "SER-3-OG - ASP-9-OD1", "7 8"}, labels)
}

const sampleXPM = `/* XPM */
static char *gromacs_xpm[] = {
"4 2   2 1",
".  c #FFFFFF " /* "None" */,
"o  c #FF0000 " /* "Present" */,
/* x-axis:  0 1 2 3 */
"..oo",
".o.o"
};
`

func TestParseXPM(t *testing.T) {
	pm, err := ParseXPM(strings.NewReader(sampleXPM))
	require.NoError(t, err)
	assert.Equal(t, [][]bool{{false, false, true, true}, {false, true, false, true}}, pm.Rows)
	assert.Len(t, pm.Skipped, 3)
}

func TestParseXPM_Errors(t *testing.T) {
	_, err := ParseXPM(strings.NewReader("/* XPM */\n\"4 2 2 1\"\n"))
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ParseXPM(strings.NewReader("\"..oo\"\n\".o\"\n"))
	assert.ErrorIs(t, err, ErrRaggedMatrix)
}

func TestNewOccurrenceMatrix(t *testing.T) {
	pm, err := ParseXPM(strings.NewReader(sampleXPM))
	require.NoError(t, err)

	m, err := NewOccurrenceMatrix(pm, []string{"A-1 - B-2", "C-3 - D-4", "extra"})
	require.NoError(t, err)

	frames, pairs := m.Dims()
	assert.Equal(t, 4, frames)
	assert.Equal(t, 2, pairs)
	assert.Equal(t, []string{"A-1 - B-2", "C-3 - D-4"}, m.Labels)
	assert.Equal(t, []float64{0, 0, 1, 1}, m.Column(0))
	assert.Equal(t, []float64{0, 1, 0, 1}, m.Column(1))
	assert.Equal(t, 1.0, m.Data.At(1, 1))
	assert.Equal(t, 0.0, m.Data.At(1, 0))

	_, err = NewOccurrenceMatrix(pm, []string{"only one"})
	assert.ErrorIs(t, err, ErrLabelMismatch)
}

func TestWriteMatrixCSV(t *testing.T) {
	pm, err := ParseXPM(strings.NewReader(sampleXPM))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMatrixCSV(&buf, pm))
	assert.Equal(t, "0,1,2,3\n0,0,1,1\n0,1,0,1\n", buf.String())

	path := filepath.Join(t.TempDir(), "map.csv")
	require.NoError(t, SaveMatrixCSV(path, pm))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(got))
}

func TestLoaders(t *testing.T) {
	pm, err := LoadXPM(writeFile(t, "hbond_map.xpm", sampleXPM))
	require.NoError(t, err)
	assert.Len(t, pm.Rows, 2)

	labels, err := LoadNDXLabels(writeFile(t, "hbond.ndx", sampleNDX))
	require.NoError(t, err)
	assert.Len(t, labels, 5)

	pairs, _, err := LoadNDXPairs(writeFile(t, "hbond.ndx", sampleNDX))
	require.NoError(t, err)
	assert.Len(t, pairs, 3)
}
