package report

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/palette/moreland"

	"github.com/user/hbond_analyzer_go/internal/analysis"
	"github.com/user/hbond_analyzer_go/internal/parser"
)

// testDPI keeps the rendered images small.
const testDPI = 30

func requirePNG(t *testing.T, img []byte, wantW, wantH int) {
	t.Helper()
	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, wantW, cfg.Width)
	assert.Equal(t, wantH, cfg.Height)
}

func sampleSeries() *parser.TimeSeries {
	return &parser.TimeSeries{
		TimesNS: []float64{0, 0.01, 0.02, 0.03},
		Counts:  []int{5, 7, 6, 8},
	}
}

func TestCreateTimeSeriesPlot(t *testing.T) {
	img, err := CreateTimeSeriesPlot(sampleSeries(), testDPI)
	require.NoError(t, err)
	requirePNG(t, img, 10*testDPI, 6*testDPI)

	_, err = CreateTimeSeriesPlot(&parser.TimeSeries{}, testDPI)
	assert.Error(t, err)
}

func TestCreatePairOccurrencePlot(t *testing.T) {
	pairs := []analysis.PairOccurrence{{Label: "ALA-1 - GLY-2", Percent: 75}, {Label: "SER-3 - ASP-4", Percent: 50}, {Label: "LYS-5 - GLU-6", Percent: 0}}
	img, err := CreatePairOccurrencePlot(pairs, testDPI)
	require.NoError(t, err)
	requirePNG(t, img, 12*testDPI, 8*testDPI)

	_, err = CreatePairOccurrencePlot(nil, testDPI)
	assert.Error(t, err)
}

func TestCreateResidueOccurrencePlot(t *testing.T) {
	img, err := CreateResidueOccurrencePlot([]analysis.ResidueOccurrence{{Residue: "GLY", Total: 9}}, testDPI)
	require.NoError(t, err)
	requirePNG(t, img, 10*testDPI, 6*testDPI)
}

func TestCreateKDEPlot(t *testing.T) {
	a, err := analysis.EstimateDensity("wt", []float64{3, 4, 4, 5, 6})
	require.NoError(t, err)
	b, err := analysis.EstimateDensity("mut", []float64{6, 7, 7, 9})
	require.NoError(t, err)

	img, err := CreateKDEPlot([]DensityCurve{{b, 1}, {a, 0}}, testDPI)
	require.NoError(t, err)
	requirePNG(t, img, 8*testDPI, 6*testDPI)

	_, err = CreateKDEPlot(nil, testDPI)
	assert.Error(t, err)

	_, err = CreateKDEPlot([]DensityCurve{{a, len(KDEPalette)}}, testDPI)
	assert.Error(t, err)
}

func TestCreateExistenceMapPlot(t *testing.T) {
	pm, err := parser.ParseXPM(strings.NewReader("\"..oo\"\n\".o.o\"\n\"oooo\"\n"))
	require.NoError(t, err)
	m, err := parser.NewOccurrenceMatrix(pm, []string{"ALA-1 - GLY-2", "SER-3 - ASP-4", "LYS-5 - GLU-6"})
	require.NoError(t, err)

	img, err := CreateExistenceMapPlot(m, testDPI)
	require.NoError(t, err)
	requirePNG(t, img, 12*testDPI, 8*testDPI)

	g := existenceGrid{m}
	c, r := g.Dims()
	assert.Equal(t, 4, c)
	assert.Equal(t, 3, r)
	assert.Equal(t, 1.0, g.Z(2, 2), "first pair is drawn on the top row")
	assert.Equal(t, 0.0, g.Z(1, 2))
	assert.Equal(t, 1.0, g.Z(1, 1))

	_, err = CreateExistenceMapPlot(nil, testDPI)
	assert.Error(t, err)
}

func TestBoundaryColormap(t *testing.T) {
	cm := existenceColormap
	assert.Equal(t, cm.ColorList[0], cm.Color(0))
	assert.Equal(t, cm.ColorList[0], cm.Color(-3))
	assert.Equal(t, cm.ColorList[1], cm.Color(1))
	assert.Equal(t, cm.ColorList[1], cm.Color(7))
	assert.Equal(t, cm.NaNColor, cm.Color(math.NaN()))
	assert.Len(t, cm.Colors(), 2)
}

func TestSampleColors(t *testing.T) {
	assert.Len(t, sampleColors(moreland.Kindlmann(), 1), 1)
	cols := sampleColors(moreland.Kindlmann(), 4)
	require.Len(t, cols, 4)
	assert.NotEqual(t, cols[0], cols[3])
}

func TestBuildPDFReport(t *testing.T) {
	ts := sampleSeries()
	sum := analysis.Summarize(ts, []parser.IndexPair{{Donor: 1, Acceptor: 2}})
	tsImg, err := CreateTimeSeriesPlot(ts, testDPI)
	require.NoError(t, err)

	pairs := make([]analysis.PairOccurrence, 40)
	for i := range pairs {
		pairs[i] = analysis.PairOccurrence{Label: "ALA-1 - GLY-2", Percent: float64(40 - i)}
	}
	data := ReportData{
		Summary: &sum,
		Occurrence: &analysis.OccurrenceResults{
			Pairs:    pairs,
			Residues: []analysis.ResidueOccurrence{{Residue: "ALA", Total: 10}, {Residue: "GLY", Total: 10}},
			Frames:   4,
		},
		Plots: map[string][]byte{PlotTimeSeries: tsImg},
	}

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, BuildPDFReport(path, data))
	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	empty := filepath.Join(t.TempDir(), "empty.pdf")
	require.NoError(t, BuildPDFReport(empty, ReportData{}))
}

func TestSavePNG(t *testing.T) {
	img, err := CreateTimeSeriesPlot(sampleSeries(), testDPI)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "ts.png")
	require.NoError(t, SavePNG(path, img))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, img, got)
}
