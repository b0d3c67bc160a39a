package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/user/hbond_analyzer_go/internal/analysis"
)

// barChart is the data of one horizontal bar chart, already sorted in the
// order the bars should appear from top to bottom.
type barChart struct {
	title, xLabel, yLabel string
	names                 []string
	values                []float64
	colors                []color.Color
	width, height         vg.Length
}

// barWidth fits n bars into the plotting height of a figure.
func barWidth(n int, height vg.Length) vg.Length {
	usable := float64(height) * 0.75
	w := 0.8 * usable / float64(n)
	return vg.Length(math.Min(w, float64(vg.Points(24))))
}

func (bc barChart) render(dpi int) ([]byte, error) {
	n := len(bc.values)
	if n == 0 {
		return nil, fmt.Errorf("no data to plot %q", bc.title)
	}

	p := plot.New()
	p.Title.Text = bc.title
	p.X.Label.Text = bc.xLabel
	p.Y.Label.Text = bc.yLabel
	p.X.Min = 0
	p.Add(plotter.NewGrid())

	// The first entry goes on top, and gonum/plot puts category 0 at the bottom.
	ticks := make([]string, n)
	w := barWidth(n, bc.height)
	for i, v := range bc.values {
		pos := n - 1 - i
		ticks[pos] = bc.names[i]

		bar, err := plotter.NewBarChart(plotter.Values{v}, w)
		if err != nil {
			return nil, fmt.Errorf("failed to create bar for %s: %v", bc.names[i], err)
		}
		bar.Horizontal = true
		bar.XMin = float64(pos)
		bar.Color = bc.colors[i%len(bc.colors)]
		bar.LineStyle.Width = 0
		p.Add(bar)
	}
	p.NominalY(ticks...)

	return renderPNG(p, bc.width, bc.height, dpi)
}

// CreatePairOccurrencePlot draws the percentage of frames each
// donor-acceptor pair is bonded in, most frequent on top.
func CreatePairOccurrencePlot(pairs []analysis.PairOccurrence, dpi int) ([]byte, error) {
	bc := barChart{
		title:  "Hydrogen bond frequency",
		xLabel: "Occurrence (%)",
		yLabel: "Donor-acceptor pair",
		names:  make([]string, len(pairs)),
		values: make([]float64, len(pairs)),
		colors: sampleColors(moreland.Kindlmann(), len(pairs)),
		width:  12 * vg.Inch,
		height: 8 * vg.Inch,
	}
	for i, po := range pairs {
		bc.names[i] = po.Label
		bc.values[i] = po.Percent
	}
	return bc.render(dpi)
}

// CreateResidueOccurrencePlot draws the total number of bonded frames per
// residue, largest on top.
func CreateResidueOccurrencePlot(residues []analysis.ResidueOccurrence, dpi int) ([]byte, error) {
	bc := barChart{
		title:  "Hydrogen bond occurrence by residue",
		xLabel: "Total occurrences",
		yLabel: "Residue",
		names:  make([]string, len(residues)),
		values: make([]float64, len(residues)),
		colors: sampleColors(moreland.BlackBody(), len(residues)),
		width:  10 * vg.Inch,
		height: 6 * vg.Inch,
	}
	for i, ro := range residues {
		bc.names[i] = ro.Residue
		bc.values[i] = ro.Total
	}
	return bc.render(dpi)
}
