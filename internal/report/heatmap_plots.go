package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/user/hbond_analyzer_go/internal/parser"
)

// maxPairTicks is the largest number of pairs labelled by name on the map.
const maxPairTicks = 40

// BoundaryColormap is a colormap that uses specific colors for defined boundaries.
type BoundaryColormap struct {
	Boundaries []float64     // N+1 boundaries for N colors
	ColorList  []color.Color // N colors
	NaNColor   color.Color   // Color for NaN values
}

// Color returns the color for z. Values outside the boundaries take the
// nearest end color.
func (cm *BoundaryColormap) Color(z float64) color.Color {
	if math.IsNaN(z) {
		return cm.NaNColor
	}
	for i := len(cm.ColorList) - 1; i > 0; i-- {
		if z >= cm.Boundaries[i] {
			return cm.ColorList[i]
		}
	}
	return cm.ColorList[0]
}

// Colors implements palette.Palette. With HeatMap.Min and Max set to the
// first and last boundary centers, the heat map picks the same colors as Color.
func (cm *BoundaryColormap) Colors() []color.Color {
	return cm.ColorList
}

// existenceColormap colors absent (0) and present (1) bonds.
var existenceColormap = &BoundaryColormap{
	Boundaries: []float64{-0.5, 0.5, 1.5},
	ColorList: []color.Color{
		color.RGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 255}, // Absent
		color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 255}, // Present
	},
	NaNColor: color.Gray{Y: 200},
}

// existenceGrid shows an occurrence matrix as a plotter.GridXYZ with frames
// on X and pairs on Y, the first pair at the top.
type existenceGrid struct {
	m *parser.OccurrenceMatrix
}

func (g existenceGrid) Dims() (c, r int) {
	return g.m.Dims()
}

func (g existenceGrid) Z(c, r int) float64 {
	_, pairs := g.m.Dims()
	return g.m.Data.At(c, pairs-1-r)
}

func (g existenceGrid) X(c int) float64 { return float64(c) }
func (g existenceGrid) Y(r int) float64 { return float64(r) }

// swatch is a legend thumbnail filled with one color.
type swatch struct {
	color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.Color, c.ClipPolygonY(pts))
}

// CreateExistenceMapPlot draws the hydrogen-bond existence map: one row per
// donor-acceptor pair, one column per frame, colored when the bond is present.
func CreateExistenceMapPlot(m *parser.OccurrenceMatrix, dpi int) ([]byte, error) {
	if m == nil || m.Data == nil {
		return nil, fmt.Errorf("no occurrence matrix to plot")
	}
	frames, pairs := m.Dims()
	if frames == 0 || pairs == 0 {
		return nil, fmt.Errorf("occurrence matrix is empty")
	}

	p := plot.New()
	p.Title.Text = "Hydrogen bond existence map"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Donor-acceptor pair"

	if pairs <= maxPairTicks {
		yTicks := make([]plot.Tick, pairs)
		for j, label := range m.Labels {
			yTicks[j] = plot.Tick{Value: float64(pairs - 1 - j), Label: label}
		}
		p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	}
	p.Y.Min = -0.5
	p.Y.Max = float64(pairs) - 0.5
	p.X.Min = -0.5
	p.X.Max = float64(frames) - 0.5

	hm := plotter.NewHeatMap(existenceGrid{m}, existenceColormap)
	hm.Min = 0
	hm.Max = 1
	hm.NaN = existenceColormap.NaNColor
	p.Add(hm)

	p.Legend.Add("Absent", swatch{existenceColormap.Color(0)})
	p.Legend.Add("Present", swatch{existenceColormap.Color(1)})
	p.Legend.Top = true

	return renderPNG(p, 12*vg.Inch, 8*vg.Inch, dpi)
}
