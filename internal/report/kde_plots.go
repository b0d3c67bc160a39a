package report

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/user/hbond_analyzer_go/internal/analysis"
)

// KDEPalette holds one color per input file. Its length caps the number of
// files a KDE chart can compare.
var KDEPalette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},  // Deep blue
	{R: 214, G: 39, B: 40, A: 255},   // Crimson
	{R: 148, G: 103, B: 189, A: 255}, // Dark purple
	{R: 140, G: 86, B: 75, A: 255},   // Earth brown
	{R: 23, G: 190, B: 207, A: 255},  // Light cyan
	{R: 44, G: 160, B: 44, A: 255},   // Green
	{R: 255, G: 127, B: 14, A: 255},  // Orange
	{R: 227, G: 119, B: 194, A: 255}, // Pink
	{R: 127, G: 127, B: 127, A: 255}, // Grey
	{R: 188, G: 189, B: 34, A: 255},  // Olive yellow
}

// kdeFillAlpha is the opacity of the area under each density.
const kdeFillAlpha = 0.4

// DensityCurve is a density together with the position of its input file,
// which picks the color and the stacking order.
type DensityCurve struct {
	*analysis.Density
	Slot int
}

func fillColor(slot int) color.Color {
	c := KDEPalette[slot]
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(kdeFillAlpha * 255)}
}

// areaUnder returns the polygon enclosed by the curve and the x axis.
func areaUnder(d *analysis.Density) plotter.XYs {
	n := len(d.X)
	pts := make(plotter.XYs, 0, n+2)
	pts = append(pts, plotter.XY{X: d.X[0], Y: 0})
	for i := range d.X {
		pts = append(pts, plotter.XY{X: d.X[i], Y: d.Y[i]})
	}
	pts = append(pts, plotter.XY{X: d.X[n-1], Y: 0})
	return pts
}

// CreateKDEPlot draws the densities as filled, semi-transparent areas. The
// curve with the lowest slot is drawn last so it sits on top.
func CreateKDEPlot(curves []DensityCurve, dpi int) ([]byte, error) {
	if len(curves) == 0 {
		return nil, fmt.Errorf("no densities to plot")
	}

	ordered := append([]DensityCurve(nil), curves...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Slot < ordered[j].Slot
	})

	p := plot.New()
	p.Title.Text = "KDE distribution of hydrogen bonds"
	p.X.Label.Text = "Number of hydrogen bonds"
	p.Y.Label.Text = "Kernel density"
	p.Y.Min = 0

	polys := make([]*plotter.Polygon, len(ordered))
	for i, c := range ordered {
		if c.Slot < 0 || c.Slot >= len(KDEPalette) {
			return nil, fmt.Errorf("no color for curve %q in slot %d", c.Label, c.Slot)
		}
		if len(c.X) == 0 || len(c.X) != len(c.Y) {
			return nil, fmt.Errorf("curve %q has %d x and %d y values", c.Label, len(c.X), len(c.Y))
		}
		poly, err := plotter.NewPolygon(areaUnder(c.Density))
		if err != nil {
			return nil, fmt.Errorf("failed to create area for %s: %v", c.Label, err)
		}
		poly.Color = fillColor(c.Slot)
		poly.LineStyle.Width = 0
		polys[i] = poly
	}
	for i := len(polys) - 1; i >= 0; i-- {
		p.Add(polys[i])
	}
	for i, c := range ordered {
		p.Legend.Add(c.Label, polys[i])
	}
	p.Legend.Top = true

	return renderPNG(p, 8*vg.Inch, 6*vg.Inch, dpi)
}
