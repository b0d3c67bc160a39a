package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/user/hbond_analyzer_go/internal/parser"
)

var darkOrange = color.RGBA{R: 255, G: 140, B: 0, A: 255}

// CreateTimeSeriesPlot draws the hydrogen-bond count against simulation time.
func CreateTimeSeriesPlot(ts *parser.TimeSeries, dpi int) ([]byte, error) {
	if ts.Empty() {
		return nil, fmt.Errorf("no time series data to plot")
	}

	p := plot.New()
	p.Title.Text = "Hydrogen bonds along the trajectory"
	p.X.Label.Text = "Time (ns)"
	p.Y.Label.Text = "Hydrogen bonds"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, ts.Len())
	for i := range pts {
		pts[i].X = ts.TimesNS[i]
		pts[i].Y = float64(ts.Counts[i])
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create time series line: %v", err)
	}
	line.Color = darkOrange
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)

	return renderPNG(p, 10*vg.Inch, 6*vg.Inch, dpi)
}
