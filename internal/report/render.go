package report

import (
	"bytes"
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DefaultDPI is the resolution charts are rendered at.
const DefaultDPI = 300

// renderPNG draws p on a w x h canvas at dpi and returns the PNG encoding.
func renderPNG(p *plot.Plot, w, h vg.Length, dpi int) ([]byte, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	p.Draw(draw.New(c))

	buf := new(bytes.Buffer)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %v", err)
	}
	return buf.Bytes(), nil
}

// SavePNG writes an encoded chart to path.
func SavePNG(path string, img []byte) error {
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

// sampleColors picks n colors spread evenly over cm, leaving out both ends
// so that none of them fades into the white background.
func sampleColors(cm palette.ColorMap, n int) []color.Color {
	cm.SetMin(0)
	cm.SetMax(1)
	colors := make([]color.Color, n)
	for i := range colors {
		v := 0.5
		if n > 1 {
			v = 0.1 + 0.75*float64(i)/float64(n-1)
		}
		c, err := cm.At(v)
		if err != nil {
			c = color.Gray{Y: 128}
		}
		colors[i] = c
	}
	return colors
}
