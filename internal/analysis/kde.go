package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// GridPoints is the number of points a density is evaluated on.
const GridPoints = 500

// GaussianKDE is a one-dimensional kernel density estimate with a Gaussian
// kernel. The bandwidth follows Scott's rule: the sample standard deviation
// times n^(-1/5).
type GaussianKDE struct {
	data      []float64
	bandwidth float64
}

// NewGaussianKDE fits a density to data. It fails with ErrDegenerate when
// data has fewer than two points or no variance.
func NewGaussianKDE(data []float64) (*GaussianKDE, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: %d observation(s)", ErrDegenerate, len(data))
	}
	sd := stat.StdDev(data, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil, fmt.Errorf("%w: all %d observations equal %g", ErrDegenerate, len(data), data[0])
	}
	n := float64(len(data))
	kde := &GaussianKDE{
		data:      append([]float64(nil), data...),
		bandwidth: sd * math.Pow(n, -1.0/5.0),
	}
	return kde, nil
}

// Bandwidth returns the kernel standard deviation.
func (k *GaussianKDE) Bandwidth() float64 {
	return k.bandwidth
}

// At evaluates the density at x.
func (k *GaussianKDE) At(x float64) float64 {
	var sum float64
	for _, xi := range k.data {
		sum += distuv.Normal{Mu: xi, Sigma: k.bandwidth}.Prob(x)
	}
	return sum / float64(len(k.data))
}

// Evaluate returns the density at each point of xs.
func (k *GaussianKDE) Evaluate(xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = k.At(x)
	}
	return ys
}

// EstimateDensity fits a Gaussian KDE to data and evaluates it on GridPoints
// evenly spaced points between the smallest and largest observation.
func EstimateDensity(label string, data []float64) (*Density, error) {
	kde, err := NewGaussianKDE(data)
	if err != nil {
		return nil, err
	}
	xs := floats.Span(make([]float64, GridPoints), floats.Min(data), floats.Max(data))
	return &Density{
		Label:     label,
		X:         xs,
		Y:         kde.Evaluate(xs),
		Bandwidth: kde.Bandwidth(),
	}, nil
}
