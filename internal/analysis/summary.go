package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/user/hbond_analyzer_go/internal/parser"
)

// Summarize returns the frame count, maximum and mean bond count of ts, along
// with the number of donor-acceptor pairs found in the index file.
func Summarize(ts *parser.TimeSeries, pairs []parser.IndexPair) Summary {
	s := Summary{UniquePairs: len(pairs)}
	if ts.Empty() {
		return s
	}
	counts := make([]float64, ts.Len())
	for i, c := range ts.Counts {
		counts[i] = float64(c)
	}
	s.Frames = len(counts)
	s.MaxBonds = int(floats.Max(counts))
	s.MeanBonds = stat.Mean(counts, nil)
	return s
}
