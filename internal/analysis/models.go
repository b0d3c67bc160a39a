package analysis

import "errors"

// ErrDegenerate is returned when a sample has too few distinct values to fit
// a density to.
var ErrDegenerate = errors.New("sample has no spread, cannot estimate density")

// PairOccurrence is the share of frames in which one donor-acceptor pair is
// bonded, in percent.
type PairOccurrence struct {
	Label   string
	Percent float64
}

// ResidueOccurrence is the number of bonded frames summed over every pair a
// residue takes part in, as donor or acceptor.
type ResidueOccurrence struct {
	Residue string
	Total   float64
}

// Summary holds the frame statistics printed for a time series.
type Summary struct {
	Frames      int
	MaxBonds    int
	MeanBonds   float64
	UniquePairs int
}

// HasFrames reports whether MaxBonds and MeanBonds are meaningful.
func (s Summary) HasFrames() bool {
	return s.Frames > 0
}

// Density is a kernel density estimate evaluated on a grid.
type Density struct {
	Label     string
	X         []float64
	Y         []float64
	Bandwidth float64
}

// OccurrenceResults holds everything derived from one hydrogen-bond map.
type OccurrenceResults struct {
	Pairs          []PairOccurrence    // Sorted by Percent, descending
	Residues       []ResidueOccurrence // Sorted by Total, descending
	Frames         int
	AnalysisErrors []string
}
