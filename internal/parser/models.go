package parser

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNoData is returned when a matrix file holds no pixel rows at all.
	ErrNoData = errors.New("no data rows found")
	// ErrRaggedMatrix is returned when the pixel rows of an XPM file differ in length.
	ErrRaggedMatrix = errors.New("matrix rows have different lengths")
	// ErrLabelMismatch is returned when there are fewer pair labels than matrix columns.
	ErrLabelMismatch = errors.New("fewer pair labels than matrix columns")
)

// TimeSeries holds the samples of a GROMACS hydrogen-bond count file.
// TimesNS and Counts always have the same length.
type TimeSeries struct {
	TimesNS []float64
	Counts  []int
	Skipped []string // Reasons for data lines that could not be used
}

// Len returns the number of samples.
func (ts *TimeSeries) Len() int {
	return len(ts.Counts)
}

// Empty reports whether the series holds no usable samples.
func (ts *TimeSeries) Empty() bool {
	return ts == nil || len(ts.Counts) == 0
}

// IndexPair is a donor/acceptor index pair read from an index file.
type IndexPair struct {
	Donor    int
	Acceptor int
}

func (p IndexPair) String() string {
	return fmt.Sprintf("%d-%d", p.Donor, p.Acceptor)
}

// PixelMap is the raw content of an XPM file: one row per donor-acceptor
// pair, one column per frame.
type PixelMap struct {
	Rows    [][]bool
	Skipped []string
}

// OccurrenceMatrix is a frames x pairs table of bond-present flags (0 or 1).
type OccurrenceMatrix struct {
	Data   *mat.Dense
	Labels []string // Labels[j] names column j
}

// Dims returns the number of frames and pairs.
func (m *OccurrenceMatrix) Dims() (frames, pairs int) {
	return m.Data.Dims()
}

// Column returns a copy of the flags for pair j across all frames.
func (m *OccurrenceMatrix) Column(j int) []float64 {
	return mat.Col(nil, j, m.Data)
}
