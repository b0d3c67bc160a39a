package parser

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const (
	pixelAbsent  = '.'
	pixelPresent = 'o'
)

// quoted returns the text between the first two double quotes of line.
func quoted(line string) (string, bool) {
	if !strings.HasPrefix(line, `"`) {
		return "", false
	}
	end := strings.IndexByte(line[1:], '"')
	if end < 0 {
		return "", false
	}
	return line[1 : end+1], true
}

func isPixelRow(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != pixelAbsent && s[i] != pixelPresent {
			return false
		}
	}
	return true
}

// ParseXPM reads the pixel rows of a GROMACS hydrogen-bond map. Only quoted
// strings made entirely of '.' and 'o' are data; the XPM values line and the
// colour table are skipped. Each row is one donor-acceptor pair and each
// character one frame, 'o' meaning the bond is present.
func ParseXPM(r io.Reader) (*PixelMap, error) {
	pm := &PixelMap{Rows: make([][]bool, 0)}
	sc := newScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		s, ok := quoted(sc.Text())
		if !ok {
			continue
		}
		if !isPixelRow(s) {
			pm.Skipped = append(pm.Skipped, fmt.Sprintf("line %d: not a pixel row", lineNo))
			continue
		}
		row := make([]bool, len(s))
		for i := 0; i < len(s); i++ {
			row[i] = s[i] == pixelPresent
		}
		pm.Rows = append(pm.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read xpm data: %w", err)
	}
	if len(pm.Rows) == 0 {
		return nil, ErrNoData
	}
	width := len(pm.Rows[0])
	for i, row := range pm.Rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d frames, row 1 has %d", ErrRaggedMatrix, i+1, len(row), width)
		}
	}
	return pm, nil
}

// LoadXPM is ParseXPM on the file at path.
func LoadXPM(path string) (*PixelMap, error) {
	return load(path, ParseXPM)
}

// Dense returns the pixel map as a pairs x frames matrix of 0/1 values.
func (pm *PixelMap) Dense() *mat.Dense {
	rows, cols := len(pm.Rows), len(pm.Rows[0])
	data := make([]float64, 0, rows*cols)
	for _, row := range pm.Rows {
		for _, present := range row {
			if present {
				data = append(data, 1)
			} else {
				data = append(data, 0)
			}
		}
	}
	return mat.NewDense(rows, cols, data)
}

// NewOccurrenceMatrix transposes pm so that rows are frames and columns are
// pairs, and names the columns with labels. Labels beyond the number of
// columns are dropped; fewer labels than columns is an error.
func NewOccurrenceMatrix(pm *PixelMap, labels []string) (*OccurrenceMatrix, error) {
	if pm == nil || len(pm.Rows) == 0 {
		return nil, ErrNoData
	}
	var data mat.Dense
	data.CloneFrom(pm.Dense().T())
	_, pairs := data.Dims()
	if len(labels) < pairs {
		return nil, fmt.Errorf("%w: %d labels for %d pairs", ErrLabelMismatch, len(labels), pairs)
	}
	if len(labels) > pairs {
		slog.Warn("More pair labels than hydrogen-bond map columns, dropping the excess.",
			"labels", len(labels), "columns", pairs)
	}
	cols := make([]string, pairs)
	copy(cols, labels[:pairs])
	return &OccurrenceMatrix{Data: &data, Labels: cols}, nil
}
