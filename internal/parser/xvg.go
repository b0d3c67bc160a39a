package parser

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// psPerNS converts GROMACS picosecond time stamps to nanoseconds.
const psPerNS = 1000.0

// isXVGMetadata reports whether line is an xmgrace directive or a comment.
func isXVGMetadata(line string) bool {
	return strings.HasPrefix(line, "@") || strings.HasPrefix(line, "#")
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ParseXVG reads a hydrogen-bond count time series from r.
// Lines starting with '@' or '#' and blank lines are ignored. Every other line
// must have at least two whitespace-separated fields: the time in ps and the
// bond count. Lines that don't parse, or whose values are not finite or whose
// count does not fit an int32, are skipped and their reason recorded in
// TimeSeries.Skipped.
func ParseXVG(r io.Reader) (*TimeSeries, error) {
	ts := &TimeSeries{
		TimesNS: make([]float64, 0),
		Counts:  make([]int, 0),
		Skipped: make([]string, 0),
	}
	sc := newScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if isXVGMetadata(line) || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			ts.skip(lineNo, "expected at least 2 fields, found %d", len(fields))
			continue
		}
		timePS, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || !isFinite(timePS) {
			ts.skip(lineNo, "bad time %q", fields[0])
			continue
		}
		count, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || !isFinite(count) || math.Abs(count) >= math.MaxInt32 {
			ts.skip(lineNo, "bad bond count %q", fields[1])
			continue
		}
		ts.TimesNS = append(ts.TimesNS, timePS/psPerNS)
		ts.Counts = append(ts.Counts, int(count)) // truncates toward zero
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read xvg data: %w", err)
	}
	return ts, nil
}

func (ts *TimeSeries) skip(lineNo int, format string, args ...any) {
	reason := fmt.Sprintf("line %d: ", lineNo) + fmt.Sprintf(format, args...)
	slog.Debug("Skipping xvg line.", "reason", reason)
	ts.Skipped = append(ts.Skipped, reason)
}

// LoadXVG is ParseXVG on the file at path.
func LoadXVG(path string) (*TimeSeries, error) {
	return load(path, ParseXVG)
}

// ParseCounts reads only the bond-count column of an xvg stream, without
// truncating it. The time column is not looked at, so a line with a
// malformed time but a valid count still contributes.
func ParseCounts(r io.Reader) ([]float64, []string, error) {
	counts := make([]float64, 0)
	var skipped []string
	sc := newScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if isXVGMetadata(line) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || !isFinite(v) {
			reason := fmt.Sprintf("line %d: bad bond count %q", lineNo, fields[1])
			slog.Debug("Skipping xvg line.", "reason", reason)
			skipped = append(skipped, reason)
			continue
		}
		counts = append(counts, v)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read xvg data: %w", err)
	}
	return counts, skipped, nil
}

// LoadCounts is ParseCounts on the file at path.
func LoadCounts(path string) ([]float64, []string, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()
	counts, skipped, err := ParseCounts(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return counts, skipped, nil
}
