package parser

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

func isNDXHeader(line string) bool {
	return strings.HasPrefix(line, "[")
}

// ParseNDXPairs reads donor/acceptor index pairs from an index file. Section
// headers ("[ name ]") and blank lines are ignored, as are lines that don't
// hold exactly two integers. The second return value lists the skipped lines.
func ParseNDXPairs(r io.Reader) ([]IndexPair, []string, error) {
	pairs := make([]IndexPair, 0)
	var skipped []string
	sc := newScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if isNDXHeader(line) || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			skipped = append(skipped, fmt.Sprintf("line %d: expected 2 fields, found %d", lineNo, len(fields)))
			continue
		}
		donor, errD := strconv.Atoi(fields[0])
		acceptor, errA := strconv.Atoi(fields[1])
		if errD != nil || errA != nil {
			skipped = append(skipped, fmt.Sprintf("line %d: non-integer index in %q", lineNo, strings.TrimSpace(line)))
			continue
		}
		pairs = append(pairs, IndexPair{Donor: donor, Acceptor: acceptor})
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read ndx data: %w", err)
	}
	for _, s := range skipped {
		slog.Debug("Skipping ndx line.", "reason", s)
	}
	return pairs, skipped, nil
}

// LoadNDXPairs is ParseNDXPairs on the file at path.
func LoadNDXPairs(path string) ([]IndexPair, []string, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()
	pairs, skipped, err := ParseNDXPairs(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return pairs, skipped, nil
}

// ParseNDXLabels returns every non-header, non-blank line of an index file,
// trimmed, in file order. The order must match the column order of the
// matching hydrogen-bond map.
func ParseNDXLabels(r io.Reader) ([]string, error) {
	labels := make([]string, 0)
	sc := newScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if isNDXHeader(line) {
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		labels = append(labels, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ndx data: %w", err)
	}
	return labels, nil
}

// LoadNDXLabels is ParseNDXLabels on the file at path.
func LoadNDXLabels(path string) ([]string, error) {
	return load(path, ParseNDXLabels)
}
