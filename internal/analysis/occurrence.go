package analysis

import (
	"fmt"
	"regexp"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/user/hbond_analyzer_go/internal/parser"
)

// residuePairPattern matches labels such as "ALA-12-N - GLY-45-O", capturing
// the donor and acceptor residue names.
var residuePairPattern = regexp.MustCompile(`^(\S+)-\d+.* - (\S+)-\d+`)

// ResidueNames extracts the donor and acceptor residue names from a pair
// label. ok is false when the label doesn't have the expected shape.
func ResidueNames(label string) (donor, acceptor string, ok bool) {
	match := residuePairPattern.FindStringSubmatch(label)
	if match == nil {
		return "", "", false
	}
	return match[1], match[2], true
}

// PairOccurrences returns, for each column of m, the percentage of frames in
// which the bond is present, sorted from most to least frequent. Pairs with
// equal percentages keep their column order.
func PairOccurrences(m *parser.OccurrenceMatrix) []PairOccurrence {
	_, pairs := m.Dims()
	out := make([]PairOccurrence, pairs)
	for j := 0; j < pairs; j++ {
		out[j] = PairOccurrence{
			Label:   m.Labels[j],
			Percent: stat.Mean(m.Column(j), nil) * 100,
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percent > out[j].Percent // Descending
	})
	return out
}

// ResidueOccurrences sums the bonded frames of every pair into the totals of
// both its donor and its acceptor residue. Labels that don't name two
// residues are skipped and reported in the second return value.
func ResidueOccurrences(m *parser.OccurrenceMatrix) ([]ResidueOccurrence, []string) {
	totals := make(map[string]float64)
	var skipped []string
	_, pairs := m.Dims()
	for j := 0; j < pairs; j++ {
		donor, acceptor, ok := ResidueNames(m.Labels[j])
		if !ok {
			skipped = append(skipped, fmt.Sprintf("Label %q does not name a donor and acceptor residue.", m.Labels[j]))
			continue
		}
		sum := floats.Sum(m.Column(j))
		totals[donor] += sum
		totals[acceptor] += sum
	}

	out := make([]ResidueOccurrence, 0, len(totals))
	for name, total := range totals {
		out = append(out, ResidueOccurrence{Residue: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total // Descending
		}
		return out[i].Residue < out[j].Residue
	})
	return out, skipped
}

// AnalyzeOccurrence computes the per-pair and per-residue statistics of m.
func AnalyzeOccurrence(m *parser.OccurrenceMatrix) (*OccurrenceResults, error) {
	if m == nil || m.Data == nil {
		return nil, fmt.Errorf("occurrence matrix is nil or empty, cannot analyze")
	}
	frames, _ := m.Dims()
	residues, skipped := ResidueOccurrences(m)
	return &OccurrenceResults{
		Pairs:          PairOccurrences(m),
		Residues:       residues,
		Frames:         frames,
		AnalysisErrors: skipped,
	}, nil
}
