// Package matcher picks the enrolled identity closest to a query face.
package matcher

import (
	"errors"
	"fmt"
	"sort"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

// DefaultThreshold is the minimum similarity accepted as a positive identification.
const DefaultThreshold = 0.6

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

type Matcher struct {
	threshold float64
}

func New(threshold float64) *Matcher {
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultThreshold
	}
	return &Matcher{threshold: threshold}
}

func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Match scans every stored embedding and returns the best one whose similarity
// strictly exceeds the threshold. Names are visited in lexical order and only a
// strictly greater similarity replaces the current best, so ties resolve to the
// lexically smallest name.
//
// An empty query means no face was extracted and yields MatchNoFace. A stored
// embedding with a different dimension than the query is reported as corrupt.
func (m *Matcher) Match(query domain.Embedding, stored map[string]domain.Embedding) (domain.MatchResult, error) {
	if len(query) == 0 {
		return domain.MatchResult{Status: domain.MatchNoFace}, nil
	}

	names := make([]string, 0, len(stored))
	for name := range stored {
		names = append(names, name)
	}
	sort.Strings(names)

	result := domain.MatchResult{Status: domain.MatchUnknown}
	bestName := ""
	for _, name := range names {
		embedding := stored[name]
		if len(embedding) != len(query) {
			return domain.MatchResult{}, fmt.Errorf("profile %q: %w (stored %d, query %d)",
				name, ErrDimensionMismatch, len(embedding), len(query))
		}

		distance := EuclideanDistance(query, embedding)
		similarity := Similarity(distance)
		if bestName == "" || similarity > result.Score {
			bestName = name
			result.Score = similarity
			result.Distance = distance
		}
	}

	if bestName != "" && result.Score > m.threshold {
		result.Status = domain.MatchRecognized
		result.Name = bestName
	}

	return result, nil
}
