package domain

import (
	"time"
)

// Embedding is the identity-bearing feature vector of a single face.
type Embedding []float64

// Profile is the stored name -> embedding record of one enrolled person.
type Profile struct {
	Name      string    `json:"name"`
	Embedding Embedding `json:"-"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// MatchStatus tells whether a match result names a stored identity.
type MatchStatus string

const (
	MatchRecognized MatchStatus = "recognized"
	MatchUnknown    MatchStatus = "unknown_person"
	MatchNoFace     MatchStatus = "no_persons_found"
)

// MatchResult is the outcome of comparing a query face against every profile.
// Name is only set when Status is MatchRecognized. Score is the best similarity
// seen, reported for unknown results too.
type MatchResult struct {
	Status   MatchStatus `json:"status"`
	Name     string      `json:"name,omitempty"`
	Score    float64     `json:"score"`
	Distance float64     `json:"distance"`
}

func (r MatchResult) Recognized() bool {
	return r.Status == MatchRecognized
}

// ScorePercent returns the similarity as a percentage rounded to 2 decimals.
func (r MatchResult) ScorePercent() float64 {
	return RoundPercent(r.Score)
}
