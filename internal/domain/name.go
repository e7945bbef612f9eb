package domain

import (
	"errors"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

const MaxNameLength = 64

// NormalizeName trims the name and checks that it is safe to use as a storage
// key and file name. Names are never rewritten: anything outside the allowed
// alphabet is rejected so two inputs cannot collide on one record.
func NormalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrValidationFailed.WithError(errNameRequired)
	}

	if utf8.RuneCountInString(name) > MaxNameLength || !utf8.ValidString(name) {
		return "", ErrInvalidName
	}

	for i, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
		case i > 0 && (r == ' ' || r == '.' || r == '_' || r == '-'):
		default:
			return "", ErrInvalidName
		}
	}

	return name, nil
}

// RoundPercent converts a [0,1] score to a percentage with 2 decimals.
func RoundPercent(score float64) float64 {
	return math.Round(score*10000) / 100
}

var errNameRequired = errors.New("name is required")
