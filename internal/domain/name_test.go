package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "simple", input: "alice", want: "alice"},
		{name: "trimmed", input: "  alice  ", want: "alice"},
		{name: "full name with space", input: "Alice Smith", want: "Alice Smith"},
		{name: "accents", input: "João da Silva", want: "João da Silva"},
		{name: "punctuation", input: "j.doe_2-b", want: "j.doe_2-b"},
		{name: "empty", input: "   ", wantErr: ErrValidationFailed},
		{name: "path traversal", input: "../etc/passwd", wantErr: ErrInvalidName},
		{name: "hidden file", input: ".alice", wantErr: ErrInvalidName},
		{name: "slash", input: "a/b", wantErr: ErrInvalidName},
		{name: "backslash", input: `a\b`, wantErr: ErrInvalidName},
		{name: "control char", input: "a\x00b", wantErr: ErrInvalidName},
		{name: "comma breaks the event log", input: "doe,john", wantErr: ErrInvalidName},
		{name: "too long", input: strings.Repeat("a", MaxNameLength+1), wantErr: ErrInvalidName},
		{name: "max length", input: strings.Repeat("a", MaxNameLength), want: strings.Repeat("a", MaxNameLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeName(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NormalizeName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeName(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoundPercent(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{1.0, 100},
		{0.0, 0},
		{0.61234, 61.23},
		{0.999999, 100},
	}

	for _, tt := range tests {
		if got := RoundPercent(tt.score); got != tt.want {
			t.Errorf("RoundPercent(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestMatchResult_Recognized(t *testing.T) {
	if !(MatchResult{Status: MatchRecognized, Name: "alice"}).Recognized() {
		t.Error("recognized result should report Recognized")
	}
	if (MatchResult{Status: MatchUnknown}).Recognized() {
		t.Error("unknown result should not report Recognized")
	}
	if (MatchResult{Status: MatchNoFace}).Recognized() {
		t.Error("no-face result should not report Recognized")
	}
}
