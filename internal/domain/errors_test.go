package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "error without wrapped error",
			appErr:   ErrProfileNotFound,
			expected: "User not found",
		},
		{
			name: "error with wrapped error",
			appErr: &AppError{
				Code:       "TEST_ERROR",
				Message:    "Test message",
				StatusCode: 500,
				Err:        errors.New("underlying error"),
			},
			expected: "Test message: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	appErr := &AppError{
		Code:       "TEST",
		Message:    "test",
		StatusCode: 500,
		Err:        underlying,
	}

	if got := appErr.Unwrap(); got != underlying {
		t.Errorf("Unwrap() = %v, want %v", got, underlying)
	}

	if got := ErrProfileNotFound.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestAppError_WithError(t *testing.T) {
	underlying := errors.New("disk full")
	newErr := ErrInternal.WithError(underlying)

	if newErr.Code != ErrInternal.Code {
		t.Errorf("Code = %v, want %v", newErr.Code, ErrInternal.Code)
	}

	if newErr.StatusCode != ErrInternal.StatusCode {
		t.Errorf("StatusCode = %v, want %v", newErr.StatusCode, ErrInternal.StatusCode)
	}

	if !errors.Is(newErr, underlying) {
		t.Errorf("errors.Is should return true for wrapped error")
	}

	if !errors.Is(newErr, ErrInternal) {
		t.Errorf("errors.Is should match the sentinel after WithError")
	}
}

func TestAppError_Is(t *testing.T) {
	wrapped := fmt.Errorf("register alice: %w", ErrProfileExists.WithError(errors.New("file exists")))

	if !errors.Is(wrapped, ErrProfileExists) {
		t.Errorf("expected wrapped error to match ErrProfileExists")
	}
	if errors.Is(wrapped, ErrProfileNotFound) {
		t.Errorf("did not expect wrapped error to match ErrProfileNotFound")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As should find the AppError")
	}
	if appErr.StatusCode != 409 {
		t.Errorf("StatusCode = %d, want 409", appErr.StatusCode)
	}
}

func TestErrorTaxonomyStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{ErrValidationFailed, 400},
		{ErrInvalidImage, 400},
		{ErrInvalidName, 400},
		{ErrNoFaceDetected, 400},
		{ErrMultipleFaces, 400},
		{ErrUnknownUser, 400},
		{ErrProfileNotFound, 404},
		{ErrProfileExists, 409},
		{ErrRateLimitExceeded, 429},
		{ErrCorruptProfile, 500},
		{ErrExtractorUnavailable, 502},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			if tt.err.StatusCode != tt.want {
				t.Errorf("StatusCode = %d, want %d", tt.err.StatusCode, tt.want)
			}
		})
	}
}
