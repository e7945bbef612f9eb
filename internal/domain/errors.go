package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches AppErrors by code so that sentinels survive WithError copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 400,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 400,
	}

	ErrInvalidName = &AppError{
		Code:       "INVALID_NAME",
		Message:    "Name must be 1-64 letters, digits, spaces, dots, dashes or underscores",
		StatusCode: 400,
	}

	ErrProfileNotFound = &AppError{
		Code:       "PROFILE_NOT_FOUND",
		Message:    "User not found",
		StatusCode: 404,
	}

	ErrProfileExists = &AppError{
		Code:       "PROFILE_EXISTS",
		Message:    "User with this name already exists",
		StatusCode: 409,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected",
		StatusCode: 400,
	}

	ErrMultipleFaces = &AppError{
		Code:       "MULTIPLE_FACES",
		Message:    "Multiple faces detected, please provide image with single face",
		StatusCode: 400,
	}

	ErrUnknownUser = &AppError{
		Code:       "UNKNOWN_USER",
		Message:    "Unknown user. Please register new user or try again.",
		StatusCode: 400,
	}

	ErrCorruptProfile = &AppError{
		Code:       "CORRUPT_PROFILE",
		Message:    "Stored profile data is corrupted",
		StatusCode: 500,
	}

	ErrExtractorUnavailable = &AppError{
		Code:       "EXTRACTOR_UNAVAILABLE",
		Message:    "Face recognition backend unavailable",
		StatusCode: 502,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}
)
