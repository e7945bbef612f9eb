package rekognition

import "errors"

var (
	// ErrInvalidCredentials indicates that AWS credentials are invalid or missing
	ErrInvalidCredentials = errors.New("invalid or missing AWS credentials")

	// ErrInvalidImage indicates the image was rejected by Rekognition
	ErrInvalidImage = errors.New("image rejected by rekognition")

	// ErrThrottled indicates the request rate exceeded the account limits
	ErrThrottled = errors.New("rekognition request throttled")
)
