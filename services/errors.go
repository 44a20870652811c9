package services

import "errors"

// Sentinel errors surfaced by the services; handlers map them to HTTP
// statuses. A duplicate submission is deliberately NOT in this list: it
// is a successful zero-award result, not a failure.
var (
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrUsernameTaken       = errors.New("username is already taken")
	ErrUserNotFound        = errors.New("user not found")
	ErrUnsupportedImage    = errors.New("unsupported image format")
	ErrDetectorUnavailable = errors.New("detection model is not available")
)
