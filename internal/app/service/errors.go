package service

import "errors"

var (
	// ErrValidation signals malformed input such as a non-absolute target URL.
	ErrValidation = errors.New("validation failed")

	// ErrMaxAttemptsExceeded signals that every candidate slug collided or was reserved.
	ErrMaxAttemptsExceeded = errors.New("max slug generation attempts exceeded")

	// ErrNotFound signals that no link exists for the slug.
	ErrNotFound = errors.New("link not found")

	// ErrUnavailable signals that the store failed its liveness probe.
	ErrUnavailable = errors.New("store unavailable")

	// ErrInternal wraps every other store or infrastructure failure.
	ErrInternal = errors.New("internal error")
)
