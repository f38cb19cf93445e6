package domain

import "errors"

var (
	// ErrInvalidInput rejects malformed coordinates or missing required
	// fields before any side effect.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDeviceNotFound rejects samples for unknown or inactive devices.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrNotFound is returned when a referenced entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrPersistence wraps datastore write failures. Retryable by the caller.
	ErrPersistence = errors.New("persistence failure")
)
