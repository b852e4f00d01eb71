package domain

import "errors"

// Sentinel errors for gateway operations
var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrServerOffline indicates the index API is unreachable
	ErrServerOffline = errors.New("index API is unreachable")

	// ErrDecode indicates the API returned a body that could not be parsed
	ErrDecode = errors.New("failed to decode API response")

	// ErrNoImage indicates an image carried no opaque pixels to sample
	ErrNoImage = errors.New("image has no opaque pixels")
)
