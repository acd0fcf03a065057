package auth

import "errors"

var (
	// ErrMissingAPIKey is returned when no API key accompanies the request.
	ErrMissingAPIKey = errors.New("api key required")

	// ErrInvalidAPIKey is returned when the presented API key is not recognized.
	ErrInvalidAPIKey = errors.New("invalid api key")
)
