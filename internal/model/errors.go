package model

import "errors"

// Sentinel errors shared across store drivers and services.
var (
	ErrNotFound  = errors.New("not found")
	ErrInvalid   = errors.New("invalid request")
	ErrDuplicate = errors.New("already exists")
)
