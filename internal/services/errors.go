package services

import "errors"

// Analysis service errors
var (
	// ErrNoInput is returned when a request carries no file content.
	ErrNoInput = errors.New("no input data")
)
