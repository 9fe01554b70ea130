package services

import "errors"

// Sentinel errors returned by the service layer. Handlers translate them to
// HTTP status codes; anything else is a storage failure and maps to 500.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
