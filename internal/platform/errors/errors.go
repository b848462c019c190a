package apperrors

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrNoActiveSession = errors.New("no active session")
	ErrMalformedData   = errors.New("malformed session data")
	ErrPersistence     = errors.New("persistence failure")
)
