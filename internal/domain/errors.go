package domain

import "errors"

// Sentinel errors shared across services and handlers. Services wrap these
// with detail via fmt.Errorf("...: %w", Err...); handlers match with
// errors.Is and map them to HTTP status codes.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
