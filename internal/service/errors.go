package service

import "errors"

// Sentinel errors translated to status codes by the HTTP layer. ErrNotFound
// deliberately covers absent, soft-deleted and not-owned records alike so a
// caller can never probe for another tenant's data.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrConflict        = errors.New("conflict")
)
