package models

import "errors"

// Domain specific errors shared across the marketplace packages.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrBadRequest      = errors.New("bad request")
	ErrValidation      = errors.New("validation failed")
	ErrModerated       = errors.New("content rejected by moderation")
	ErrNotSeller       = errors.New("seller onboarding required")
)
