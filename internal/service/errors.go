package service

import "errors"

// Service-level error taxonomy. Handlers map these to HTTP status classes;
// nothing below the boundary formats user-facing messages.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidRole        = errors.New("role must be doctor or patient")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("forbidden")
	ErrNoSuchPatient      = errors.New("no patient with that email")
	ErrValidation         = errors.New("invalid input")
	ErrStoreUnavailable   = errors.New("store unavailable")
)

func storeError(err error) error {
	return errors.Join(ErrStoreUnavailable, err)
}
