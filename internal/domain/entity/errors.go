package entity

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrProviderUnavailable  = errors.New("provider unavailable")
	ErrBillingNotConfigured = errors.New("billing is not configured")
)
