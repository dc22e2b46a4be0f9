package service

import "errors"

// Sentinel errors for the service layer. Handlers map these onto HTTP
// status codes; everything else is treated as an internal error.
var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized marks a resource the caller does not own. Handlers
	// must present it the same way as ErrNotFound so existence of other
	// users' resources cannot be probed.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound marks an absent resource.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a concurrent-mutation or uniqueness violation.
	ErrConflict = errors.New("conflict")

	// ErrInsufficientBalance rejects debits that would push a balance
	// below zero where funds are required (transfers).
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrConsistency marks a broken internal invariant. It should never
	// surface to a well-behaved caller.
	ErrConsistency = errors.New("consistency violation")
)
