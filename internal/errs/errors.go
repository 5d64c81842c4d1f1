package errs

import "errors"

var (
	// ErrInvalidTenant: tenant id missing or empty on a tenant-scoped call.
	ErrInvalidTenant = errors.New("tenant id is required")

	// ErrConnectionUnavailable: tenant store unreachable within the dial timeout.
	ErrConnectionUnavailable = errors.New("tenant store unavailable")

	// ErrBrokerUnavailable: publish transport down; the event was not accepted.
	ErrBrokerUnavailable = errors.New("broker unavailable")

	ErrNotFound = errors.New("not found")
)
