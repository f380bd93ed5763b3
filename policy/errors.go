package policy

import "errors"

var (
	// ErrRegistryRequired is returned when a tenant registry is not provided.
	ErrRegistryRequired = errors.New("tenant registry required")

	// ErrDuplicateTenant indicates the same tenant id was registered twice.
	ErrDuplicateTenant = errors.New("duplicate tenant id")

	// ErrInvalidPattern indicates a sensitive prompt pattern failed to compile.
	ErrInvalidPattern = errors.New("invalid sensitive prompt pattern")

	// ErrInvalidPolicy indicates a tenant policy failed validation.
	ErrInvalidPolicy = errors.New("invalid tenant policy")
)

// Deny reasons surfaced to callers. These are stable strings: they appear in
// responses and trace records.
const (
	ReasonUnknownTenant   = "unknown_tenant"
	ReasonRateLimited     = "rate_limited"
	ReasonRouteNotAllowed = "route_not_allowed"
)
