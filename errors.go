package portalauth

import "errors"

var (
	// ErrInvalidCredentials is an exported constant or variable used by the authorization layer.
	// A wrong password and an unknown or inactive case number surface identically
	// so the login endpoint never enumerates case existence.
	ErrInvalidCredentials = errors.New("invalid case number or password")
	// ErrRateLimited is an exported constant or variable used by the authorization layer.
	ErrRateLimited = errors.New("too many login attempts")
	// ErrUnauthenticated is an exported constant or variable used by the authorization layer.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrCaseNotFound is an exported constant or variable used by the authorization layer.
	// Returned for sessions bound to a missing or deactivated case, rendered
	// identically to a case that never existed.
	ErrCaseNotFound = errors.New("case not found")
	// ErrPasswordPolicy is an exported constant or variable used by the authorization layer.
	ErrPasswordPolicy = errors.New("password must be at least 8 characters")
	// ErrCaseNumberExhausted is an exported constant or variable used by the authorization layer.
	ErrCaseNumberExhausted = errors.New("case number generation exhausted retries")
	// ErrGuardNotReady is an exported constant or variable used by the authorization layer.
	ErrGuardNotReady = errors.New("guard not initialized")

	// ErrProviderCaseNotFound is returned by CaseProvider implementations when
	// no record matches the lookup.
	ErrProviderCaseNotFound = errors.New("provider case not found")
	// ErrProviderDuplicateCaseNumber is returned by CaseProvider implementations
	// when a create collides with the case-number uniqueness constraint.
	ErrProviderDuplicateCaseNumber = errors.New("provider duplicate case number")
)
