package domain

import "errors"

// Validation errors: rejected before any persistence.
var (
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidPrice      = errors.New("price per hour must be positive")
	ErrInvalidTimeWindow = errors.New("start time must be before end time")
	ErrWindowInPast      = errors.New("rental window has already ended")
	ErrBikeUnavailable   = errors.New("bike is not available")
	ErrNotAnImage        = errors.New("file must be an image")
)

// Authentication / authorization errors.
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUnauthenticated    = errors.New("invalid authentication credentials")
	ErrForbidden          = errors.New("access denied")
)

// Not-found errors.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrBikeNotFound   = errors.New("bike not found")
	ErrRentalNotFound = errors.New("rental not found")
)

// ErrRentalNotActive marks an attempted transition on a terminal rental.
var ErrRentalNotActive = errors.New("only active rentals can be transitioned")

// ErrDependencyUnavailable marks a remote collaborator that is unreachable or
// timed out. Fatal on creation-path prerequisites, degraded elsewhere.
var ErrDependencyUnavailable = errors.New("dependency unavailable")
