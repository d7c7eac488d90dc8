package usecase

import "errors"

// Sentinel errors shared by every service. Handlers match them with
// errors.Is and map them onto HTTP statuses; services wrap them with
// fmt.Errorf("%w: ...") to attach the offending identifier.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
