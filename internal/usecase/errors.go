package usecase

import "errors"

// Error taxonomy shared by every service. Callers match with errors.Is and the
// HTTP layer maps each sentinel to one status code. ErrConflict means the
// request clashes with current state, for example a pick after kickoff.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
