package domain

import "errors"

// Session manager error taxonomy. Callers match with errors.Is; the wrapped
// message carries the operation context.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidState    = errors.New("invalid state")
	ErrAccessDenied    = errors.New("access denied")
	ErrInvalidArtifact = errors.New("invalid artifact")
)
