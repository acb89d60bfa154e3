package models

import "errors"

// Error kinds shared by repositories, services and controllers. Callers match
// them with errors.Is; the wrapped message carries the detail.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)
