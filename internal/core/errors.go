package core

import "errors"

// Error kinds returned by the engine. Handlers match these with errors.Is
// and translate them to HTTP status codes; the engine itself carries no
// user-facing text.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrInvalidState     = errors.New("invalid state")
	ErrNotAvailable     = errors.New("listing not available")
	ErrInThePast        = errors.New("start time is in the past")
	ErrDuplicateRequest = errors.New("duplicate request")
	ErrAlreadyMember    = errors.New("already a member")
	ErrNotFound         = errors.New("not found")
)
