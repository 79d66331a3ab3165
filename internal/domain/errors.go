package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist: an unknown segment ID or a missing snapshot.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input cannot be
// applied at all (e.g. a malformed request body). Bad numeric input is not a
// validation error: it is coerced to a safe default instead.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")
