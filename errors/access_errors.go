// errors/access_errors.go
package errors

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidAccessQuery = errors.New("invalid access query")

	ErrNoLoader = errors.New("scope cache has no loader configured")

	ErrRegistryUnavailable = errors.New("registry unavailable")
	ErrInternalServer      = errors.New("internal server error")
)
