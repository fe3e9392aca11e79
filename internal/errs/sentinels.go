// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across api/store/session layers.
var (
	// ErrNotFound indicates the requested entity or persisted record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the backend rejected the bearer token (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotAuthenticated indicates an authenticated-only action was attempted without a token.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrTimeout indicates the request did not complete within the client timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrNetwork indicates no server response was received (dial, reset, DNS).
	ErrNetwork = errors.New("network error")

	// ErrInvalidQuantity indicates a cart quantity below 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrEmptyCart indicates checkout was attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrValidation indicates local input validation failed before any request.
	ErrValidation = errors.New("validation")
)
