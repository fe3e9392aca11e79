package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a server-reported failure (4xx/5xx) with the body's message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Unwrap maps well-known statuses onto sentinels so errors.Is works.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// Kind is a coarse error class used by callers to pick user-facing behaviour.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindTimeout
	KindServer
	KindUnauthorized
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindServer:
		return "server"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	}
	return "unknown"
}

// Classify places err into the error taxonomy.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	switch {
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrNotAuthenticated):
		return KindUnauthorized
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrEmptyCart):
		return KindValidation
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return KindServer
	}
	return KindUnknown
}

// Message returns the text to show a user, or fallback when err carries none.
func Message(err error, fallback string) string {
	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	if err != nil && fallback == "" {
		return err.Error()
	}
	return fallback
}
