package services

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned for any 401 from the Note Service. Callers
// treat it as an expired session.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx, non-401 response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("note service returned status %d", e.Status)
	}
	return fmt.Sprintf("note service returned status %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err signals an expired or missing session.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
