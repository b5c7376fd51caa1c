package llm

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when a provider is used without the
// credential it needs.
var ErrNotConfigured = errors.New("provider is not configured")

// RequestError carries the transport status and body of a failed
// generation call.
type RequestError struct {
	Provider string
	Status   int
	Body     string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request failed: status %d: %s", e.Provider, e.Status, e.Body)
}

// AsRequestError unwraps err into a RequestError if possible.
func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
