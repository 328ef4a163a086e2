package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps network-level failures (DNS, TLS, refused connections).
	ErrTransport = errors.New("apiclient: transport failure")
	// ErrMalformedResponse is returned when a JSON response cannot be decoded.
	ErrMalformedResponse = errors.New("apiclient: malformed response")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API Error: %d - %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == 404
}
