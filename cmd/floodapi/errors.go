package floodapi

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two failure kinds the client reports. Typed errors
// below match them through errors.Is.
var (
	// ErrNetwork covers transport failures and non-2xx responses.
	ErrNetwork = errors.New("network failure")

	// ErrMalformedResponse covers bodies that are not the expected JSON shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidReference is returned before any request for an empty station reference.
	ErrInvalidReference = errors.New("invalid station reference")
)

// NetworkError is returned when a request could not be completed or the
// server answered with a non-2xx status.
type NetworkError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is implements errors.Is support.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// MalformedResponseError is returned when the body could not be decoded into
// the expected shape.
type MalformedResponseError struct {
	URL    string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	msg := fmt.Sprintf("GET %s: malformed response: %s", e.URL, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Is implements errors.Is support.
func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }
