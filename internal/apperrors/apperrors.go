package apperrors

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned for any 401 from the hotel API. Callers must
// clear the session token when they see it.
var ErrUnauthorized = errors.New("unauthorized, please login again")

// ErrNotSubmittable is returned when a checkout submission is attempted from
// a state where submitting is not legal (including while a previous
// submission is still in flight).
var ErrNotSubmittable = errors.New("checkout is not in a submittable state")

// ErrBookingNotFound marks a failed initial booking lookup on the
// confirmation view. It is terminal for that view.
var ErrBookingNotFound = errors.New("booking record not found")

// RequestError carries the message extracted from a non-2xx hotel API
// response body.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Error %d", e.Status)
}

// ValidationError holds field-level messages for guest info that failed
// local validation. These never reach the network.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
