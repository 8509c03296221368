package errs

import (
	"errors"
	"fmt"
)

// Common sentinel errors returned by the engines. The transport layer
// translates them into status codes; the engines themselves never
// produce user-facing text.
var (
	// Entity absent.
	ErrNotFound = errors.New("not found")
	// Another actor won a race for the same row (e.g. two creates
	// allocating the same order id).
	ErrDataConflict = errors.New("data conflict")
	// Order is no longer NEW: somebody claimed it first.
	ErrOrderTaken = errors.New("order already taken")
	// Requested state change is not legal from the current state.
	ErrInvalidTransition = errors.New("invalid status transition")
	// Malformed or out-of-range input.
	ErrInvalidRequest = errors.New("invalid request")
	// Login/password pair did not check out.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// Record already exists (unique violation on a natural key).
	ErrAlreadyExists = errors.New("already exists")
)

// Type just for marshalling purpose.
// Should only be used immediately before marshalling.
type JSON struct {
	Error string `json:"error"`
}

// Provides details at which field unique violation has occurred.
type AlreadyExistsError struct {
	FieldName string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("record with field %q already exists", e.FieldName)
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}
