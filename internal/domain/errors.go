package domain

import "errors"

var (
	// ErrNotFound means the referenced booking or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRoomBusy means an existing booking overlaps the requested interval.
	ErrRoomBusy = errors.New("room already booked at this time")

	// ErrEmailExists means the registration email is already taken.
	ErrEmailExists = errors.New("email already exists")

	// ErrNotPending means a transition was attempted from a terminal status.
	ErrNotPending = errors.New("booking is not pending")

	// ErrInvalidStatus means a status outside the closed set was supplied.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidPassword means the credentials did not match.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrPendingApproval means the account has not been approved yet.
	ErrPendingApproval = errors.New("account is pending approval")
)

// ValidationError rejects a request with a client-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError with the given message.
func Invalid(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// MissingField builds a ValidationError naming a required field.
func MissingField(field string) *ValidationError {
	return &ValidationError{Message: "missing required field: " + field}
}
