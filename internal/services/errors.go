package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user already exists")
	ErrTutorTaken         = errors.New("tutor already registered")
	ErrSubjectTaken       = errors.New("subject already exists")

	ErrUserNotFound    = errors.New("user not found")
	ErrTutorNotFound   = errors.New("tutor not found")
	ErrSubjectNotFound = errors.New("subject not found")
	ErrBookingNotFound = errors.New("booking not found")

	ErrNotAssignedTutor = errors.New("booking is not assigned to you")
	ErrBookingNotOpen   = errors.New("booking can no longer be changed")
)

// ValidationError marks bad input; handlers map it to 400.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func NewValidationError(msg string) error {
	return &ValidationError{msg: msg}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
