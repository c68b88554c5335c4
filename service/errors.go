package service

import (
	"errors"
	"strings"
)

var (
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrLoginRequired      = errors.New("log in to finish this booking; it has been kept for you")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrNotCancellable     = errors.New("only upcoming bookings can be cancelled")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
)

type FieldError struct {
	Field   string
	Message string
}

// FieldErrors lists form problems in the order the fields appear.
type FieldErrors []FieldError

func (f FieldErrors) Error() string {
	messages := make([]string, 0, len(f))
	for _, fe := range f {
		messages = append(messages, fe.Message)
	}
	return strings.Join(messages, "; ")
}

// Get returns the first message for field.
func (f FieldErrors) Get(field string) string {
	for _, fe := range f {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// First names the first invalid field, where a form puts focus.
func (f FieldErrors) First() string {
	if len(f) == 0 {
		return ""
	}
	return f[0].Field
}

func (f *FieldErrors) add(field string, message string) {
	*f = append(*f, FieldError{Field: field, Message: message})
}

func (f FieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

// AsFieldErrors unwraps form validation problems from err.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fields FieldErrors
	if errors.As(err, &fields) {
		return fields, true
	}
	return nil, false
}
