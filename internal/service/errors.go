package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a lookup of an absent merchant or referenced entity
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks a request the caller must correct
	ErrInvalidInput = errors.New("invalid input")
)

// Error is a user-facing failure. Message is safe to return to clients; Kind is one of
// the sentinel errors above and is what errors.Is matches.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func notFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func invalidInput(format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}
