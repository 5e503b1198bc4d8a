package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")

	ErrProductNotFound = &Error{Kind: ErrNotFound, Msg: "Product not found"}
)

// Error carries the message shown to API clients next to the kind the
// transport maps to a status. errors.Is matches on Kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Kind.Error() + ": " + e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func validationf(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}
