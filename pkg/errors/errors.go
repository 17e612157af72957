// Package errors defines the engine's sentinel error values and a thin
// wrapper for attaching context without losing the sentinel for
// errors.Is/errors.As callers.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateSource = errors.New("source already registered")
	ErrEmptySource     = errors.New("source has no content")
	ErrNotLoadable     = errors.New("source exceeds load-to-memory limit")
	ErrQueryTooShort   = errors.New("query shorter than minimum length")
	ErrUnknownSource   = errors.New("no such source")
	ErrIO              = errors.New("source I/O failure")
)

type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, message string) *AppError {
	return &AppError{Err: sentinel, Message: message}
}

func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{Err: sentinel, Message: fmt.Sprintf(format, args...)}
}
