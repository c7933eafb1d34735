// Package apperr holds the error kinds shared by the sizing core and its
// collaborators. Callers test for a kind with errors.Is.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrFormat     = errors.New("format error")
	ErrExhausted  = errors.New("exhausted")
)

type Error struct {
	Op   string
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Op == "" {
		return fmt.Sprintf("%v: %s", e.Kind, msg)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newf(kind error, op, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Validation(op, format string, args ...any) error {
	return newf(ErrValidation, op, format, args...)
}

func NotFound(op, format string, args ...any) error {
	return newf(ErrNotFound, op, format, args...)
}

func Format(op, format string, args ...any) error {
	return newf(ErrFormat, op, format, args...)
}

func Exhausted(op, format string, args ...any) error {
	return newf(ErrExhausted, op, format, args...)
}

// Wrap attaches kind to err unless err already carries a kind.
func Wrap(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != nil {
		return err
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf returns the first known kind carried by err, or nil.
func KindOf(err error) error {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrFormat, ErrExhausted} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// HTTPStatus maps the kind carried by err to a response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrExhausted:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
