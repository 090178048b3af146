// Package apperr defines the error kinds used across bluescan so that HTTP
// handlers map errors to status codes without string sniffing.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is one of the four error categories bluescan distinguishes.
type Kind int

const (
	Internal Kind = iota
	BadInput
	NotFound
	BackendUnavailable
)

// Error is an error carrying a Kind, so callers can map it to an HTTP
// status without inspecting the message text.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int {
	switch e.Kind {
	case BadInput:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case BackendUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// New builds an *Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// StatusOf returns the HTTP status to use for an arbitrary error: the
// kind's status if it is (or wraps) an *Error, otherwise 500.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status()
	}
	return http.StatusInternalServerError
}
