// Package apperr defines the error taxonomy shared by the extraction,
// summarization, persistence and learning layers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for propagation and presentation
type Kind string

const (
	KindInput            Kind = "input"
	KindExtraction       Kind = "extraction"
	KindEmptyInput       Kind = "empty_input"
	KindNoSalientContent Kind = "no_salient_content"
	KindPersistence      Kind = "persistence"
	KindLearningCycle    Kind = "learning_cycle"
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
)

// Error carries a kind, the failing operation and an optional upstream status
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := string(e.Kind)
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same kind and no cause, so sentinel
// values built with New can be compared with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Err == nil && t.Op == "" && t.Kind == e.Kind
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Input(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInput, Op: op, Err: fmt.Errorf(format, args...)}
}

func Extraction(op string, status int, err error) *Error {
	return &Error{Kind: KindExtraction, Op: op, Status: status, Err: err}
}

func Persistence(op string, err error) *Error {
	return &Error{Kind: KindPersistence, Op: op, Err: err}
}

func NotFound(op, what string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf("%s not found", what)}
}

func Conflict(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in the chain, or "" if none
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the response status used by the API
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindEmptyInput, KindNoSalientContent:
		return http.StatusUnprocessableEntity
	case KindExtraction:
		if e.Status != 0 {
			return http.StatusBadGateway
		}
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
