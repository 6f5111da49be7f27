package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so adapters can map them without string matching.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindForbidden    ErrorKind = "forbidden"
	KindInvalidState ErrorKind = "invalid_state"
	KindConflict     ErrorKind = "conflict"
	KindValidation   ErrorKind = "validation"
)

var (
	ErrNotFound     = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrForbidden    = &Error{Kind: KindForbidden, Msg: "forbidden"}
	ErrInvalidState = &Error{Kind: KindInvalidState, Msg: "invalid state"}
	ErrConflict     = &Error{Kind: KindConflict, Msg: "conflict"}
	ErrValidation   = &Error{Kind: KindValidation, Msg: "validation failed"}

	ErrTaskNotFound       = &Error{Kind: KindNotFound, Msg: "task not found"}
	ErrAcceptanceNotFound = &Error{Kind: KindNotFound, Msg: "acceptance not found"}
	ErrRemarkRequired     = &Error{Kind: KindValidation, Msg: "remark is required"}
	ErrTaskAlreadyClaimed = &Error{Kind: KindConflict, Msg: "task already claimed by another member"}
	ErrDuplicateTaskNo    = &Error{Kind: KindConflict, Msg: "task number already exists"}
)

type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) holds
// for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if t.Msg == "" || t == sentinelOf(t.Kind) {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Msg == t.Msg
}

func sentinelOf(kind ErrorKind) *Error {
	switch kind {
	case KindNotFound:
		return ErrNotFound
	case KindForbidden:
		return ErrForbidden
	case KindInvalidState:
		return ErrInvalidState
	case KindConflict:
		return ErrConflict
	case KindValidation:
		return ErrValidation
	}
	return nil
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error    { return newError(KindForbidden, format, args...) }
func InvalidState(format string, args ...any) error { return newError(KindInvalidState, format, args...) }
func Validation(format string, args ...any) error   { return newError(KindValidation, format, args...) }
func NotFound(format string, args ...any) error     { return newError(KindNotFound, format, args...) }
func Conflict(format string, args ...any) error     { return newError(KindConflict, format, args...) }

// KindOf extracts the kind of a domain error, or "" for infrastructure errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
