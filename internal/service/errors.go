package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrorKind classifies rejected operations so the HTTP edge can map them to a
// status code without parsing messages.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindConflict
	KindForbidden
	KindNothingToClose
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindNothingToClose:
		return "nothing_to_close"
	default:
		return "unknown"
	}
}

// Error is a business rule rejection. Msg is safe to show to the user.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newError(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func errValidacion(format string, args ...any) error { return newError(KindValidation, format, args...) }
func errNoEncontrado(format string, args ...any) error {
	return newError(KindNotFound, format, args...)
}
func errConflicto(format string, args ...any) error { return newError(KindConflict, format, args...) }
func errProhibido(format string, args ...any) error { return newError(KindForbidden, format, args...) }

// KindOf returns the kind of a business error, or 0 for anything else.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// traducir turns storage errors that carry business meaning into typed errors.
// Everything else is returned untouched and surfaces as a 500.
func traducir(err error, recurso string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errNoEncontrado("%s no encontrado", recurso)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errConflicto("%s duplicado", recurso)
	default:
		return err
	}
}
