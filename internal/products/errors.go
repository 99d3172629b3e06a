package products

import (
	"errors"
)

var (
	ErrNotFound         = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryMissing  = errors.New("category does not exist")
)

// Kind classifies a failed operation for the presentation layer.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindConflict    Kind = "conflict"
	KindStorage     Kind = "storage"
	KindConsistency Kind = "consistency"
)

// Error is returned by every mutation operation. Message is meant to be shown
// to the user as is; Err keeps the cause for errors.Is and logging.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Storage(msg string, err error) error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

func Consistency(msg string, err error) error {
	return &Error{Kind: KindConsistency, Message: msg, Err: err}
}

// KindOf returns the kind carried by err, or KindStorage for anything that was
// not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Unexpected error."
}
