package cql

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes translation failures.
type ErrorKind int

const (
	// KindQueryValidation: the CQL string is malformed or uses a relation or
	// operator the target field cannot support.
	KindQueryValidation ErrorKind = iota + 1

	// KindFeatureUnsupported: valid CQL using a construct that is recognized
	// but not implemented for this field. A subtype of KindQueryValidation.
	KindFeatureUnsupported

	// KindField: the table qualifier or JSONB column name is missing or invalid.
	KindField

	// KindServerChoiceIndexes: the server choice index list is empty or
	// malformed when a bare term needs it.
	KindServerChoiceIndexes

	// KindIdentifier: a configured identifier (table, alias, index name)
	// failed validation.
	KindIdentifier
)

// Error codes, stable across releases.
const (
	CodeQueryValidation     = "CQL001"
	CodeFeatureUnsupported  = "CQL002"
	CodeField               = "CQL003"
	CodeServerChoiceIndexes = "CQL004"
	CodeIdentifier          = "CQL005"
)

var (
	ErrQueryValidation     = errors.New("query validation failed")
	ErrFeatureUnsupported  = errors.New("feature not supported")
	ErrField               = errors.New("invalid field")
	ErrServerChoiceIndexes = errors.New("invalid server choice indexes")
	ErrIdentifier          = errors.New("invalid identifier")
)

func (k ErrorKind) String() string {
	switch k {
	case KindQueryValidation:
		return "QueryValidation"
	case KindFeatureUnsupported:
		return "FeatureUnsupported"
	case KindField:
		return "Field"
	case KindServerChoiceIndexes:
		return "ServerChoiceIndexes"
	case KindIdentifier:
		return "Identifier"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Code returns the stable error code for the kind.
func (k ErrorKind) Code() string {
	switch k {
	case KindQueryValidation:
		return CodeQueryValidation
	case KindFeatureUnsupported:
		return CodeFeatureUnsupported
	case KindField:
		return CodeField
	case KindServerChoiceIndexes:
		return CodeServerChoiceIndexes
	case KindIdentifier:
		return CodeIdentifier
	default:
		return "CQL000"
	}
}

// Error is the single error type returned by parsing and translation.
//
// The message is kept as a format plus arguments so that a Formatter can
// render it in another language. Format is one of the Msg* constants.
type Error struct {
	Kind   ErrorKind
	Format string
	Args   []any

	// Err is an optional underlying cause.
	Err error

	formatter Formatter
}

// Newf creates an Error of the given kind.
func Newf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Format: format, Args: args}
}

// Wrapf creates an Error of the given kind with an underlying cause.
func Wrapf(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Format: format, Args: args, Err: err}
}

// Code returns the stable error code.
func (e *Error) Code() string {
	return e.Kind.Code()
}

// Message renders the message with the attached formatter, or in English.
func (e *Error) Message() string {
	if e.formatter != nil {
		return e.formatter.Format(e)
	}
	return fmt.Sprintf(e.Format, e.Args...)
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code(), e.Message())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels. A feature-unsupported error also matches
// ErrQueryValidation.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrQueryValidation:
		return e.Kind == KindQueryValidation || e.Kind == KindFeatureUnsupported
	case ErrFeatureUnsupported:
		return e.Kind == KindFeatureUnsupported
	case ErrField:
		return e.Kind == KindField
	case ErrServerChoiceIndexes:
		return e.Kind == KindServerChoiceIndexes
	case ErrIdentifier:
		return e.Kind == KindIdentifier
	}
	return false
}

// WithFormatter returns a copy of e rendered through f.
func (e *Error) WithFormatter(f Formatter) *Error {
	c := *e
	c.formatter = f
	return &c
}

// IsQueryValidation reports whether err is a query validation error,
// including feature-unsupported errors.
func IsQueryValidation(err error) bool {
	return errors.Is(err, ErrQueryValidation)
}

// IsFeatureUnsupported reports whether err is a feature-unsupported error.
func IsFeatureUnsupported(err error) bool {
	return errors.Is(err, ErrFeatureUnsupported)
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
