// Package repoerr classifies storage failures into a closed set of kinds.
//
// Stores return *Error values only; the driver's own error types are kept as the
// wrapped Cause so they stay reachable through errors.Unwrap but are never part
// of a store's contract.
package repoerr

import (
	"errors"
	"fmt"
)

// Kind is the class of a storage failure.
type Kind int

const (
	// KindUnknown is the fallback bucket.
	KindUnknown Kind = iota
	// KindConnection means the store connection could not be established or obtained.
	KindConnection
	// KindDatabase means a statement failed during execution.
	KindDatabase
	// KindConversion means a stored value could not be converted to its Go type.
	KindConversion
	// KindIO is a transport-level I/O failure distinct from a query failure.
	KindIO
	// KindNotFound means an update targeted a row that does not exist.
	KindNotFound
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindDatabase:
		return "database"
	case KindConversion:
		return "conversion"
	case KindIO:
		return "io"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks. They match any *Error of the same kind.
var (
	ErrConnection = &Error{Kind: KindConnection}
	ErrDatabase   = &Error{Kind: KindDatabase}
	ErrConversion = &Error{Kind: KindConversion}
	ErrIO         = &Error{Kind: KindIO}
	ErrNotFound   = &Error{Kind: KindNotFound}
)

// Error is a classified storage failure.
type Error struct {
	Kind   Kind   // Failure class
	Op     string // Store operation that failed, e.g. "save question"
	Detail string // Human-readable detail; may be empty for KindUnknown
	Cause  error  // Underlying driver error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Detail)
	case e.Op != "":
		return e.Op + ": " + e.Kind.String() + " error"
	case e.Detail != "":
		return e.Detail
	default:
		return e.Kind.String() + " error"
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func newError(kind Kind, op string, cause error) *Error {
	e := &Error{Kind: kind, Op: op, Cause: cause}
	if cause != nil {
		e.Detail = cause.Error()
	}
	return e
}

// Connection wraps a failure to establish or obtain a connection.
func Connection(op string, cause error) *Error {
	return newError(KindConnection, op, cause)
}

// Database wraps a statement execution failure.
func Database(op string, cause error) *Error {
	return newError(KindDatabase, op, cause)
}

// Databasef reports a statement-level failure that has no driver error behind it.
func Databasef(op, format string, args ...any) *Error {
	return &Error{Kind: KindDatabase, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// Conversion wraps a failure to convert a stored value.
func Conversion(op string, cause error) *Error {
	return newError(KindConversion, op, cause)
}

// IO wraps a transport-level I/O failure.
func IO(op string, cause error) *Error {
	return newError(KindIO, op, cause)
}

// Unknown wraps an unclassified failure. cause may be nil.
func Unknown(op string, cause error) *Error {
	return newError(KindUnknown, op, cause)
}

// NotFound reports that the targeted row does not exist.
func NotFound(op, detail string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Detail: detail}
}

// KindOf reports the kind of err. Errors that are not *Error are KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
