// Package apperr provides the structured error taxonomy shared by every
// toolrouter component: build-time errors are fatal, query-time errors are
// recovered locally where a degraded result is still useful.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error into one of the fixed taxonomy values.
type Kind string

const (
	// IoError covers filesystem failures reading/writing a catalog or
	// index bundle.
	IoError Kind = "IO_ERROR"
	// IndexIncompatible means a persisted index bundle does not match the
	// catalog or embedding model currently in use (dimension mismatch,
	// document-count mismatch, model-id mismatch).
	IndexIncompatible Kind = "INDEX_INCOMPATIBLE"
	// CorpusInvalid means an input catalog or query set failed parsing or
	// structural validation (malformed JSON, missing required fields,
	// unknown granularity).
	CorpusInvalid Kind = "CORPUS_INVALID"
	// RemoteUnavailable means an embedding or rerank service could not be
	// reached at all (connection refused, timeout, DNS failure).
	RemoteUnavailable Kind = "REMOTE_UNAVAILABLE"
	// BadResponse means a remote service responded but the payload could
	// not be parsed into the expected shape.
	BadResponse Kind = "BAD_RESPONSE"
	// Auth means a remote service rejected the request's credentials.
	Auth Kind = "AUTH"
	// InvalidQuery means the caller's query failed validation (empty
	// query text, or a query embedding with a non-finite value).
	InvalidQuery Kind = "INVALID_QUERY"
)

// Error is the structured error type returned by toolrouter packages.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so
// errors.Is(err, apperr.New(apperr.Auth, "", nil)) works without also
// matching on Message or Cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an Error of the given kind.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Wrap constructs an Error of the given kind from an existing error,
// returning nil if err is nil.
func Wrap(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return New(kind, err.Error(), err)
}

// Is reports whether err's Kind matches kind, unwrapping as errors.As does.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
