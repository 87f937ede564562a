// Package errkit defines the error taxonomy surfaced to callers of the
// ingestion pipeline: a stage-tagged, kind-tagged error that
// wraps its cause and supports errors.Is/errors.As.
package errkit

import (
	"fmt"

	"github.com/arborline/chunkforge/schema"
)

// Kind is one member of the pipeline's error taxonomy.
type Kind string

const (
	KindUnsupportedFormat Kind = "unsupported_format"
	KindSourceNotFound    Kind = "source_not_found"
	KindSourceUnreadable  Kind = "source_unreadable"
	KindParseError        Kind = "parse_error"
	KindRefinementError   Kind = "refinement_error"
	KindChunkingError     Kind = "chunking_error"
	KindExternalService   Kind = "external_service_error"
	KindCancelled         Kind = "cancelled"
	KindInvalidState      Kind = "invalid_state"
)

// Error is the error type returned by every public pipeline operation on
// failure.
type Error struct {
	Kind    Kind
	Stage   schema.ProcessingStage
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s[%s]: %s: %v", e.Stage, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Stage, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error for a stage/kind with a formatted message.
func New(stage schema.ProcessingStage, kind Kind, cause error, format string, args ...any) *Error {
	return &Error{
		Stage:   stage,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err (or anything it wraps) has the given Kind. It
// lets callers write `errkit.Is(err, errkit.KindCancelled)` without first
// type-asserting to *Error.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind == kind {
				return true
			}
			err = e.Cause
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Fatal reports whether a Kind is fatal to its stage.
// ExternalServiceError is non-fatal by default (callers fall back to a
// heuristic); everything else halts the stage.
func Fatal(kind Kind) bool {
	return kind != KindExternalService
}

// Decompose extracts the (stage, kind, message, cause) quadruple a
// *Error carries, for callers (the pipeline coordinator) that record
// ProcessingError entries without needing a type assertion at every call
// site. Errors that are not *Error report KindExternalService with the
// error's own text as the message and themselves as cause.
func Decompose(err error) (schema.ProcessingStage, Kind, string, error) {
	if e, ok := err.(*Error); ok {
		return e.Stage, e.Kind, e.Message, e.Cause
	}
	return "", KindExternalService, err.Error(), err
}
