// Package errors defines the error kinds surfaced to callers of the extraction
// and analysis services.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind identifies a caller-visible failure category.
type Kind string

const (
	KindUnsupportedFormat Kind = "UNSUPPORTED_FORMAT"
	KindExtractionFailed  Kind = "EXTRACTION_FAILED"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindAnalysisFailed    Kind = "ANALYSIS_FAILED"
	KindSessionBusy       Kind = "SESSION_BUSY"
	KindNotFound          Kind = "NOT_FOUND"
	KindInternal          Kind = "INTERNAL_ERROR"
)

// Error is a categorized application error. Err keeps the underlying cause for
// logging; it is never shown to the user.
type Error struct {
	Kind    Kind
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Details != "" {
		b.WriteString(" (")
		b.WriteString(e.Details)
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the package sentinels work with
// errors.Is regardless of message or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrUnsupportedFormat = &Error{Kind: KindUnsupportedFormat}
	ErrExtractionFailed  = &Error{Kind: KindExtractionFailed}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrAnalysisFailed    = &Error{Kind: KindAnalysisFailed}
	ErrSessionBusy       = &Error{Kind: KindSessionBusy}
	ErrNotFound          = &Error{Kind: KindNotFound}
)

// NewUnsupportedFormatError reports an extension outside pdf/docx/txt.
func NewUnsupportedFormatError(extension string) *Error {
	return &Error{
		Kind:    KindUnsupportedFormat,
		Message: "unsupported document format",
		Details: fmt.Sprintf("extension: %q", extension),
	}
}

// NewExtractionFailedError wraps a parser failure for the given format.
func NewExtractionFailedError(format string, err error) *Error {
	return &Error{
		Kind:    KindExtractionFailed,
		Message: "failed to extract text",
		Details: fmt.Sprintf("format: %s", format),
		Err:     err,
	}
}

// NewValidationError lists the fields that were empty after trimming.
func NewValidationError(fields ...string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "required input is empty",
		Details: fmt.Sprintf("fields: %s", strings.Join(fields, ", ")),
	}
}

// NewAnalysisFailedError collapses transport, service and decode failures.
func NewAnalysisFailedError(message string, err error) *Error {
	return &Error{
		Kind:    KindAnalysisFailed,
		Message: message,
		Err:     err,
	}
}

func NewSessionBusyError(operation string) *Error {
	return &Error{
		Kind:    KindSessionBusy,
		Message: "another operation is in flight",
		Details: fmt.Sprintf("in flight: %s", operation),
	}
}

func NewNotFoundError(what, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", what),
		Details: fmt.Sprintf("id: %s", id),
	}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// UserMessage is the generic text shown to users for each kind.
func UserMessage(kind Kind) string {
	switch kind {
	case KindUnsupportedFormat:
		return "Unsupported format (PDF/DOCX/TXT only)."
	case KindExtractionFailed:
		return "File extraction failed."
	case KindValidation:
		return "Resume and Job Description are required."
	case KindAnalysisFailed:
		return "ML Pipeline Execution Error. Check connection."
	case KindSessionBusy:
		return "Another operation is already running for this session."
	case KindNotFound:
		return "Resource not found."
	default:
		return "Internal server error."
	}
}
