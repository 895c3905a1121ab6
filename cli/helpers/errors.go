package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/compozy/pdftab/engine/core"
)

// CliError represents a CLI-specific error with enhanced context
type CliError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   string         `json:"details,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	cause     error
}

func (e *CliError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CliError) Unwrap() error {
	return e.cause
}

// NewCliError creates a new CLI error with context
func NewCliError(code, message string, details ...string) *CliError {
	err := &CliError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Context:   make(map[string]any),
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// WithContext adds context to the error
func (e *CliError) WithContext(key string, value any) *CliError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithCause keeps err reachable through errors.Is and errors.As.
func (e *CliError) WithCause(err error) *CliError {
	e.cause = err
	return e
}

// Categorize converts known failures into structured CLI errors. Errors that are
// already a *CliError pass through; unknown errors yield nil.
func Categorize(err error) *CliError {
	var cliErr *CliError
	var decodeErr *core.DocumentDecodeError
	var formatErr *core.UnsupportedFormatError
	var encodeErr *core.EncodeError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &cliErr):
		return cliErr
	case errors.Is(err, context.Canceled):
		return NewCliError("OPERATION_CANCELED", "Operation was canceled by user").WithCause(err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewCliError("OPERATION_TIMEOUT", "Operation timed out").WithCause(err)
	case errors.Is(err, core.ErrDocumentTooLarge):
		return NewCliError("DOCUMENT_TOO_LARGE", "Document exceeds the size limit", err.Error()).
			WithContext("file", decodeName(err)).
			WithCause(err)
	case errors.As(err, &decodeErr):
		return NewCliError("DOCUMENT_DECODE_FAILED", "Could not read document", err.Error()).
			WithContext("file", decodeErr.Name).
			WithCause(err)
	case errors.As(err, &formatErr):
		return NewCliError("UNSUPPORTED_FORMAT", "Unsupported output format", err.Error()).
			WithContext("format", formatErr.Value).
			WithCause(err)
	case errors.As(err, &encodeErr):
		return NewCliError("ENCODE_FAILED", "Could not encode result", err.Error()).
			WithContext("format", encodeErr.Format).
			WithCause(err)
	default:
		return nil
	}
}

func decodeName(err error) string {
	var decodeErr *core.DocumentDecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr.Name
	}
	return ""
}
