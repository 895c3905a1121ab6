package core

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is against the typed errors below.
var (
	ErrDocumentDecode    = errors.New("document decode error")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrEncode            = errors.New("encode error")
	ErrDocumentTooLarge  = errors.New("document exceeds size limit")
)

// DocumentDecodeError reports a document the parsing collaborator could not open or read.
// It aborts the whole batch.
type DocumentDecodeError struct {
	Name string
	Err  error
}

func NewDocumentDecodeError(name string, err error) *DocumentDecodeError {
	return &DocumentDecodeError{Name: name, Err: err}
}

func (e *DocumentDecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("decode document %q", e.Name)
	}
	return fmt.Sprintf("decode document %q: %v", e.Name, e.Err)
}

func (e *DocumentDecodeError) Unwrap() error {
	return e.Err
}

func (e *DocumentDecodeError) Is(target error) bool {
	return target == ErrDocumentDecode
}

// UnsupportedFormatError is returned when an explicit format value is not recognized.
type UnsupportedFormatError struct {
	Value string
}

func NewUnsupportedFormatError(value string) *UnsupportedFormatError {
	return &UnsupportedFormatError{Value: value}
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q", e.Value)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// EncodeError wraps a failure raised by an encoder backend.
type EncodeError struct {
	Format string
	Err    error
}

func NewEncodeError(format string, err error) *EncodeError {
	return &EncodeError{Format: format, Err: err}
}

func (e *EncodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("encode %s", e.Format)
	}
	return fmt.Sprintf("encode %s: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

func (e *EncodeError) Is(target error) bool {
	return target == ErrEncode
}
