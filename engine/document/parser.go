// Package document turns raw document bytes into page texts.
//
// Parsers are constructed explicitly and handed to the batch runner; nothing in
// this package depends on process-wide setup.
package document

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEText = "text/plain"
)

// ErrUnsupportedType is returned for payloads that are neither PDF nor plain text.
var ErrUnsupportedType = errors.New("unsupported document type")

// Parser produces the ordered page texts of one document. Lines inside a page are
// separated by '\n'; table cells inside a line by two or more spaces.
type Parser interface {
	Pages(ctx context.Context, name string, data []byte) ([]string, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(ctx context.Context, name string, data []byte) ([]string, error)

func (f ParserFunc) Pages(ctx context.Context, name string, data []byte) ([]string, error) {
	return f(ctx, name, data)
}

// DetectMIME sniffs the payload type.
func DetectMIME(data []byte) string {
	if len(data) == 0 {
		return "application/octet-stream"
	}
	return mimetype.Detect(data).String()
}

// AutoParser routes PDF payloads to the PDF parser and plain text to the text parser.
type AutoParser struct {
	PDF  Parser
	Text Parser
}

// NewAutoParser wires the default PDF and text parsers.
func NewAutoParser(opts ...Option) *AutoParser {
	return &AutoParser{
		PDF:  NewPDFParser(opts...),
		Text: NewTextParser(),
	}
}

func (a *AutoParser) Pages(ctx context.Context, name string, data []byte) ([]string, error) {
	p, err := a.ParserFor(DetectMIME(data))
	if err != nil {
		return nil, err
	}
	return p.Pages(ctx, name, data)
}

// ParserFor selects the parser for a sniffed MIME type. Parameters such as
// "; charset=utf-8" are ignored.
func (a *AutoParser) ParserFor(mime string) (Parser, error) {
	switch {
	case strings.HasPrefix(mime, MIMEPDF) && a.PDF != nil:
		return a.PDF, nil
	case strings.HasPrefix(mime, MIMEText) && a.Text != nil:
		return a.Text, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}
}
