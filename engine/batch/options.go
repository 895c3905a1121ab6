package batch

import (
	"strings"

	"github.com/compozy/pdftab/engine/table"
)

// LineNormalizer rewrites one text line before classification.
type LineNormalizer func(string) string

// DefaultLineNormalizer applies NFC composition and trims surrounding whitespace.
func DefaultLineNormalizer(line string) string {
	return strings.TrimSpace(table.NormalizeLine(line))
}

type options struct {
	normalize   LineNormalizer
	maxFileSize int64
}

type Option func(*options)

// WithLineNormalizer replaces the default normalizer. Nil disables normalization.
func WithLineNormalizer(fn LineNormalizer) Option {
	return func(o *options) {
		o.normalize = fn
	}
}

// WithMaxFileSize rejects documents larger than n bytes. Zero disables the check.
func WithMaxFileSize(n int64) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxFileSize = n
		}
	}
}
