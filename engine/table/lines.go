package table

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SplitLines breaks page text into lines, dropping blank ones.
// CRLF and lone CR are treated as line breaks.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// NormalizeLine composes decomposed runes (NFC) so cell text and header keys
// compare equal regardless of how the extractor emitted accents.
func NormalizeLine(line string) string {
	return norm.NFC.String(line)
}
