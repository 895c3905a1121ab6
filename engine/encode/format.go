package encode

import (
	"strings"

	"github.com/compozy/pdftab/engine/core"
)

// Format selects the output representation of a result set.
type Format string

const (
	// FormatCSV is tabular text. The header is fixed from the first record's keys.
	FormatCSV Format = "csv"
	// FormatJSON is structured text: an indented array of per-record objects.
	FormatJSON Format = "json"
	// FormatXLSX is a single-sheet workbook. The header is the union of all keys.
	FormatXLSX Format = "xlsx"

	// DefaultFormat applies only when no format was supplied at all.
	DefaultFormat = FormatJSON
	// SheetName names the only sheet of XLSX output.
	SheetName = "Sheet1"
	// BaseFileName is the stem of downloaded files.
	BaseFileName = "processed_data"
)

var aliases = map[string]Format{
	"csv":                FormatCSV,
	"tabular-text":       FormatCSV,
	"json":               FormatJSON,
	"structured-text":    FormatJSON,
	"xlsx":               FormatXLSX,
	"spreadsheet-binary": FormatXLSX,
}

// Formats lists the recognized formats in display order.
func Formats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatXLSX}
}

// ParseFormat resolves a user supplied format. An empty value selects DefaultFormat;
// any other unrecognized value is an UnsupportedFormatError.
func ParseFormat(value string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return DefaultFormat, nil
	}
	if f, ok := aliases[key]; ok {
		return f, nil
	}
	return "", core.NewUnsupportedFormatError(value)
}

func (f Format) String() string {
	return string(f)
}

// Valid reports whether f is one of the recognized formats.
func (f Format) Valid() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatXLSX:
		return true
	default:
		return false
	}
}

func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) MIMEType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// FileName is the download name for output in this format.
func (f Format) FileName() string {
	return BaseFileName + f.Extension()
}

// Binary reports whether the encoded output is not text.
func (f Format) Binary() bool {
	return f == FormatXLSX
}

// Description is the user-facing help text. The CSV and XLSX descriptions spell out
// their different header rules since round-tripping between them changes columns.
func (f Format) Description() string {
	switch f {
	case FormatCSV:
		return "Tabular text (alias tabular-text). Columns are the keys of the FIRST record; " +
			"later records with other keys get empty cells and their extra keys are dropped."
	case FormatJSON:
		return "Structured text (alias structured-text). Indented JSON array; every record keeps " +
			"its own keys in order, unset values are null. Default when no format is given."
	case FormatXLSX:
		return "Spreadsheet workbook (alias spreadsheet-binary). One sheet named " + SheetName +
			"; columns are the UNION of keys across all records, so it may have more columns than CSV."
	default:
		return ""
	}
}
