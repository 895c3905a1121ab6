package encode

import (
	"github.com/compozy/pdftab/engine/core"
	"github.com/compozy/pdftab/engine/table"
)

// Encode renders records in the requested format. It never mutates records, so the
// same result set can be encoded again after a failure.
func Encode(records table.ResultSet, format Format) ([]byte, error) {
	if !format.Valid() {
		return nil, core.NewUnsupportedFormatError(string(format))
	}
	return encoders[format](records)
}

var encoders = map[Format]func(table.ResultSet) ([]byte, error){
	FormatJSON: EncodeStructured,
	FormatCSV:  EncodeTabular,
	FormatXLSX: EncodeSpreadsheet,
}

// EncodeString parses format and encodes records in one step.
func EncodeString(records table.ResultSet, format string) ([]byte, Format, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, "", err
	}
	data, err := Encode(records, f)
	if err != nil {
		return nil, f, err
	}
	return data, f, nil
}
