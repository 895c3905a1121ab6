package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/compozy/pdftab/engine/core"
	"github.com/compozy/pdftab/engine/table"
)

var prettyOptions = &pretty.Options{
	Width:    0,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// EncodeStructured writes records as a JSON array indented by two spaces. Keys keep
// each record's insertion order and unset values become null. A key or value that is
// not valid UTF-8 fails with an EncodeError instead of being replaced with U+FFFD.
func EncodeStructured(records table.ResultSet) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, rec := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeObject(&buf, rec); err != nil {
			return nil, core.NewEncodeError(string(FormatJSON), fmt.Errorf("record %d: %w", i, err))
		}
	}
	buf.WriteByte(']')
	return pretty.PrettyOptions(buf.Bytes(), prettyOptions), nil
}

func writeObject(buf *bytes.Buffer, rec *table.Record) error {
	buf.WriteByte('{')
	for i, key := range rec.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, key); err != nil {
			return err
		}
		buf.WriteByte(':')
		value, set := rec.Get(key)
		if !set {
			buf.WriteString("null")
			continue
		}
		if err := writeString(buf, value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("invalid UTF-8 in %q", s)
	}
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode json string: %w", err)
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}

// DecodeStructured parses structured-text output back into records, keeping key order.
// null values come back unset; numbers and booleans are kept as their literal text.
func DecodeStructured(data []byte) (table.ResultSet, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("structured text is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("structured text must be a JSON array, got %s", root.Type)
	}
	var (
		out     table.ResultSet
		element int
		err     error
	)
	root.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			err = fmt.Errorf("element %d: expected object, got %s", element, item.Type)
			return false
		}
		rec := table.NewRecord(0)
		item.ForEach(func(key, value gjson.Result) bool {
			switch {
			case value.Type == gjson.Null:
				rec.SetUnset(key.String())
			case value.IsObject() || value.IsArray():
				err = fmt.Errorf("element %d: key %q holds a nested value", element, key.String())
				return false
			case value.Type == gjson.String:
				rec.Set(key.String(), value.String())
			default:
				rec.Set(key.String(), value.Raw)
			}
			return true
		})
		if err != nil {
			return false
		}
		out = append(out, rec)
		element++
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
