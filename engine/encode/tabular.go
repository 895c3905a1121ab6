package encode

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/compozy/pdftab/engine/table"
)

// EncodeTabular writes RFC 4180 CSV. The header is the key list of the first record
// and is applied unchanged to every row: missing or unset keys become empty cells and
// keys the first record lacks are dropped. An empty result set yields empty output.
// Records end with CRLF; line breaks inside a quoted cell are written as they are.
func EncodeTabular(records table.ResultSet) ([]byte, error) {
	if len(records) == 0 {
		return []byte{}, nil
	}
	header := records[0].Keys()
	rows := &crlfRows{}
	if err := rows.write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(header))
	for i, rec := range records {
		for j, key := range header {
			value, _ := rec.Get(key)
			row[j] = value
		}
		if err := rows.write(row); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	return rows.out.Bytes(), nil
}

// crlfRows terminates each record with CRLF. csv.Writer.UseCRLF would also
// rewrite LF inside quoted cells, so rows are encoded with LF and the record
// terminator is swapped afterwards.
type crlfRows struct {
	out  bytes.Buffer
	line bytes.Buffer
	w    *csv.Writer
}

func (r *crlfRows) write(fields []string) error {
	if r.w == nil {
		r.w = csv.NewWriter(&r.line)
	}
	r.line.Reset()
	if err := r.w.Write(fields); err != nil {
		return err
	}
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return err
	}
	r.out.Write(bytes.TrimSuffix(r.line.Bytes(), []byte{'\n'}))
	r.out.WriteString("\r\n")
	return nil
}
