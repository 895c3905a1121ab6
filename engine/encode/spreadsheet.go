package encode

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/compozy/pdftab/engine/core"
	"github.com/compozy/pdftab/engine/table"
)

// UnionKeys returns every key across records in first-seen order.
func UnionKeys(records table.ResultSet) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, rec := range records {
		for _, key := range rec.Keys() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	return keys
}

// EncodeSpreadsheet builds a single-sheet workbook. Unlike CSV, the header row is the
// union of keys across all records; unset and missing values are left blank.
func EncodeSpreadsheet(records table.ResultSet) (data []byte, err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			data, err = nil, core.NewEncodeError(string(FormatXLSX), cerr)
		}
	}()
	if name := f.GetSheetName(0); name != SheetName {
		if err := f.SetSheetName(name, SheetName); err != nil {
			return nil, core.NewEncodeError(string(FormatXLSX), err)
		}
	}
	header := UnionKeys(records)
	for col, key := range header {
		if err := setCell(f, col+1, 1, key); err != nil {
			return nil, err
		}
	}
	for i, rec := range records {
		for col, key := range header {
			value, set := rec.Get(key)
			if !set {
				continue
			}
			if err := setCell(f, col+1, i+2, value); err != nil {
				return nil, err
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, core.NewEncodeError(string(FormatXLSX), err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return core.NewEncodeError(string(FormatXLSX), fmt.Errorf("cell %d,%d: %w", col, row, err))
	}
	if err := f.SetCellStr(SheetName, cell, value); err != nil {
		return core.NewEncodeError(string(FormatXLSX), fmt.Errorf("cell %s: %w", cell, err))
	}
	return nil
}
