package encode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/compozy/pdftab/engine/table"
)

func readSheet(t *testing.T, data []byte) (*excelize.File, [][]string) {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return f, rows
}

func TestEncodeSpreadsheet(t *testing.T) {
	t.Run("Should use the union of keys as the header", func(t *testing.T) {
		records := table.ResultSet{
			table.RecordFromPairs("A", "1", "B", "2"),
			table.RecordFromPairs("C", "3"),
		}

		out, err := EncodeSpreadsheet(records)
		require.NoError(t, err)

		f, rows := readSheet(t, out)
		assert.Equal(t, []string{SheetName}, f.GetSheetList())
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"A", "B", "C"}, rows[0])
		assert.Equal(t, []string{"1", "2"}, rows[1])
		assert.Equal(t, []string{"", "", "3"}, rows[2])
	})

	t.Run("Should leave unset values blank", func(t *testing.T) {
		rec := table.RecordFromPairs("A", "1")
		rec.SetUnset("B")
		next := table.RecordFromPairs("A", "2", "B", "x")

		out, err := EncodeSpreadsheet(table.ResultSet{rec, next})
		require.NoError(t, err)

		_, rows := readSheet(t, out)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"1"}, rows[1])
		assert.Equal(t, []string{"2", "x"}, rows[2])
	})

	t.Run("Should produce a valid workbook for an empty result set", func(t *testing.T) {
		out, err := EncodeSpreadsheet(nil)
		require.NoError(t, err)

		_, rows := readSheet(t, out)
		assert.Empty(t, rows)
	})
}

func TestUnionKeys(t *testing.T) {
	t.Run("Should keep first-seen order", func(t *testing.T) {
		keys := UnionKeys(table.ResultSet{
			table.RecordFromPairs("b", "1", "a", "2"),
			table.RecordFromPairs("c", "3", "a", "4"),
		})

		assert.Equal(t, []string{"b", "a", "c"}, keys)
	})
}
