package document

import (
	"context"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compozy/pdftab/engine/table"
	"github.com/compozy/pdftab/test/helpers"
)

func glyph(s string, x, y, w float64) pdf.Text {
	return pdf.Text{Font: "Helvetica", FontSize: 10, X: x, Y: y, W: w, S: s}
}

func TestGroupRows(t *testing.T) {
	t.Run("Should order lines top to bottom and glyphs left to right", func(t *testing.T) {
		texts := []pdf.Text{
			glyph("2", 50, 680, 5),
			glyph("b", 6, 700.8, 5),
			glyph("1", 0, 680, 5),
			glyph("a", 0, 700, 5),
		}
		rows := groupRows(texts, defaultRowTolerance)
		require.Len(t, rows, 2)
		assert.Equal(t, "a", rows[0][0].S)
		assert.Equal(t, "b", rows[0][1].S)
		assert.Equal(t, "1", rows[1][0].S)
		assert.Equal(t, "2", rows[1][1].S)
	})
	t.Run("Should keep stream order for glyphs sharing an origin", func(t *testing.T) {
		texts := []pdf.Text{
			glyph("N", 10, 700, 0),
			glyph("a", 10, 700, 0),
			glyph("m", 10, 700, 0),
			glyph("e", 10, 700, 0),
		}
		rows := groupRows(texts, defaultRowTolerance)
		require.Len(t, rows, 1)
		assert.Equal(t, "Name", joinRow(rows[0], defaultCellGap))
	})
	t.Run("Should drop empty glyphs", func(t *testing.T) {
		rows := groupRows([]pdf.Text{glyph("", 0, 700, 0)}, defaultRowTolerance)
		assert.Empty(t, rows)
	})
}

func TestJoinRow(t *testing.T) {
	t.Run("Should insert word spaces and cell separators from glyph widths", func(t *testing.T) {
		row := []pdf.Text{
			glyph("A", 0, 700, 6),
			glyph("b", 6, 700, 5),
			glyph("c", 13, 700, 5),
			glyph("D", 33, 700, 5),
		}
		assert.Equal(t, "Ab c  D", joinRow(row, defaultCellGap))
	})
	t.Run("Should not double an explicit space glyph", func(t *testing.T) {
		row := []pdf.Text{
			glyph("a", 0, 700, 5),
			glyph(" ", 7, 700, 3),
			glyph("b", 12, 700, 5),
		}
		assert.Equal(t, "a b", joinRow(row, defaultCellGap))
	})
	t.Run("Should separate cells by origin distance when widths are unknown", func(t *testing.T) {
		row := []pdf.Text{
			glyph("N", 10, 700, 0),
			glyph("o", 10, 700, 0),
			glyph("4", 200, 700, 0),
			glyph("2", 200, 700, 0),
		}
		assert.Equal(t, "No  42", joinRow(row, defaultCellGap))
	})
	t.Run("Should honor a custom cell gap", func(t *testing.T) {
		row := []pdf.Text{
			glyph("a", 0, 700, 5),
			glyph("b", 10, 700, 5),
		}
		assert.Equal(t, "a b", joinRow(row, defaultCellGap))
		assert.Equal(t, "a  b", joinRow(row, 0.4))
	})
}

func TestPDFParser_Pages(t *testing.T) {
	t.Run("Should rebuild table lines from a generated document", func(t *testing.T) {
		data := helpers.BuildPDF(t,
			helpers.TableRows(
				[]string{"Name", "Age"},
				[]string{"Alice", "30"},
			),
			helpers.TableRows(
				[]string{"Item", "Qty"},
				[]string{"Bolt", "7"},
			),
		)
		pages, err := NewPDFParser().Pages(t.Context(), "people.pdf", data)
		require.NoError(t, err)
		require.Len(t, pages, 2)
		assert.Equal(t, "Name  Age\nAlice  30", pages[0])
		assert.Equal(t, "Item  Qty\nBolt  7", pages[1])
		records := table.Extract(table.SplitLines(pages[0]))
		require.Len(t, records, 1)
		assert.True(t, records[0].Equal(table.RecordFromPairs("Name", "Alice", "Age", "30")))
	})
	t.Run("Should stop after the configured page count", func(t *testing.T) {
		data := helpers.BuildPDF(t,
			helpers.TableRows([]string{"A", "B"}),
			helpers.TableRows([]string{"C", "D"}),
		)
		pages, err := NewPDFParser(WithMaxPages(1)).Pages(t.Context(), "two.pdf", data)
		require.NoError(t, err)
		assert.Equal(t, []string{"A  B"}, pages)
	})
	t.Run("Should fail on bytes that are not a pdf", func(t *testing.T) {
		_, err := NewPDFParser().Pages(t.Context(), "junk.pdf", []byte("%PDF-1.4 truncated"))
		assert.Error(t, err)
	})
	t.Run("Should stop when the context is canceled", func(t *testing.T) {
		data := helpers.BuildPDF(t, helpers.TableRows([]string{"A", "B"}))
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err := NewPDFParser().Pages(ctx, "one.pdf", data)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestOptions(t *testing.T) {
	t.Run("Should ignore non-positive overrides", func(t *testing.T) {
		p := NewPDFParser(WithRowTolerance(0), WithCellGap(-1), WithMaxPages(-3))
		assert.Equal(t, defaultOptions(), p.opts)
	})
	t.Run("Should apply overrides", func(t *testing.T) {
		p := NewPDFParser(WithRowTolerance(3.5), WithCellGap(2), WithMaxPages(4))
		assert.Equal(t, options{maxPages: 4, rowTolerance: 3.5, cellGap: 2}, p.opts)
	})
}
