package helpers

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"

	"github.com/compozy/pdftab/engine/table"
)

// PreviewRows is how many records RenderPreview shows.
const PreviewRows = 20

var (
	previewHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	previewCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	previewNoteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
)

// RenderPreview draws up to limit records as a table. Columns are the keys of
// the first record; other keys are not shown and unset values render blank.
// A positive width caps the rendered table; zero leaves it unbounded.
func RenderPreview(records table.ResultSet, limit, width int, color bool) string {
	if len(records) == 0 {
		return "(no records)\n"
	}
	headers := records[0].Keys()
	shown := records
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	rows := make([][]string, 0, len(shown))
	for _, rec := range shown {
		row := make([]string, len(headers))
		for i, key := range headers {
			if v, ok := rec.Get(key); ok {
				row[i] = v
			}
		}
		rows = append(rows, row)
	}
	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	if width > 0 {
		t = t.Width(width)
	}
	if color {
		t = t.StyleFunc(func(row, _ int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return previewHeaderStyle
			}
			return previewCellStyle
		})
	}
	out := t.String() + "\n"
	if rest := len(records) - len(shown); rest > 0 {
		note := fmt.Sprintf("… %d more records", rest)
		if color {
			note = previewNoteStyle.Render(note)
		}
		out += note + "\n"
	}
	return out
}

// WritePreview renders the preview to w, styled and fitted to the window only
// for terminals.
func WritePreview(w io.Writer, records table.ResultSet) error {
	_, err := io.WriteString(w, RenderPreview(records, PreviewRows, TerminalWidth(w), ShouldUseColor(w)))
	return err
}
