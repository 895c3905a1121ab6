package helpers

import (
	"bytes"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/require"
)

// PDFCell is a single text run placed at X/Y millimetres from the top-left corner.
type PDFCell struct {
	X    float64
	Y    float64
	Text string
}

// PDFPage lists the text runs of one page.
type PDFPage []PDFCell

// TableRows lays out rows of cells on a grid: rows 10mm apart, columns 60mm apart.
func TableRows(rows ...[]string) PDFPage {
	var page PDFPage
	for r, row := range rows {
		for c, text := range row {
			page = append(page, PDFCell{X: 20 + float64(c)*60, Y: 30 + float64(r)*10, Text: text})
		}
	}
	return page
}

// BuildPDF renders pages with a core font and returns the document bytes.
func BuildPDF(t *testing.T, pages ...PDFPage) []byte {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, page := range pages {
		doc.AddPage()
		for _, cell := range page {
			doc.Text(cell.X, cell.Y, cell.Text)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}
