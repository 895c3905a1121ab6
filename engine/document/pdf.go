package document

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/compozy/pdftab/pkg/logger"
)

// CellSeparator joins cells inside a reconstructed line.
const CellSeparator = "  "

// PDFParser extracts positioned text from the PDF text layer and rebuilds lines.
// Scanned, image-only pages produce empty page text.
type PDFParser struct {
	opts options
}

func NewPDFParser(opts ...Option) *PDFParser {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &PDFParser{opts: o}
}

func (p *PDFParser) Pages(ctx context.Context, name string, data []byte) (pages []string, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("pdf reader panic: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	total := reader.NumPage()
	if p.opts.maxPages > 0 && total > p.opts.maxPages {
		logger.FromContext(ctx).Warn("Truncating document pages", "document", name, "pages", total, "max_pages", p.opts.maxPages)
		total = p.opts.maxPages
	}
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pages = append(pages, p.pageText(page.Content().Text))
	}
	return pages, nil
}

func (p *PDFParser) pageText(texts []pdf.Text) string {
	rows := groupRows(texts, p.opts.rowTolerance)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if line := strings.TrimSpace(joinRow(row, p.opts.cellGap)); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// groupRows clusters glyphs into visual lines ordered top to bottom, each line
// ordered left to right. Glyphs sharing an X keep their content-stream order.
func groupRows(texts []pdf.Text, tolerance float64) [][]pdf.Text {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S != "" {
			glyphs = append(glyphs, t)
		}
	}
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].Y > glyphs[j].Y
	})
	var rows [][]pdf.Text
	var baseline float64
	for _, g := range glyphs {
		n := len(rows)
		if n > 0 && math.Abs(baseline-g.Y) <= tolerance {
			rows[n-1] = append(rows[n-1], g)
			continue
		}
		rows = append(rows, []pdf.Text{g})
		baseline = g.Y
	}
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].X < row[j].X
		})
	}
	return rows
}

// joinRow concatenates glyphs, inserting CellSeparator where the horizontal gap is
// wider than cellGap font sizes. When the font reports no glyph widths only the
// advance between glyph origins is known, so the threshold grows by one em.
func joinRow(row []pdf.Text, cellGap float64) string {
	var sb strings.Builder
	for i, g := range row {
		if i > 0 {
			sb.WriteString(glyphGap(row[i-1], g, cellGap))
		}
		sb.WriteString(g.S)
	}
	return sb.String()
}

func glyphGap(prev, next pdf.Text, cellGap float64) string {
	size := prev.FontSize
	if size < 1 {
		size = 1
	}
	if prev.W <= 0 {
		if next.X-prev.X > (cellGap+1)*size {
			return CellSeparator
		}
		return ""
	}
	gap := next.X - (prev.X + prev.W)
	switch {
	case gap > cellGap*size:
		return CellSeparator
	case gap > wordGap*size && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(next.S, " "):
		return " "
	default:
		return ""
	}
}
