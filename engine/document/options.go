package document

const (
	defaultRowTolerance = 2.0
	defaultCellGap      = 1.0
	// wordGap is the fraction of the font size above which a gap between glyphs
	// with known widths is read as a word space.
	wordGap = 0.15
)

type options struct {
	maxPages     int
	rowTolerance float64
	cellGap      float64
}

func defaultOptions() options {
	return options{
		rowTolerance: defaultRowTolerance,
		cellGap:      defaultCellGap,
	}
}

type Option func(*options)

// WithMaxPages stops reading after n pages. Zero means no limit.
func WithMaxPages(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxPages = n
		}
	}
}

// WithRowTolerance sets how far apart, in points, two baselines may be and still
// belong to the same visual line.
func WithRowTolerance(pt float64) Option {
	return func(o *options) {
		if pt > 0 {
			o.rowTolerance = pt
		}
	}
}

// WithCellGap sets the horizontal gap, in multiples of the font size, that
// separates two table cells.
func WithCellGap(em float64) Option {
	return func(o *options) {
		if em > 0 {
			o.cellGap = em
		}
	}
}
