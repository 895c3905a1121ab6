package table

// Block is a contiguous run of table rows. The first row is the header.
type Block struct {
	Header []string
	Rows   [][]string
}

// Segment groups consecutive table rows into blocks. A non-table line closes
// the open block; the last block is closed at end of input. A block with a
// single accumulated row keeps its header and has no data rows.
func Segment(lines []string) []Block {
	var (
		blocks []Block
		acc    [][]string
	)
	flush := func() {
		if len(acc) == 0 {
			return
		}
		blocks = append(blocks, Block{Header: acc[0], Rows: acc[1:]})
		acc = nil
	}
	for _, line := range lines {
		row := Classify(line)
		if row.IsTableRow {
			acc = append(acc, row.Cells)
			continue
		}
		flush()
	}
	flush()
	return blocks
}
