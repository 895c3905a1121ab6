package table

import (
	"strings"
	"unicode"
)

// MinCells is the smallest cell count that makes a line a table row.
const MinCells = 2

// Row is the classification of one line.
type Row struct {
	Cells      []string
	IsTableRow bool
}

// Classify splits line on whitespace runs of length two or more.
func Classify(line string) Row {
	cells := SplitCells(line)
	return Row{Cells: cells, IsTableRow: len(cells) >= MinCells}
}

// SplitCells trims line and cuts it at every run of at least two whitespace
// runes. Single interior spaces stay inside the cell.
func SplitCells(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	var cells []string
	start := 0
	runStart, runLen := -1, 0
	for i, r := range line {
		if unicode.IsSpace(r) {
			if runLen == 0 {
				runStart = i
			}
			runLen++
			continue
		}
		if runLen >= 2 {
			cells = append(cells, strings.TrimSpace(line[start:runStart]))
			start = i
		}
		runLen = 0
	}
	// line is trimmed, so it never ends inside a whitespace run.
	return append(cells, line[start:])
}
