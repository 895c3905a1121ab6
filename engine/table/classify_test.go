package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCells(t *testing.T) {
	t.Run("Should split on runs of two or more spaces", func(t *testing.T) {
		assert.Equal(t, []string{"Name", "Age"}, SplitCells("Name    Age"))
	})

	t.Run("Should keep single interior spaces inside a cell", func(t *testing.T) {
		assert.Equal(t, []string{"First Name", "Last Name"}, SplitCells("First Name  Last Name"))
	})

	t.Run("Should treat tabs and mixed whitespace runs as separators", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c"}, SplitCells("a\t\tb \tc"))
	})

	t.Run("Should not split on a single tab", func(t *testing.T) {
		assert.Equal(t, []string{"a\tb"}, SplitCells("a\tb"))
	})

	t.Run("Should treat unicode spaces as whitespace", func(t *testing.T) {
		assert.Equal(t, []string{"Total", "42"}, SplitCells("Total\u00a0\u00a042"))
	})

	t.Run("Should trim the line before splitting", func(t *testing.T) {
		assert.Equal(t, []string{"x", "y"}, SplitCells("   x   y   "))
	})

	t.Run("Should return nil for blank input", func(t *testing.T) {
		assert.Nil(t, SplitCells(""))
		assert.Nil(t, SplitCells("   \t "))
	})
}

func TestClassify(t *testing.T) {
	t.Run("Should mark lines with two or more cells as table rows", func(t *testing.T) {
		row := Classify("Alice   30")
		assert.True(t, row.IsTableRow)
		assert.Equal(t, []string{"Alice", "30"}, row.Cells)
	})

	t.Run("Should mark single-cell lines as prose", func(t *testing.T) {
		row := Classify("not a table line")
		assert.False(t, row.IsTableRow)
		assert.Equal(t, []string{"not a table line"}, row.Cells)
	})

	t.Run("Should mark blank lines as prose", func(t *testing.T) {
		assert.False(t, Classify("").IsTableRow)
	})
}
