package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment(t *testing.T) {
	t.Run("Should group a header and its data rows into one block", func(t *testing.T) {
		lines := []string{"Name    Age", "Alice   30", "Bob     25", "", "not a table line"}

		blocks := Segment(lines)

		require.Len(t, blocks, 1)
		assert.Equal(t, []string{"Name", "Age"}, blocks[0].Header)
		assert.Equal(t, [][]string{{"Alice", "30"}, {"Bob", "25"}}, blocks[0].Rows)
	})

	t.Run("Should split blocks at non-table lines", func(t *testing.T) {
		lines := []string{"Header1  Header2", "onlyonecolumn", "Header1  Header2", "A  B"}

		blocks := Segment(lines)

		require.Len(t, blocks, 2)
		assert.Equal(t, []string{"Header1", "Header2"}, blocks[0].Header)
		assert.Empty(t, blocks[0].Rows)
		assert.Equal(t, [][]string{{"A", "B"}}, blocks[1].Rows)
	})

	t.Run("Should close a block that runs to the end of input", func(t *testing.T) {
		blocks := Segment([]string{"intro", "k  v", "a  1"})

		require.Len(t, blocks, 1)
		assert.Equal(t, [][]string{{"a", "1"}}, blocks[0].Rows)
	})

	t.Run("Should return no blocks when no line has a double whitespace run", func(t *testing.T) {
		lines := []string{"plain prose here", "another line", "a b c d", "tab\tseparated once"}

		assert.Empty(t, Segment(lines))
	})

	t.Run("Should ignore repeated prose lines between blocks", func(t *testing.T) {
		blocks := Segment([]string{"a  b", "c  d", "x", "y", "e  f", "g  h"})

		require.Len(t, blocks, 2)
		assert.Equal(t, []string{"e", "f"}, blocks[1].Header)
	})

	t.Run("Should return no blocks for empty input", func(t *testing.T) {
		assert.Empty(t, Segment(nil))
	})
}
