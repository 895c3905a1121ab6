package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextParser_Pages(t *testing.T) {
	t.Run("Should split pages on form feeds", func(t *testing.T) {
		pages, err := NewTextParser().Pages(t.Context(), "a.txt", []byte("A  B\n1  2\fC  D\n3  4"))
		require.NoError(t, err)
		assert.Equal(t, []string{"A  B\n1  2", "C  D\n3  4"}, pages)
	})
	t.Run("Should return no pages for empty input", func(t *testing.T) {
		pages, err := NewTextParser().Pages(t.Context(), "empty.txt", nil)
		require.NoError(t, err)
		assert.Empty(t, pages)
	})
	t.Run("Should transcode latin-1 input", func(t *testing.T) {
		pages, err := NewTextParser().Pages(t.Context(), "l1.txt", []byte("Caf\xe9  Prix\nNoir  2"))
		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, "Café  Prix\nNoir  2", pages[0])
	})
}
