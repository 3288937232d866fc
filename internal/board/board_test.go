package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Accepts a valid topology", func(t *testing.T) {
		// Given: a mapping with one connector and one chute
		links := map[int]int{3: 22, 17: 7}

		// When: building the board
		board, err := New(links)

		// Then: it should succeed and serve lookups
		require.NoError(t, err)

		dest, ok := board.Lookup(3)
		assert.True(t, ok)
		assert.Equal(t, 22, dest)

		dest, ok = board.Lookup(17)
		assert.True(t, ok)
		assert.Equal(t, 7, dest)
	})

	t.Run("Rejects an entry at cell 0", func(t *testing.T) {
		// Given: a mapping with a link on cell 0
		links := map[int]int{0: 10}

		// When: building the board
		_, err := New(links)

		// Then: it should be rejected at load time
		assert.ErrorIs(t, err, ErrCellOutOfRange)
	})

	t.Run("Rejects an entry at the final cell", func(t *testing.T) {
		// Given: a mapping with a link on cell 100
		links := map[int]int{100: 10}

		// When: building the board
		_, err := New(links)

		// Then: it should be rejected at load time
		assert.ErrorIs(t, err, ErrCellOutOfRange)
	})

	t.Run("Rejects a destination outside the track", func(t *testing.T) {
		// Given: a mapping with a destination past the final cell
		links := map[int]int{50: 101}

		// When: building the board
		_, err := New(links)

		// Then: it should be rejected at load time
		assert.ErrorIs(t, err, ErrCellOutOfRange)
	})

	t.Run("Rejects a cell linking to itself", func(t *testing.T) {
		// Given: a mapping where a cell maps to itself
		links := map[int]int{42: 42}

		// When: building the board
		_, err := New(links)

		// Then: it should be rejected at load time
		assert.ErrorIs(t, err, ErrSelfLink)
	})

	t.Run("Rejects chained entries", func(t *testing.T) {
		// Given: a mapping where one destination is itself a linked cell
		links := map[int]int{5: 20, 20: 60}

		// When: building the board
		_, err := New(links)

		// Then: it should be rejected at load time
		assert.ErrorIs(t, err, ErrChainedLink)
	})
}

func TestDefault(t *testing.T) {
	t.Run("Default board is a valid topology", func(t *testing.T) {
		// Given/When: the shipped board
		board := Default()

		// Then: it should exist and cells without links pass through
		require.NotNil(t, board)

		_, ok := board.Lookup(2)
		assert.False(t, ok)

		// And: the longest connector reaches the final cell
		dest, ok := board.Lookup(80)
		require.True(t, ok)
		assert.Equal(t, FinalCell, dest)
	})
}
