package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_Resolve(t *testing.T) {
	t.Run("Never leaves the track for any position and roll", func(t *testing.T) {
		// Given: the default board
		board := Default()

		// When/Then: every position and roll resolves inside [0, 100]
		for position := 0; position <= 99; position++ {
			for roll := 1; roll <= 6; roll++ {
				outcome := board.Resolve(position, roll)

				assert.GreaterOrEqual(t, outcome.NewPosition, 0, "position %d roll %d", position, roll)
				assert.LessOrEqual(t, outcome.NewPosition, FinalCell, "position %d roll %d", position, roll)
			}
		}
	})

	t.Run("Overshoot keeps the position and does not win", func(t *testing.T) {
		// Given: a player at 98 on the default board
		board := Default()

		// When: rolling past the final cell
		outcome := board.Resolve(98, 5)

		// Then: the position is unchanged and the turn is consumed
		assert.Equal(t, 98, outcome.NewPosition)
		assert.False(t, outcome.Wins)
	})

	t.Run("Exact landing on the final cell wins", func(t *testing.T) {
		// Given: a player at 94 on the default board
		board := Default()

		// When: rolling a 6
		outcome := board.Resolve(94, 6)

		// Then: the player reaches 100 and wins
		assert.Equal(t, FinalCell, outcome.NewPosition)
		assert.True(t, outcome.Wins)
	})

	t.Run("Landing on a chute slides the player down", func(t *testing.T) {
		// Given: a board with a chute from 17 to 7
		board := MustNew(map[int]int{17: 7})

		// When: a player at 14 rolls a 3
		outcome := board.Resolve(14, 3)

		// Then: the player ends at 7
		assert.Equal(t, 7, outcome.NewPosition)
		assert.False(t, outcome.Wins)
	})

	t.Run("Landing on a connector lifts the player up", func(t *testing.T) {
		// Given: a board with a connector from 3 to 22
		board := MustNew(map[int]int{3: 22})

		// When: a player at 0 rolls a 3
		outcome := board.Resolve(0, 3)

		// Then: the player ends at 22
		assert.Equal(t, 22, outcome.NewPosition)
		assert.False(t, outcome.Wins)
	})

	t.Run("Connector landing exactly on the final cell wins", func(t *testing.T) {
		// Given: a board with a connector from 80 to 100
		board := MustNew(map[int]int{80: 100})

		// When: a player at 77 rolls a 3
		outcome := board.Resolve(77, 3)

		// Then: the connector carries the player to 100 and wins
		assert.Equal(t, FinalCell, outcome.NewPosition)
		assert.True(t, outcome.Wins)
	})

	t.Run("Topology is applied exactly once per move", func(t *testing.T) {
		// Given: a raw board whose connector destination carries a chute.
		// New rejects such data, so build the fixture directly.
		board := &Board{links: map[int]int{5: 30, 30: 2}}

		// When: a player at 2 rolls a 3 and lands on the connector
		outcome := board.Resolve(2, 3)

		// Then: only one hop occurs; the chute at 30 is not followed
		require.Equal(t, 30, outcome.NewPosition)
	})
}
