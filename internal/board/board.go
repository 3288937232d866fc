package board

import (
	"errors"
	"fmt"
)

const (
	// FinalCell is the goal; landing on it exactly wins the game.
	FinalCell = 100
)

var (
	ErrCellOutOfRange = errors.New("topology cell out of range")
	ErrSelfLink       = errors.New("topology cell links to itself")
	ErrChainedLink    = errors.New("topology destination is itself a linked cell")
)

// Board is the static track topology: a cell either carries a chute (link to a
// lower cell) or a connector (link to a higher cell). Read-only after New, so
// it is safe for concurrent lookups without synchronization.
type Board struct {
	links map[int]int
}

// New - builds a board from a cell→destination mapping. The configuration is
// rejected if any entry sits on cell 0 or the final cell, maps a cell to
// itself, or chains into another entry.
func New(links map[int]int) (*Board, error) {
	for cell, dest := range links {
		if cell <= 0 || cell >= FinalCell {
			return nil, fmt.Errorf("%w: %d", ErrCellOutOfRange, cell)
		}

		if dest <= 0 || dest > FinalCell {
			return nil, fmt.Errorf("%w: %d -> %d", ErrCellOutOfRange, cell, dest)
		}

		if dest == cell {
			return nil, fmt.Errorf("%w: %d", ErrSelfLink, cell)
		}

		if _, chained := links[dest]; chained {
			return nil, fmt.Errorf("%w: %d -> %d", ErrChainedLink, cell, dest)
		}
	}

	copied := make(map[int]int, len(links))
	for cell, dest := range links {
		copied[cell] = dest
	}

	return &Board{links: copied}, nil
}

// MustNew - like New but panics; for static topologies known to be valid.
func MustNew(links map[int]int) *Board {
	board, err := New(links)
	if err != nil {
		panic(err)
	}
	return board
}

// Default - the classic 100-cell board: 9 connectors up, 10 chutes down.
func Default() *Board {
	return MustNew(map[int]int{
		// connectors
		1:  38,
		4:  14,
		9:  31,
		21: 42,
		28: 84,
		36: 44,
		51: 67,
		71: 91,
		80: 100,
		// chutes
		16: 6,
		47: 26,
		49: 11,
		56: 53,
		62: 19,
		64: 60,
		87: 24,
		93: 73,
		95: 75,
		98: 78,
	})
}

// Lookup - the alternate destination for a cell, if the cell carries a link.
func (that *Board) Lookup(cell int) (int, bool) {
	dest, ok := that.links[cell]
	return dest, ok
}
