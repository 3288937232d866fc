package board

// Outcome of a single resolved roll.
type Outcome struct {
	NewPosition int
	Wins        bool
}

// Resolve - computes where a player at position ends up after a roll. Pure and
// independent of turn order. An overshoot past the final cell keeps the player
// in place and still consumes the turn. The topology is applied exactly once;
// a destination that itself carries a link is not followed further.
func (that *Board) Resolve(position, roll int) Outcome {
	candidate := position + roll

	if candidate > FinalCell {
		return Outcome{NewPosition: position}
	}

	if candidate == FinalCell {
		return Outcome{NewPosition: FinalCell, Wins: true}
	}

	if dest, ok := that.Lookup(candidate); ok {
		candidate = dest
	}

	return Outcome{NewPosition: candidate, Wins: candidate == FinalCell}
}
