package entity

import "github.com/google/uuid"

// Player colors, assigned in seating order from a fixed palette.
var Colors = [4]string{"red", "blue", "green", "yellow"}

type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Position int    `json:"position"`
	HasWon   bool   `json:"hasWon"`
}

// NewPlayer - creates a player with a fresh session ID at position 0 (off the
// track). The color is assigned when the player is seated.
func NewPlayer(name string) *Player {
	return &Player{
		ID:   uuid.NewString(),
		Name: name,
	}
}
