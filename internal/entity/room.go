package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/chutes-backend/internal/apperror"
)

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// MaxPlayers is the roster cap for a single room.
const MaxPlayers = 4

// Move is a single accepted roll, immutable once appended to the history.
type Move struct {
	PlayerID  string    `json:"playerId"`
	From      int       `json:"fromPosition"`
	To        int       `json:"toPosition"`
	Roll      int       `json:"roll"`
	Timestamp time.Time `json:"timestamp"`
}

type Room struct {
	RoomID           string    `json:"roomId"`
	Players          []*Player `json:"players"`
	Status           string    `json:"status"`
	CurrentTurnIndex int       `json:"currentTurnIndex"`
	WinnerName       string    `json:"winnerName,omitempty"`
	History          []Move    `json:"history"`
}

// NewRoom - creates a waiting room with the creator seated first.
func NewRoom(roomID string, creator *Player) *Room {
	creator.Color = Colors[0]

	return &Room{
		RoomID:  roomID,
		Players: []*Player{creator},
		Status:  StatusWaiting,
	}
}

func (that *Room) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Room) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Room) IsFinished() bool {
	return that.Status == StatusFinished
}

// AddPlayer - seats a player if the room is still waiting and not full, and
// assigns the seat's palette color.
func (that *Room) AddPlayer(player *Player) error {
	if !that.IsWaiting() {
		return fmt.Errorf("%w: room %s is %s", apperror.ErrInvalidState, that.RoomID, that.Status)
	}

	if len(that.Players) >= MaxPlayers {
		return fmt.Errorf("%w: room %s", apperror.ErrRoomFull, that.RoomID)
	}

	player.Color = Colors[len(that.Players)]
	that.Players = append(that.Players, player)

	return nil
}

// PlayerIndex - seating index of a player, -1 if not seated.
func (that *Room) PlayerIndex(playerID string) int {
	for i, player := range that.Players {
		if player.ID == playerID {
			return i
		}
	}
	return -1
}

// AdvanceTurn - moves the turn cursor round-robin; no bonus turn for a six.
func (that *Room) AdvanceTurn() {
	that.CurrentTurnIndex = (that.CurrentTurnIndex + 1) % len(that.Players)
}

// Clone - deep copy, so callers and subscribers never share mutable state
// with the engine.
func (that *Room) Clone() *Room {
	players := make([]*Player, len(that.Players))
	for i, player := range that.Players {
		copied := *player
		players[i] = &copied
	}

	history := make([]Move, len(that.History))
	copy(history, that.History)

	return &Room{
		RoomID:           that.RoomID,
		Players:          players,
		Status:           that.Status,
		CurrentTurnIndex: that.CurrentTurnIndex,
		WinnerName:       that.WinnerName,
		History:          history,
	}
}
