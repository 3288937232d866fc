package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/rocketscienceinc/chutes-backend/internal/apperror"
	"github.com/rocketscienceinc/chutes-backend/internal/board"
	"github.com/rocketscienceinc/chutes-backend/internal/broadcast"
	"github.com/rocketscienceinc/chutes-backend/internal/entity"
	"github.com/rocketscienceinc/chutes-backend/internal/repository"
)

const diceSides = 6

type broadcaster interface {
	Publish(roomID string, event broadcast.Event)
}

// Engine owns one room's state. Every mutation runs under the room mutex:
// clone the state, mutate the clone, persist it, and only then commit the
// clone as the current state. A persistence failure therefore never leaves a
// half-applied room behind, and no two rolls can interleave their
// read-modify-write sequence.
type Engine struct {
	logger *slog.Logger
	repo   repository.RoomRepository
	hub    broadcaster
	board  *board.Board
	opts   Options

	mu         sync.Mutex
	room       *entity.Room
	lastActive time.Time

	roll func() int
}

func newEngine(logger *slog.Logger, repo repository.RoomRepository, hub broadcaster, gameBoard *board.Board, room *entity.Room, opts Options) *Engine {
	return &Engine{
		logger:     logger.With("component", "engine", "roomID", room.RoomID),
		repo:       repo,
		hub:        hub,
		board:      gameBoard,
		opts:       opts,
		room:       room,
		lastActive: time.Now(),
		roll:       func() int { return rand.Intn(diceSides) + 1 }, //nolint: gosec // game dice, not crypto
	}
}

// RoomID - immutable, safe without the lock.
func (that *Engine) RoomID() string {
	return that.room.RoomID
}

// Snapshot - a deep copy of the current room state.
func (that *Engine) Snapshot() *entity.Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.room.Clone()
}

// LastActive - time of the last accepted mutation, for idle eviction.
func (that *Engine) LastActive() time.Time {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.lastActive
}

// Join - seats a new player while the room is waiting. An empty name gets the
// seat-numbered default.
func (that *Engine) Join(ctx context.Context, playerName string) (*entity.Room, *entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	next := that.room.Clone()

	if playerName == "" {
		playerName = fmt.Sprintf("Player %d", len(next.Players)+1)
	}

	player := entity.NewPlayer(playerName)
	if err := next.AddPlayer(player); err != nil {
		return nil, nil, err
	}

	if err := that.persist(ctx, next); err != nil {
		return nil, nil, err
	}

	that.commit(next)

	return next.Clone(), player, nil
}

// Roll - resolves one turn for the acting player. The first accepted roll
// moves a waiting room to playing, provided the configured minimum of players
// is seated.
func (that *Engine) Roll(ctx context.Context, playerID string) (*entity.Room, int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room := that.room

	if room.IsFinished() {
		return nil, 0, fmt.Errorf("%w: room %s is finished", apperror.ErrInvalidState, room.RoomID)
	}

	idx := room.PlayerIndex(playerID)
	if idx < 0 {
		return nil, 0, fmt.Errorf("%w: player %s in room %s", apperror.ErrPlayerNotFound, playerID, room.RoomID)
	}

	if room.IsWaiting() && len(room.Players) < that.opts.MinPlayers {
		return nil, 0, fmt.Errorf("%w: room %s needs %d players to start", apperror.ErrInvalidState, room.RoomID, that.opts.MinPlayers)
	}

	if idx != room.CurrentTurnIndex {
		return nil, 0, fmt.Errorf("%w: player %s", apperror.ErrNotYourTurn, playerID)
	}

	roll := that.roll()

	next := room.Clone()
	if next.IsWaiting() {
		next.Status = entity.StatusPlaying
	}

	player := next.Players[idx]
	outcome := that.board.Resolve(player.Position, roll)

	next.History = append(next.History, entity.Move{
		PlayerID:  playerID,
		From:      player.Position,
		To:        outcome.NewPosition,
		Roll:      roll,
		Timestamp: time.Now().UTC(),
	})
	player.Position = outcome.NewPosition

	if outcome.Wins {
		player.HasWon = true
		next.WinnerName = player.Name
		next.Status = entity.StatusFinished
	} else {
		next.AdvanceTurn()
	}

	if err := that.persist(ctx, next); err != nil {
		return nil, 0, err
	}

	that.commit(next)

	return next.Clone(), roll, nil
}

// persist - writes the candidate state through the storage collaborator with
// a bounded timeout. The in-memory state is untouched until commit.
func (that *Engine) persist(ctx context.Context, room *entity.Room) error {
	ctx, cancel := context.WithTimeout(ctx, that.opts.StorageTimeout)
	defer cancel()

	if err := that.repo.CreateOrUpdate(ctx, room); err != nil {
		that.logger.Error("failed to persist room", "error", err)
		return fmt.Errorf("%w: %s", apperror.ErrStorageUnavailable, err)
	}

	return nil
}

// commit - swaps in the new state and fans it out. Broadcast is best-effort
// and can never fail the mutation; the hub drops events for slow subscribers.
func (that *Engine) commit(room *entity.Room) {
	that.room = room
	that.lastActive = time.Now()

	that.hub.Publish(room.RoomID, broadcast.Event{
		Type: broadcast.EventState,
		Room: room.Clone(),
	})
}
