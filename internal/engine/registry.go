package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/chutes-backend/internal/apperror"
	"github.com/rocketscienceinc/chutes-backend/internal/board"
	"github.com/rocketscienceinc/chutes-backend/internal/broadcast"
	"github.com/rocketscienceinc/chutes-backend/internal/entity"
	"github.com/rocketscienceinc/chutes-backend/internal/pkg"
	"github.com/rocketscienceinc/chutes-backend/internal/repository"
)

const maxIDAttempts = 5

var ErrNoFreeRoomID = errors.New("could not allocate a free room id")

// Options tune the per-room engines and the registry lifecycle.
type Options struct {
	// MinPlayers seated before the first roll is accepted. 1 preserves the
	// original solo-play behavior.
	MinPlayers int
	// StorageTimeout bounds every write through the storage collaborator.
	StorageTimeout time.Duration
	// IdleTimeout evicts waiting/playing rooms with no accepted mutation.
	IdleTimeout time.Duration
	// FinishedTimeout evicts finished rooms.
	FinishedTimeout time.Duration
	// EvictionInterval is the janitor tick.
	EvictionInterval time.Duration
}

func (that Options) withDefaults() Options {
	if that.MinPlayers <= 0 {
		that.MinPlayers = 1
	}
	if that.StorageTimeout <= 0 {
		that.StorageTimeout = 5 * time.Second
	}
	if that.IdleTimeout <= 0 {
		that.IdleTimeout = 30 * time.Minute
	}
	if that.FinishedTimeout <= 0 {
		that.FinishedTimeout = 5 * time.Minute
	}
	if that.EvictionInterval <= 0 {
		that.EvictionInterval = time.Minute
	}
	return that
}

// Registry owns the live engines, one per room. Engines for rooms that are
// still in storage but no longer live are revived on demand, so a client can
// always re-fetch current state by room code. Operations on different rooms
// never contend on anything but the registry map itself.
type Registry struct {
	logger *slog.Logger
	repo   repository.RoomRepository
	hub    *broadcast.Hub
	board  *board.Board
	opts   Options

	mu    sync.RWMutex
	rooms map[string]*Engine
}

func NewRegistry(logger *slog.Logger, repo repository.RoomRepository, hub *broadcast.Hub, gameBoard *board.Board, opts Options) *Registry {
	return &Registry{
		logger: logger.With("component", "registry"),
		repo:   repo,
		hub:    hub,
		board:  gameBoard,
		opts:   opts.withDefaults(),
		rooms:  make(map[string]*Engine),
	}
}

// CreateRoom - allocates a fresh room code, seats the creator and persists
// the initial waiting room.
func (that *Registry) CreateRoom(ctx context.Context, creatorName string) (*entity.Room, *entity.Player, error) {
	if creatorName == "" {
		creatorName = "Player 1"
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		roomID, err := pkg.GenerateRoomID()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate room id: %w", err)
		}

		if that.isTaken(ctx, roomID) {
			continue
		}

		creator := entity.NewPlayer(creatorName)
		room := entity.NewRoom(roomID, creator)
		eng := newEngine(that.logger, that.repo, that.hub, that.board, room, that.opts)

		// the code is reserved in the map before persisting, so a racing
		// creation picks another one instead of overwriting the record. The
		// engine lock is held across that first write: the engine is already
		// reachable through the map, and a join slipping in between would be
		// clobbered in storage by this stale initial state.
		eng.mu.Lock()

		that.mu.Lock()
		if _, exists := that.rooms[roomID]; exists {
			that.mu.Unlock()
			eng.mu.Unlock()
			continue
		}
		that.rooms[roomID] = eng
		that.mu.Unlock()

		err = eng.persist(ctx, room)
		eng.mu.Unlock()

		if err != nil {
			that.Remove(roomID)
			return nil, nil, err
		}

		that.logger.Info("room created", "roomID", roomID)

		return room.Clone(), creator, nil
	}

	return nil, nil, ErrNoFreeRoomID
}

// JoinRoom - seats a player in a waiting room.
func (that *Registry) JoinRoom(ctx context.Context, roomID, playerName string) (*entity.Room, *entity.Player, error) {
	eng, err := that.Get(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}

	return eng.Join(ctx, playerName)
}

// RollDice - resolves one turn for the acting player.
func (that *Registry) RollDice(ctx context.Context, roomID, playerID string) (*entity.Room, int, error) {
	eng, err := that.Get(ctx, roomID)
	if err != nil {
		return nil, 0, err
	}

	return eng.Roll(ctx, playerID)
}

// GetRoom - read-only snapshot of the current room state.
func (that *Registry) GetRoom(ctx context.Context, roomID string) (*entity.Room, error) {
	eng, err := that.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	return eng.Snapshot(), nil
}

// Get - the live engine for a room, reviving it from storage if needed.
func (that *Registry) Get(ctx context.Context, roomID string) (*Engine, error) {
	that.mu.RLock()
	eng, ok := that.rooms[roomID]
	that.mu.RUnlock()

	if ok {
		return eng, nil
	}

	room, err := that.repo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, apperror.ErrRoomNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", apperror.ErrStorageUnavailable, err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	// someone else may have revived it meanwhile
	if eng, ok = that.rooms[roomID]; ok {
		return eng, nil
	}

	eng = newEngine(that.logger, that.repo, that.hub, that.board, room, that.opts)
	that.rooms[roomID] = eng

	that.logger.Info("room revived from storage", "roomID", roomID)

	return eng, nil
}

// Remove - drops the live engine and closes its subscriptions. The persisted
// record stays in storage until its TTL runs out, so the room code can still
// be revived.
func (that *Registry) Remove(roomID string) {
	that.mu.Lock()
	delete(that.rooms, roomID)
	that.mu.Unlock()

	that.hub.CloseRoom(roomID)
}

// RunJanitor - evicts idle rooms until the context is cancelled.
func (that *Registry) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(that.opts.EvictionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			that.evictIdle()
		}
	}
}

func (that *Registry) evictIdle() {
	that.mu.RLock()
	engines := make([]*Engine, 0, len(that.rooms))
	for _, eng := range that.rooms {
		engines = append(engines, eng)
	}
	that.mu.RUnlock()

	for _, eng := range engines {
		idle := time.Since(eng.LastActive())

		timeout := that.opts.IdleTimeout
		if eng.Snapshot().IsFinished() {
			timeout = that.opts.FinishedTimeout
		}

		if idle < timeout {
			continue
		}

		that.Remove(eng.RoomID())
		that.logger.Info("room evicted", "roomID", eng.RoomID(), "idle", idle.String())
	}
}

// isTaken - a code collides if a live engine or a stored record holds it.
func (that *Registry) isTaken(ctx context.Context, roomID string) bool {
	that.mu.RLock()
	_, live := that.rooms[roomID]
	that.mu.RUnlock()

	if live {
		return true
	}

	if _, err := that.repo.GetByID(ctx, roomID); err == nil {
		return true
	}

	return false
}
