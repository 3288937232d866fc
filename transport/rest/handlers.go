package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/chutes-backend/internal/apperror"
	"github.com/rocketscienceinc/chutes-backend/internal/entity"
)

type gameRooms interface {
	CreateRoom(ctx context.Context, creatorName string) (*entity.Room, *entity.Player, error)
	JoinRoom(ctx context.Context, roomID, playerName string) (*entity.Room, *entity.Player, error)
	RollDice(ctx context.Context, roomID, playerID string) (*entity.Room, int, error)
	GetRoom(ctx context.Context, roomID string) (*entity.Room, error)
}

type handlers struct {
	logger *slog.Logger
	rooms  gameRooms
}

func newHandlers(logger *slog.Logger, rooms gameRooms) *handlers {
	return &handlers{
		logger: logger.With("component", "rest"),
		rooms:  rooms,
	}
}

type createRequest struct {
	PlayerName string `json:"playerName"`
}

type joinRequest struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type rollRequest struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

type roomResponse struct {
	Room   *entity.Room   `json:"room"`
	Player *entity.Player `json:"player,omitempty"`
	Roll   int            `json:"roll,omitempty"`
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "createRoom")

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, player, err := that.rooms.CreateRoom(r.Context(), req.PlayerName)
	if err != nil {
		log.Error("failed to create room", "error", err)
		that.writeAppError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, roomResponse{Room: room, Player: player})
}

func (that *handlers) joinRoom(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "joinRoom")

	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, player, err := that.rooms.JoinRoom(r.Context(), req.RoomID, req.PlayerName)
	if err != nil {
		log.Error("failed to join room", "roomID", req.RoomID, "error", err)
		that.writeAppError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, roomResponse{Room: room, Player: player})
}

func (that *handlers) rollDice(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "rollDice")

	var req rollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, roll, err := that.rooms.RollDice(r.Context(), req.RoomID, req.PlayerID)
	if err != nil {
		log.Error("failed to roll dice", "roomID", req.RoomID, "playerID", req.PlayerID, "error", err)
		that.writeAppError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, roomResponse{Room: room, Roll: roll})
}

func (that *handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "getRoom")

	roomID := chi.URLParam(r, "roomID")

	room, err := that.rooms.GetRoom(r.Context(), roomID)
	if err != nil {
		log.Error("failed to get room", "roomID", roomID, "error", err)
		that.writeAppError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, roomResponse{Room: room})
}

// writeAppError - maps the error taxonomy onto HTTP status codes.
func (that *handlers) writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperror.ErrRoomNotFound), errors.Is(err, apperror.ErrPlayerNotFound):
		that.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperror.ErrRoomFull),
		errors.Is(err, apperror.ErrInvalidState),
		errors.Is(err, apperror.ErrNotYourTurn):
		that.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperror.ErrStorageUnavailable):
		that.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		that.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (that *handlers) writeError(w http.ResponseWriter, status int, message string) {
	that.writeJSON(w, status, map[string]string{"error": message})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
