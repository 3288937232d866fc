package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/rocketscienceinc/chutes-backend/internal/broadcast"
	"github.com/rocketscienceinc/chutes-backend/internal/entity"
)

type gameRooms interface {
	GetRoom(ctx context.Context, roomID string) (*entity.Room, error)
}

type Server struct {
	logger *slog.Logger
	rooms  gameRooms
	hub    *broadcast.Hub

	handlers map[string]func(ctx context.Context, cl *client, message *Message) error
}

func New(logger *slog.Logger, rooms gameRooms, hub *broadcast.Hub) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		rooms:  rooms,
		hub:    hub,

		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers[actionSubscribe] = server.handleSubscribe
	server.handlers[actionRolling] = server.handleRolling

	return server
}

// Start - serves websocket subscriptions until the context is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			that.logger.Error("failed to upgrade connection", "error", err)
			return
		}

		go that.serveConn(ctx, newClient(conn))
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

// serveConn - reads client messages until the connection drops, dispatching
// each action to its handler.
func (that *Server) serveConn(ctx context.Context, cl *client) {
	log := that.logger.With("method", "serveConn")

	defer cl.close()

	log.Info("websocket connection established")

	for {
		reqBody, err := wsutil.ReadClientText(cl.conn)
		if err != nil {
			log.Info("websocket connection closed", "reason", err)
			return
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, cl, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}
