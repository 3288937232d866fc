package websocket

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/gobwas/ws/wsutil"
	"github.com/rocketscienceinc/chutes-backend/internal/broadcast"
	"github.com/rocketscienceinc/chutes-backend/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	RoomID   string       `json:"roomId,omitempty"`
	PlayerID string       `json:"playerId,omitempty"`
	Room     *entity.Room `json:"room,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// client is one websocket connection and its room subscriptions. Writes are
// serialized because the reader loop and subscription pumps share the conn.
type client struct {
	conn net.Conn

	writeMu sync.Mutex

	subsMu sync.Mutex
	subs   map[string]*broadcast.Subscription
}

func newClient(conn net.Conn) *client {
	return &client{
		conn: conn,
		subs: make(map[string]*broadcast.Subscription),
	}
}

func (that *client) send(action string, payload Payload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message, err := json.Marshal(Message{Action: action, Payload: payloadJSON})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = wsutil.WriteServerText(that.conn, message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *client) subscribed(roomID string) bool {
	that.subsMu.Lock()
	defer that.subsMu.Unlock()

	_, ok := that.subs[roomID]
	return ok
}

func (that *client) addSubscription(roomID string, sub *broadcast.Subscription) {
	that.subsMu.Lock()
	defer that.subsMu.Unlock()

	that.subs[roomID] = sub
}

func (that *client) removeSubscription(roomID string) {
	that.subsMu.Lock()
	sub, ok := that.subs[roomID]
	delete(that.subs, roomID)
	that.subsMu.Unlock()

	if ok {
		sub.Close()
	}
}

// close - tears down every subscription and the underlying connection.
func (that *client) close() {
	that.subsMu.Lock()
	subs := make([]*broadcast.Subscription, 0, len(that.subs))
	for _, sub := range that.subs {
		subs = append(subs, sub)
	}
	that.subs = make(map[string]*broadcast.Subscription)
	that.subsMu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}

	_ = that.conn.Close()
}
