package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/chutes-backend/internal/apperror"
	"github.com/rocketscienceinc/chutes-backend/internal/broadcast"
)

const (
	actionSubscribe = "room:subscribe"
	actionRolling   = "room:rolling"
	actionState     = "room:state"
)

// handleSubscribe - attaches the connection to a room's event stream. The
// current snapshot is sent immediately, because anything published before the
// subscription is lost to this client.
func (that *Server) handleSubscribe(ctx context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleSubscribe")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.RoomID == "" {
		log.Error("roomId is missing in payload")
		return cl.send(msg.Action, Payload{Error: "roomId is required"})
	}

	room, err := that.rooms.GetRoom(ctx, payloadReq.RoomID)
	if err != nil {
		if errors.Is(err, apperror.ErrRoomNotFound) {
			return cl.send(msg.Action, Payload{Error: "room not found"})
		}
		return fmt.Errorf("failed to get room: %w", err)
	}

	if cl.subscribed(room.RoomID) {
		return cl.send(actionState, Payload{RoomID: room.RoomID, Room: room})
	}

	sub := that.hub.Subscribe(room.RoomID)
	cl.addSubscription(room.RoomID, sub)

	// the snapshot goes out before the pump starts, so a mutation committed
	// right after Subscribe cannot be shadowed by an older snapshot
	if err = cl.send(actionState, Payload{RoomID: room.RoomID, Room: room}); err != nil {
		cl.removeSubscription(room.RoomID)
		return err
	}

	go that.pump(cl, room.RoomID, sub)

	log.Info("client subscribed", "roomID", room.RoomID)

	return nil
}

// handleRolling - relays a "player is rolling" notice to the room's
// subscribers; it carries no state change.
func (that *Server) handleRolling(_ context.Context, cl *client, msg *Message) error {
	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.RoomID == "" || payloadReq.PlayerID == "" {
		return cl.send(msg.Action, Payload{Error: "roomId and playerId are required"})
	}

	that.hub.Publish(payloadReq.RoomID, broadcast.Event{
		Type:     broadcast.EventRolling,
		PlayerID: payloadReq.PlayerID,
	})

	return nil
}

// pump - forwards room events to the connection until the subscription or
// the connection goes away.
func (that *Server) pump(cl *client, roomID string, sub *broadcast.Subscription) {
	log := that.logger.With("method", "pump", "roomID", roomID)

	for event := range sub.Events() {
		var err error

		switch event.Type {
		case broadcast.EventState:
			err = cl.send(actionState, Payload{RoomID: roomID, Room: event.Room})
		case broadcast.EventRolling:
			err = cl.send(actionRolling, Payload{RoomID: roomID, PlayerID: event.PlayerID})
		}

		if err != nil {
			log.Info("dropping subscriber", "reason", err)
			cl.removeSubscription(roomID)
			return
		}
	}

	// the hub closed the stream, usually on room eviction; drop the local
	// entry so a later subscribe attaches a fresh subscription
	cl.removeSubscription(roomID)
}
