package broadcast

import (
	"sync"

	"github.com/rocketscienceinc/chutes-backend/internal/entity"
)

const (
	// EventState carries the full room snapshot after a committed mutation.
	EventState = "state"
	// EventRolling is a client-relayed notice that a player is about to roll.
	EventRolling = "rolling"
)

const subscriberBuffer = 16

type Event struct {
	Type     string       `json:"type"`
	Room     *entity.Room `json:"room,omitempty"`
	PlayerID string       `json:"playerId,omitempty"`
}

// Hub fans events out to all subscribers of a room. Publishing never blocks:
// a subscriber that cannot keep up misses events but never sees them out of
// order, and never stalls the publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

func New() *Hub {
	return &Hub{
		subs: make(map[string]map[*Subscription]struct{}),
	}
}

type Subscription struct {
	hub    *Hub
	roomID string
	ch     chan Event
	once   sync.Once
}

// Events - the ordered stream for this subscription. Closed on Close or when
// the room is torn down.
func (that *Subscription) Events() <-chan Event {
	return that.ch
}

func (that *Subscription) Close() {
	that.hub.unsubscribe(that)
}

// Subscribe - registers a subscriber for a room. A new subscriber has missed
// everything published before this call; it should fetch a fresh snapshot.
func (that *Hub) Subscribe(roomID string) *Subscription {
	sub := &Subscription{
		hub:    that,
		roomID: roomID,
		ch:     make(chan Event, subscriberBuffer),
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.subs[roomID] == nil {
		that.subs[roomID] = make(map[*Subscription]struct{})
	}
	that.subs[roomID][sub] = struct{}{}

	return sub
}

// Publish - delivers an event to every subscriber of the room, dropping it
// for subscribers whose buffer is full.
func (that *Hub) Publish(roomID string, event Event) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for sub := range that.subs[roomID] {
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// CloseRoom - drops and closes every subscription of a room.
func (that *Hub) CloseRoom(roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for sub := range that.subs[roomID] {
		sub.once.Do(func() { close(sub.ch) })
	}
	delete(that.subs, roomID)
}

func (that *Hub) unsubscribe(sub *Subscription) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.subs[sub.roomID]
	if !ok {
		return
	}

	if _, ok = room[sub]; !ok {
		return
	}

	delete(room, sub)
	if len(room) == 0 {
		delete(that.subs, sub.roomID)
	}

	sub.once.Do(func() { close(sub.ch) })
}
