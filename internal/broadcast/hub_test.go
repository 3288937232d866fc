package broadcast

import (
	"testing"

	"github.com/rocketscienceinc/chutes-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishSubscribe(t *testing.T) {
	t.Run("Subscribers receive events in publish order", func(t *testing.T) {
		// Given: a hub with one subscriber
		hub := New()
		sub := hub.Subscribe("ROOM1")
		defer sub.Close()

		// When: three snapshots are published
		for i := 1; i <= 3; i++ {
			hub.Publish("ROOM1", Event{Type: EventState, Room: &entity.Room{CurrentTurnIndex: i}})
		}

		// Then: they arrive in order
		for i := 1; i <= 3; i++ {
			event := <-sub.Events()
			assert.Equal(t, i, event.Room.CurrentTurnIndex)
		}
	})

	t.Run("Events are scoped to their room", func(t *testing.T) {
		// Given: subscribers on two different rooms
		hub := New()
		sub1 := hub.Subscribe("ROOM1")
		sub2 := hub.Subscribe("ROOM2")
		defer sub1.Close()
		defer sub2.Close()

		// When: publishing to one room
		hub.Publish("ROOM1", Event{Type: EventRolling, PlayerID: "p1"})

		// Then: only that room's subscriber sees it
		event := <-sub1.Events()
		assert.Equal(t, "p1", event.PlayerID)
		assert.Empty(t, sub2.Events())
	})

	t.Run("A slow subscriber drops events instead of blocking the publisher", func(t *testing.T) {
		// Given: a subscriber that never drains its buffer
		hub := New()
		sub := hub.Subscribe("ROOM1")
		defer sub.Close()

		// When: publishing more events than the buffer holds
		for i := 0; i < subscriberBuffer*2; i++ {
			hub.Publish("ROOM1", Event{Type: EventState})
		}

		// Then: the publisher never blocked and the buffer is full
		assert.Len(t, sub.Events(), subscriberBuffer)
	})

	t.Run("Close stops delivery and closes the channel", func(t *testing.T) {
		// Given: a subscriber
		hub := New()
		sub := hub.Subscribe("ROOM1")

		// When: the subscription is closed
		sub.Close()
		hub.Publish("ROOM1", Event{Type: EventState})

		// Then: the channel is closed and double-close is harmless
		_, open := <-sub.Events()
		assert.False(t, open)
		sub.Close()
	})

	t.Run("CloseRoom tears down every subscription of the room", func(t *testing.T) {
		// Given: two subscribers on the same room
		hub := New()
		sub1 := hub.Subscribe("ROOM1")
		sub2 := hub.Subscribe("ROOM1")

		// When: the room is closed
		hub.CloseRoom("ROOM1")

		// Then: both channels are closed
		_, open := <-sub1.Events()
		require.False(t, open)
		_, open = <-sub2.Events()
		require.False(t, open)

		// And: publishing afterwards is a no-op
		hub.Publish("ROOM1", Event{Type: EventState})
	})
}
