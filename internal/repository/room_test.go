package repository

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/chutes-backend/internal/apperror"
	"github.com/rocketscienceinc/chutes-backend/internal/entity"
	"github.com/rocketscienceinc/chutes-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	roomRepo := NewRoomRepository(st.Storage, 0)

	// Given: a waiting room with a seated creator and one move
	room := entity.NewRoom("ABC123", entity.NewPlayer("Alice"))
	room.History = append(room.History, entity.Move{
		PlayerID:  room.Players[0].ID,
		From:      0,
		To:        14,
		Roll:      4,
		Timestamp: time.Now().UTC().Truncate(time.Second),
	})

	// When: CreateOrUpdate is called
	err := roomRepo.CreateOrUpdate(ctx, room)

	// Then: no error should occur and the round-trip is stable
	require.NoError(t, err)

	stored, err := roomRepo.GetByID(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, room, stored)

	// When: the room is updated
	room.Status = entity.StatusPlaying
	room.CurrentTurnIndex = 0
	err = roomRepo.CreateOrUpdate(ctx, room)

	// Then: the stored record reflects the update
	require.NoError(t, err)

	stored, err = roomRepo.GetByID(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPlaying, stored.Status)
}

func TestRoomRepository_GetByID(t *testing.T) {
	ctx, st := suite.New(t)

	roomRepo := NewRoomRepository(st.Storage, 0)

	// Given: no stored room

	// When: GetByID is called with an unknown id
	_, err := roomRepo.GetByID(ctx, "MISSING")

	// Then: it should fail with ErrRoomNotFound
	assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
}

func TestRoomRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	roomRepo := NewRoomRepository(st.Storage, 0)

	// Given: a stored room
	room := entity.NewRoom("ABC123", entity.NewPlayer("Alice"))
	require.NoError(t, roomRepo.CreateOrUpdate(ctx, room))

	// When: the room is deleted
	err := roomRepo.DeleteByID(ctx, "ABC123")

	// Then: it should no longer be found
	require.NoError(t, err)

	_, err = roomRepo.GetByID(ctx, "ABC123")
	assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
}

func TestRoomRepository_TTL(t *testing.T) {
	ctx, st := suite.New(t)

	// Given: a repository with a short record TTL
	roomRepo := NewRoomRepository(st.Storage, time.Second)

	room := entity.NewRoom("ABC123", entity.NewPlayer("Alice"))
	require.NoError(t, roomRepo.CreateOrUpdate(ctx, room))

	// When: the TTL runs out
	time.Sleep(1500 * time.Millisecond)

	// Then: the record has expired
	_, err := roomRepo.GetByID(ctx, "ABC123")
	assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
}
