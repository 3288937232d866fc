package apperror

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrRoomFull           = errors.New("room is full")
	ErrInvalidState       = errors.New("operation is not valid for the current room state")
	ErrNotYourTurn        = errors.New("it's not your turn")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
