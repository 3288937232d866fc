package pkg

import (
	"crypto/rand"
	"fmt"
)

// Room codes are short enough to type or share in chat. The alphabet skips
// nothing: collisions are handled by the registry's retry loop.
const (
	roomIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	roomIDLength   = 6
)

// GenerateRoomID - returns a random 6-character uppercase room code.
func GenerateRoomID() (string, error) {
	buf := make([]byte, roomIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	for i, b := range buf {
		buf[i] = roomIDAlphabet[int(b)%len(roomIDAlphabet)]
	}

	return string(buf), nil
}
