package uid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const gameIDBytes = 12

// NewGameID returns a random 24-character hex id for a hosted game.
func NewGameID() (string, error) {
	buf := make([]byte, gameIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate game ID: %v", err)
	}
	return hex.EncodeToString(buf), nil
}
