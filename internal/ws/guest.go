package ws

import (
	"crypto/rand"
	"encoding/hex"
)

// guestName fills in for clients that connect without a username. Usernames
// are display-only, so collisions are harmless.
func guestName() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return "guest-" + hex.EncodeToString(b)
}
