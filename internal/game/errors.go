package game

import "errors"

// Error messages double as the client-facing reply strings, so the
// transport forwards them verbatim.
var (
	ErrRoomExists    = errors.New("Room already exists")
	ErrRoomNotFound  = errors.New("Room does not exist")
	ErrAlreadyInRoom = errors.New("Already in room")
)
