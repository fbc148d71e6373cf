package game

// Event is the outbound envelope handed to the gateway. Data is marshalled
// as-is, so payloads carry their own json tags.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	EventConnected     = "connected"
	EventTurnStart     = "turnStart"
	EventWordAssigned  = "wordAssigned"
	EventPlayerJoined  = "playerJoined"
	EventPlayerLeft    = "playerLeft"
	EventCorrectGuess  = "correctGuess"
	EventCloseGuess    = "closeGuess"
	EventCanvasCleared = "canvasCleared"
	EventRoomsUpdated  = "roomsUpdated"
	EventDrawing       = "drawing"
)

// Gateway is the transport boundary. Implementations must not block: fan-out
// is fire-and-forget, with per-connection ordering guaranteed by the
// transport itself.
type Gateway interface {
	Join(roomID, connID string)
	Leave(roomID, connID string)
	ToRoom(roomID string, ev Event)
	ToRoomExcept(roomID, exceptID string, ev Event)
	ToConn(connID string, ev Event)
	ToAll(ev Event)
}

type TurnStart struct {
	Drawer Player         `json:"drawer"`
	Scores map[string]int `json:"scores"`
}

type WordAssigned struct {
	Word string `json:"word"`
}

type PlayerJoined struct {
	Players       []Player       `json:"players"`
	Scores        map[string]int `json:"scores"`
	CurrentDrawer *Player        `json:"currentDrawer"`
}

type PlayerLeft struct {
	Players        []Player       `json:"players"`
	Scores         map[string]int `json:"scores"`
	DisconnectedID string         `json:"disconnectedId"`
	CurrentDrawer  *Player        `json:"currentDrawer"`
}

type CorrectGuess struct {
	Guesser string         `json:"guesser"`
	Scores  map[string]int `json:"scores"`
}

// CloseGuess is sent privately to a guesser whose wrong answer was within a
// small edit distance of the word. It never carries the word itself.
type CloseGuess struct {
	Distance int `json:"distance"`
}

// RoomInfo is the discovery snapshot served by getRooms and roomsUpdated.
type RoomInfo struct {
	ID         string `json:"id"`
	Players    int    `json:"players"`
	InProgress bool   `json:"inProgress"`
}
