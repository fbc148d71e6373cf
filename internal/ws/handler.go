package ws

import (
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dasali-jenario/sketchroom/internal/game"
)

// Message is the inbound client envelope.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type createJoinPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

type roomPayload struct {
	Room string `json:"room"`
}

type drawPayload struct {
	Room     string          `json:"room"`
	DrawData json.RawMessage `json:"drawData"`
}

type guessPayload struct {
	Room  string `json:"room"`
	Guess string `json:"guess"`
}

// opResult is the reply to createRoom/joinRoom, matching the shape clients
// expect: either {success:true, room, players, ...} or {error: "..."}.
type opResult struct {
	Success bool   `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
	*game.JoinResult
}

type connectedPayload struct {
	ClientID string `json:"clientId"`
	Username string `json:"username"`
}

// Serve owns one connection end to end: register with the hub, greet the
// client with its id, pump messages, and on any exit run the disconnect
// path. Blocks until the connection dies.
func Serve(reg *game.Registry, hub *Hub, conn *websocket.Conn) {
	c := NewClient(conn)
	if c.Username = conn.Query("username"); c.Username == "" {
		c.Username = guestName()
	}
	hub.Register(c)

	defer func() {
		c.cleanup()
		reg.Disconnect(c.ID)
		hub.Unregister(c)
		log.Info().Str("conn", c.ID).Msg("connection closed")
	}()

	log.Info().Str("conn", c.ID).Str("username", c.Username).Msg("connection opened")
	hub.ToConn(c.ID, game.Event{Type: game.EventConnected, Data: connectedPayload{ClientID: c.ID, Username: c.Username}})

	go c.readPump(reg, hub)
	c.WritePump()
}

func (c *Client) readPump(reg *game.Registry, hub *Hub) {
	defer c.cleanup()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Str("conn", c.ID).Msg("read failed")
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Debug().Err(err).Str("conn", c.ID).Msg("invalid envelope")
			continue
		}
		handleMessage(reg, hub, c, msg)
	}
}

// handleMessage routes one inbound event into the registry. Requests that
// carry a reply (createRoom, joinRoom, getRooms) answer on the sender's
// connection; everything else is fire-and-forget.
func handleMessage(reg *game.Registry, hub *Hub, c *Client, msg Message) {
	switch msg.Type {
	case "createRoom":
		var p createJoinPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return
		}
		res, err := reg.CreateRoom(p.RoomID, displayName(p.Username, c), c.ID)
		hub.ToConn(c.ID, game.Event{Type: "createRoomResult", Data: result(res, err)})

	case "joinRoom":
		var p createJoinPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return
		}
		res, err := reg.JoinRoom(p.RoomID, displayName(p.Username, c), c.ID)
		hub.ToConn(c.ID, game.Event{Type: "joinRoomResult", Data: result(res, err)})

	case "getRooms":
		hub.ToConn(c.ID, game.Event{Type: "roomsList", Data: reg.Rooms()})

	case "draw":
		var p drawPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return
		}
		reg.Draw(p.Room, c.ID, p.DrawData)

	case "guess":
		var p guessPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return
		}
		reg.Guess(p.Room, c.ID, p.Guess)

	case "clearCanvas":
		var p roomPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return
		}
		reg.ClearCanvas(p.Room, c.ID)

	case "skipTurn":
		var p roomPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return
		}
		reg.SkipTurn(p.Room, c.ID)

	default:
		log.Debug().Str("conn", c.ID).Str("type", msg.Type).Msg("unknown message type")
	}
}

func displayName(username string, c *Client) string {
	if username != "" {
		return username
	}
	return c.Username
}

func result(res game.JoinResult, err error) opResult {
	if err != nil {
		return opResult{Error: err.Error()}
	}
	return opResult{Success: true, JoinResult: &res}
}
