package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dasali-jenario/sketchroom/internal/game"
)

// Hub tracks live connections and room membership and implements
// game.Gateway. Fan-out is fire-and-forget: a full client buffer drops the
// message rather than blocking the game loop.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Client
	rooms map[string]map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*Client),
		rooms: make(map[string]map[string]*Client),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.conns[c.ID] = c
	h.mu.Unlock()
}

// Unregister drops the connection from the conn table and every room set.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.conns, c.ID)
	for roomID, members := range h.rooms {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) Join(roomID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.conns[connID]
	if !ok {
		return
	}
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[roomID] = members
	}
	members[connID] = c
}

func (h *Hub) Leave(roomID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

func (h *Hub) ToRoom(roomID string, ev game.Event) {
	payload, ok := encode(ev)
	if !ok {
		return
	}
	h.mu.RLock()
	for _, c := range h.rooms[roomID] {
		c.enqueue(payload)
	}
	h.mu.RUnlock()
}

func (h *Hub) ToRoomExcept(roomID, exceptID string, ev game.Event) {
	payload, ok := encode(ev)
	if !ok {
		return
	}
	h.mu.RLock()
	for id, c := range h.rooms[roomID] {
		if id == exceptID {
			continue
		}
		c.enqueue(payload)
	}
	h.mu.RUnlock()
}

func (h *Hub) ToConn(connID string, ev game.Event) {
	payload, ok := encode(ev)
	if !ok {
		return
	}
	h.mu.RLock()
	c, found := h.conns[connID]
	h.mu.RUnlock()
	if found {
		c.enqueue(payload)
	}
}

func (h *Hub) ToAll(ev game.Event) {
	payload, ok := encode(ev)
	if !ok {
		return
	}
	h.mu.RLock()
	for _, c := range h.conns {
		c.enqueue(payload)
	}
	h.mu.RUnlock()
}

func encode(ev game.Event) ([]byte, bool) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("event", ev.Type).Msg("event marshal failed")
		return nil, false
	}
	return payload, true
}
