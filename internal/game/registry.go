package game

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultTurnAdvanceDelay is how long a correct guess stays on screen
	// before the next turn starts.
	DefaultTurnAdvanceDelay = 2 * time.Second
	// DefaultEmptyRoomGrace is how long an empty room survives before the
	// reaper deletes it, so a quick rejoin keeps the room alive.
	DefaultEmptyRoomGrace = 5 * time.Second
)

// Registry owns every room and serializes all mutation behind a single
// mutex. Timer callbacks re-enter through the same mutex and re-validate
// against the room's epoch and turn generation before acting.
type Registry struct {
	mu     sync.Mutex
	rooms  map[string]*Room
	byConn map[string]string // connection id -> room it last joined
	epochs uint64

	gw    Gateway
	words WordSource

	advanceDelay time.Duration
	graceDelay   time.Duration
}

func NewRegistry(gw Gateway, words WordSource) *Registry {
	return &Registry{
		rooms:        make(map[string]*Room),
		byConn:       make(map[string]string),
		gw:           gw,
		words:        words,
		advanceDelay: DefaultTurnAdvanceDelay,
		graceDelay:   DefaultEmptyRoomGrace,
	}
}

// SetDelays overrides the timer durations. Call before serving traffic.
func (reg *Registry) SetDelays(advance, grace time.Duration) {
	reg.advanceDelay = advance
	reg.graceDelay = grace
}

// JoinResult mirrors the reply payload of createRoom and joinRoom.
type JoinResult struct {
	Room          string         `json:"room"`
	Players       []Player       `json:"players"`
	Scores        map[string]int `json:"scores"`
	CurrentDrawer *Player        `json:"currentDrawer"`
}

// CreateRoom registers a new room with the caller as sole member and first
// drawer, and starts the round immediately. Fails with ErrRoomExists while
// the id is taken, including rooms sitting out their deletion grace period.
func (reg *Registry) CreateRoom(roomID, username, connID string) (JoinResult, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, taken := reg.rooms[roomID]; taken {
		return JoinResult{}, ErrRoomExists
	}

	p := Player{ID: connID, Username: username}
	reg.epochs++
	room := &Room{
		id:         roomID,
		players:    []Player{p},
		scores:     map[string]int{connID: 0},
		drawer:     &p,
		word:       reg.words(),
		inProgress: true,
		creator:    connID,
		epoch:      reg.epochs,
	}
	reg.rooms[roomID] = room
	reg.byConn[connID] = roomID
	reg.gw.Join(roomID, connID)

	log.Info().Str("room", roomID).Str("conn", connID).Str("username", username).Msg("room created")

	reg.gw.ToConn(connID, Event{Type: EventTurnStart, Data: TurnStart{Drawer: p, Scores: room.snapshotScores()}})
	reg.gw.ToConn(connID, Event{Type: EventWordAssigned, Data: WordAssigned{Word: room.word}})
	reg.gw.ToConn(connID, Event{Type: EventPlayerJoined, Data: PlayerJoined{
		Players:       room.snapshotPlayers(),
		Scores:        room.snapshotScores(),
		CurrentDrawer: room.drawerRef(),
	}})
	reg.gw.ToAll(Event{Type: EventRoomsUpdated, Data: reg.roomListLocked()})

	return JoinResult{
		Room:          roomID,
		Players:       room.snapshotPlayers(),
		Scores:        room.snapshotScores(),
		CurrentDrawer: room.drawerRef(),
	}, nil
}

// JoinRoom appends the caller to an existing room. The round in flight is
// untouched; the newcomer enters rotation on the next turn advance.
func (reg *Registry) JoinRoom(roomID, username, connID string) (JoinResult, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[roomID]
	if !ok {
		return JoinResult{}, ErrRoomNotFound
	}
	if room.memberIndex(connID) >= 0 {
		return JoinResult{}, ErrAlreadyInRoom
	}

	// A join during the grace period revives the room.
	room.stopReaper()

	room.players = append(room.players, Player{ID: connID, Username: username})
	room.scores[connID] = 0
	reg.byConn[connID] = roomID
	reg.gw.Join(roomID, connID)

	log.Info().Str("room", roomID).Str("conn", connID).Str("username", username).Msg("player joined")

	joined := PlayerJoined{
		Players:       room.snapshotPlayers(),
		Scores:        room.snapshotScores(),
		CurrentDrawer: room.drawerRef(),
	}
	reg.gw.ToRoom(roomID, Event{Type: EventPlayerJoined, Data: joined})
	if room.isDrawer(connID) {
		// Rejoin race: the drawer slot survived, hand the word back.
		reg.gw.ToConn(connID, Event{Type: EventWordAssigned, Data: WordAssigned{Word: room.word}})
	}
	reg.gw.ToAll(Event{Type: EventRoomsUpdated, Data: reg.roomListLocked()})

	return JoinResult{
		Room:          roomID,
		Players:       joined.Players,
		Scores:        joined.Scores,
		CurrentDrawer: joined.CurrentDrawer,
	}, nil
}

// Rooms returns the discovery snapshot, sorted by id.
func (reg *Registry) Rooms() []RoomInfo {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.roomListLocked()
}

func (reg *Registry) roomListLocked() []RoomInfo {
	out := make([]RoomInfo, 0, len(reg.rooms))
	for id, room := range reg.rooms {
		out = append(out, RoomInfo{ID: id, Players: len(room.players), InProgress: room.inProgress})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Disconnect removes the connection from whatever room it last joined.
// Always safe to call; a connection that never joined is a no-op.
func (reg *Registry) Disconnect(connID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	roomID, ok := reg.byConn[connID]
	if !ok {
		return
	}
	delete(reg.byConn, connID)
	reg.gw.Leave(roomID, connID)

	room, ok := reg.rooms[roomID]
	if !ok {
		return
	}
	idx := room.memberIndex(connID)
	if idx < 0 {
		return
	}

	room.players = append(room.players[:idx], room.players[idx+1:]...)
	delete(room.scores, connID)

	wasDrawer := room.isDrawer(connID)
	if len(room.players) == 0 {
		room.drawer = nil
		room.word = ""
		room.inProgress = false
		room.turnGen++ // invalidate any pending turn advance
	} else if wasDrawer {
		// The player that slid into the departed drawer's slot is next in
		// join order; wrap when the drawer was last.
		reg.startTurnLocked(room, idx%len(room.players))
	}

	if room.creator == connID && len(room.players) > 0 {
		room.creator = room.players[0].ID
	}

	log.Info().Str("room", roomID).Str("conn", connID).Int("remaining", len(room.players)).Msg("player left")

	reg.gw.ToRoom(roomID, Event{Type: EventPlayerLeft, Data: PlayerLeft{
		Players:        room.snapshotPlayers(),
		Scores:         room.snapshotScores(),
		DisconnectedID: connID,
		CurrentDrawer:  room.drawerRef(),
	}})

	if len(room.players) == 0 {
		reg.scheduleReaperLocked(room)
	}
}

// scheduleReaperLocked arms the grace-period deletion for an empty room,
// superseding any earlier pending timer for the same room.
func (reg *Registry) scheduleReaperLocked(room *Room) {
	room.stopReaper()
	roomID, epoch := room.id, room.epoch
	room.reaper = time.AfterFunc(reg.graceDelay, func() {
		reg.reapRoom(roomID, epoch)
	})
}

// reapRoom fires after the grace period. It re-checks that the room still
// exists, is the same instance the timer was armed for, and is still empty;
// otherwise it leaves no trace.
func (reg *Registry) reapRoom(roomID string, epoch uint64) {
	reg.mu.Lock()
	room, ok := reg.rooms[roomID]
	if !ok || room.epoch != epoch || len(room.players) > 0 {
		reg.mu.Unlock()
		return
	}
	room.reaper = nil
	delete(reg.rooms, roomID)
	list := reg.roomListLocked()
	reg.mu.Unlock()

	log.Info().Str("room", roomID).Msg("empty room deleted")
	reg.gw.ToAll(Event{Type: EventRoomsUpdated, Data: list})
}
