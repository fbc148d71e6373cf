package game

import (
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog/log"
)

const (
	guesserPoints = 10
	drawerPoints  = 5

	// closeGuessDistance is the maximum edit distance that still earns the
	// guesser a private "almost" hint. Never worth points.
	closeGuessDistance = 2
)

// startTurnLocked makes players[next] the drawer, assigns a fresh word and
// announces the turn. The word goes to the drawer's connection only.
func (reg *Registry) startTurnLocked(room *Room, next int) {
	room.turnGen++
	if len(room.players) == 0 {
		room.drawer = nil
		room.word = ""
		room.inProgress = false
		return
	}

	p := room.players[next]
	room.drawer = &p
	room.word = reg.words()
	room.inProgress = true

	log.Debug().Str("room", room.id).Str("drawer", p.ID).Msg("turn started")

	reg.gw.ToRoom(room.id, Event{Type: EventTurnStart, Data: TurnStart{Drawer: p, Scores: room.snapshotScores()}})
	reg.gw.ToConn(p.ID, Event{Type: EventWordAssigned, Data: WordAssigned{Word: room.word}})
}

// advanceTurnLocked rotates to the player after the current drawer, wrapping
// at the end of the join order. With no current drawer it starts at index 0.
func (reg *Registry) advanceTurnLocked(room *Room) {
	next := 0
	if room.drawer != nil {
		if i := room.memberIndex(room.drawer.ID); i >= 0 {
			next = (i + 1) % len(room.players)
		}
	}
	reg.startTurnLocked(room, next)
}

// Guess processes a guess attempt. Routine races (round over, unknown room,
// drawer guessing, non-member) are ignored without reply. A correct guess
// scores guesser and drawer and schedules the turn advance; the delayed
// callback re-validates room identity and turn generation before acting.
func (reg *Registry) Guess(roomID, connID, text string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[roomID]
	if !ok || !room.inProgress || room.word == "" || room.drawer == nil ||
		room.isDrawer(connID) || room.memberIndex(connID) < 0 {
		return
	}

	if !strings.EqualFold(text, room.word) {
		dist := levenshtein.ComputeDistance(strings.ToLower(text), strings.ToLower(room.word))
		if dist > 0 && dist <= closeGuessDistance {
			reg.gw.ToConn(connID, Event{Type: EventCloseGuess, Data: CloseGuess{Distance: dist}})
		}
		return
	}

	room.scores[connID] += guesserPoints
	room.scores[room.drawer.ID] += drawerPoints

	log.Info().Str("room", roomID).Str("guesser", connID).Msg("correct guess")

	reg.gw.ToRoom(roomID, Event{Type: EventCorrectGuess, Data: CorrectGuess{
		Guesser: connID,
		Scores:  room.snapshotScores(),
	}})

	epoch, gen := room.epoch, room.turnGen
	time.AfterFunc(reg.advanceDelay, func() {
		reg.advanceAfterGuess(roomID, epoch, gen)
	})
}

// advanceAfterGuess is the delayed half of a correct guess. It only acts if
// the room is still the same instance and no other transition beat it.
func (reg *Registry) advanceAfterGuess(roomID string, epoch, gen uint64) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[roomID]
	if !ok || room.epoch != epoch || room.turnGen != gen || len(room.players) == 0 {
		return
	}
	reg.advanceTurnLocked(room)
}

// SkipTurn lets the current drawer pass immediately.
func (reg *Registry) SkipTurn(roomID, connID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[roomID]
	if !ok || !room.isDrawer(connID) {
		return
	}
	reg.advanceTurnLocked(room)
}

// Draw relays an opaque stroke payload from the drawer to everyone else in
// the room. The payload is not interpreted.
func (reg *Registry) Draw(roomID, connID string, drawData any) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[roomID]
	if !ok || !room.isDrawer(connID) {
		return
	}
	reg.gw.ToRoomExcept(roomID, connID, Event{Type: EventDrawing, Data: drawData})
}

// ClearCanvas broadcasts a clear to the whole room, drawer included, so the
// drawer's own canvas reset stays idempotent.
func (reg *Registry) ClearCanvas(roomID, connID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[roomID]
	if !ok || !room.isDrawer(connID) {
		return
	}
	reg.gw.ToRoom(roomID, Event{Type: EventCanvasCleared, Data: struct{}{}})
}
