package game

import (
	"sync"
	"testing"
	"time"
)

// sentEvent records one gateway emission for assertions.
type sentEvent struct {
	kind   string // "room", "roomExcept", "conn", "all"
	roomID string
	connID string // target for "conn", excluded sender for "roomExcept"
	event  Event
}

// recorderGateway is a test double for the transport: it records every
// emission and membership change instead of delivering anything.
type recorderGateway struct {
	mu     sync.Mutex
	events []sentEvent
	joins  [][2]string
	leaves [][2]string
}

func newRecorder() *recorderGateway { return &recorderGateway{} }

func (g *recorderGateway) Join(roomID, connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.joins = append(g.joins, [2]string{roomID, connID})
}

func (g *recorderGateway) Leave(roomID, connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.leaves = append(g.leaves, [2]string{roomID, connID})
}

func (g *recorderGateway) ToRoom(roomID string, ev Event) {
	g.record(sentEvent{kind: "room", roomID: roomID, event: ev})
}

func (g *recorderGateway) ToRoomExcept(roomID, exceptID string, ev Event) {
	g.record(sentEvent{kind: "roomExcept", roomID: roomID, connID: exceptID, event: ev})
}

func (g *recorderGateway) ToConn(connID string, ev Event) {
	g.record(sentEvent{kind: "conn", connID: connID, event: ev})
}

func (g *recorderGateway) ToAll(ev Event) {
	g.record(sentEvent{kind: "all", event: ev})
}

func (g *recorderGateway) record(ev sentEvent) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, ev)
}

func (g *recorderGateway) ofType(eventType string) []sentEvent {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []sentEvent
	for _, ev := range g.events {
		if ev.event.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func (g *recorderGateway) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = nil
}

// waitFor polls until at least n events of the given type were recorded.
// Timer-driven emissions arrive asynchronously, so tests never assert on
// them without a deadline.
func (g *recorderGateway) waitFor(t *testing.T, eventType string, n int, within time.Duration) []sentEvent {
	t.Helper()
	deadline := time.Now().Add(within)
	for {
		if evs := g.ofType(eventType); len(evs) >= n {
			return evs
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d %q events, got %d", n, eventType, len(g.ofType(eventType)))
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// waitForNo asserts that no event of the given type shows up for the whole
// window.
func (g *recorderGateway) waitForNo(t *testing.T, eventType string, within time.Duration) {
	t.Helper()
	time.Sleep(within)
	if evs := g.ofType(eventType); len(evs) > 0 {
		t.Fatalf("expected no %q events, got %d", eventType, len(evs))
	}
}

// seqWords returns a deterministic word source cycling through the given
// words.
func seqWords(words ...string) WordSource {
	i := 0
	return func() string {
		w := words[i%len(words)]
		i++
		return w
	}
}

// newTestRegistry wires a registry with short timer delays and a pinned
// vocabulary.
func newTestRegistry(words ...string) (*Registry, *recorderGateway) {
	if len(words) == 0 {
		words = []string{"apple"}
	}
	gw := newRecorder()
	reg := NewRegistry(gw, seqWords(words...))
	reg.SetDelays(30*time.Millisecond, 40*time.Millisecond)
	return reg, gw
}

// scoreInvariant checks that the score map keys exactly match the member
// ids.
func scoreInvariant(t *testing.T, reg *Registry, roomID string) {
	t.Helper()
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[roomID]
	if !ok {
		return
	}
	if len(room.scores) != len(room.players) {
		t.Fatalf("room %s: %d scores for %d players", roomID, len(room.scores), len(room.players))
	}
	for _, p := range room.players {
		if _, ok := room.scores[p.ID]; !ok {
			t.Fatalf("room %s: player %s has no score entry", roomID, p.ID)
		}
	}
}
