package game

import "time"

type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Room is the per-session aggregate. All fields are guarded by the owning
// Registry's mutex; nothing here locks on its own.
//
// Invariants between any two observable events:
//   - scores has exactly one entry per player
//   - drawer, when set, is a member of players
//   - word is non-empty exactly while inProgress
type Room struct {
	id         string
	players    []Player // insertion order defines turn rotation
	scores     map[string]int
	drawer     *Player
	word       string
	inProgress bool
	creator    string

	// epoch identifies this Room instance across delete/recreate of the same
	// id; turnGen is bumped on every turn transition. Timer callbacks check
	// both before touching the room.
	epoch   uint64
	turnGen uint64

	// reaper is the pending empty-room deletion, nil when none is scheduled.
	reaper *time.Timer
}

func (r *Room) memberIndex(connID string) int {
	for i, p := range r.players {
		if p.ID == connID {
			return i
		}
	}
	return -1
}

func (r *Room) isDrawer(connID string) bool {
	return r.drawer != nil && r.drawer.ID == connID
}

func (r *Room) snapshotPlayers() []Player {
	out := make([]Player, len(r.players))
	copy(out, r.players)
	return out
}

func (r *Room) snapshotScores() map[string]int {
	out := make(map[string]int, len(r.scores))
	for id, s := range r.scores {
		out[id] = s
	}
	return out
}

// drawerRef returns a copy of the current drawer, or nil.
func (r *Room) drawerRef() *Player {
	if r.drawer == nil {
		return nil
	}
	d := *r.drawer
	return &d
}

func (r *Room) stopReaper() {
	if r.reaper != nil {
		r.reaper.Stop()
		r.reaper = nil
	}
}
