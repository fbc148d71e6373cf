package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPlayerRoom(t *testing.T, words ...string) (*Registry, *recorderGateway) {
	t.Helper()
	reg, gw := newTestRegistry(words...)
	_, err := reg.CreateRoom("r1", "alice", "c1")
	require.NoError(t, err)
	_, err = reg.JoinRoom("r1", "bob", "c2")
	require.NoError(t, err)
	gw.reset()
	return reg, gw
}

func TestGuess_CorrectScoresOnceAndAdvances(t *testing.T) {
	reg, gw := twoPlayerRoom(t, "apple", "tiger")

	reg.Guess("r1", "c2", "apple")

	correct := gw.ofType(EventCorrectGuess)
	require.Len(t, correct, 1)
	data := correct[0].event.Data.(CorrectGuess)
	assert.Equal(t, "c2", data.Guesser)
	assert.Equal(t, map[string]int{"c1": 5, "c2": 10}, data.Scores)

	// The turn advance lands only after the display delay.
	assert.Empty(t, gw.ofType(EventTurnStart))
	starts := gw.waitFor(t, EventTurnStart, 1, 500*time.Millisecond)
	assert.Equal(t, "c2", starts[0].event.Data.(TurnStart).Drawer.ID)

	words := gw.ofType(EventWordAssigned)
	require.Len(t, words, 1)
	assert.Equal(t, "c2", words[0].connID)
	assert.Equal(t, "tiger", words[0].event.Data.(WordAssigned).Word)

	// Replaying the old word after the advance changes nothing.
	gw.reset()
	reg.Guess("r1", "c1", "apple")
	assert.Empty(t, gw.ofType(EventCorrectGuess))
	gw.waitForNo(t, EventTurnStart, 80*time.Millisecond)
	scoreInvariant(t, reg, "r1")
}

func TestGuess_DrawerNeverScores(t *testing.T) {
	reg, gw := twoPlayerRoom(t, "apple")

	reg.Guess("r1", "c1", "apple")

	assert.Empty(t, gw.ofType(EventCorrectGuess))
	gw.waitForNo(t, EventTurnStart, 80*time.Millisecond)

	reg.mu.Lock()
	scores := reg.rooms["r1"].snapshotScores()
	reg.mu.Unlock()
	assert.Equal(t, map[string]int{"c1": 0, "c2": 0}, scores)
}

func TestGuess_CaseInsensitiveExactMatch(t *testing.T) {
	reg, gw := twoPlayerRoom(t, "Apple", "tiger")

	reg.Guess("r1", "c2", " apple") // leading space: no trimming, no credit
	assert.Empty(t, gw.ofType(EventCorrectGuess))

	reg.Guess("r1", "c2", "aPPlE")
	require.Len(t, gw.ofType(EventCorrectGuess), 1)
}

func TestGuess_CloseHintGoesOnlyToGuesser(t *testing.T) {
	reg, gw := twoPlayerRoom(t, "apple")

	reg.Guess("r1", "c2", "appel")

	hints := gw.ofType(EventCloseGuess)
	require.Len(t, hints, 1)
	assert.Equal(t, "conn", hints[0].kind)
	assert.Equal(t, "c2", hints[0].connID)
	assert.Positive(t, hints[0].event.Data.(CloseGuess).Distance)

	// Way-off guesses stay silent, and hints never score.
	gw.reset()
	reg.Guess("r1", "c2", "zebra")
	assert.Empty(t, gw.ofType(EventCloseGuess))
	assert.Empty(t, gw.ofType(EventCorrectGuess))
	reg.mu.Lock()
	scores := reg.rooms["r1"].snapshotScores()
	reg.mu.Unlock()
	assert.Equal(t, map[string]int{"c1": 0, "c2": 0}, scores)
}

func TestGuess_IgnoredForOutsidersAndUnknownRooms(t *testing.T) {
	reg, gw := twoPlayerRoom(t, "apple")

	reg.Guess("r1", "stranger", "apple")
	reg.Guess("nope", "c2", "apple")

	assert.Empty(t, gw.ofType(EventCorrectGuess))
	scoreInvariant(t, reg, "r1")
}

func TestSkipTurn_DrawerOnly(t *testing.T) {
	reg, gw := twoPlayerRoom(t, "apple", "tiger")

	reg.SkipTurn("r1", "c2") // not the drawer
	assert.Empty(t, gw.ofType(EventTurnStart))

	reg.SkipTurn("r1", "c1")
	starts := gw.ofType(EventTurnStart)
	require.Len(t, starts, 1)
	assert.Equal(t, "c2", starts[0].event.Data.(TurnStart).Drawer.ID)

	words := gw.ofType(EventWordAssigned)
	require.Len(t, words, 1)
	assert.Equal(t, "c2", words[0].connID)
}

func TestSkipTurn_InvalidatesPendingAdvance(t *testing.T) {
	reg, gw := twoPlayerRoom(t, "apple", "tiger", "house")

	reg.Guess("r1", "c2", "apple") // schedules an advance
	reg.SkipTurn("r1", "c1")       // beats the timer

	starts := gw.waitFor(t, EventTurnStart, 1, 200*time.Millisecond)
	assert.Equal(t, "c2", starts[0].event.Data.(TurnStart).Drawer.ID)

	// The stale timer must not fire a second transition.
	time.Sleep(100 * time.Millisecond)
	assert.Len(t, gw.ofType(EventTurnStart), 1)
}

func TestDraw_DrawerOnlyAndExcludesSender(t *testing.T) {
	reg, gw := twoPlayerRoom(t)

	stroke := json.RawMessage(`{"x":1,"y":2}`)

	reg.Draw("r1", "c2", stroke) // not the drawer
	assert.Empty(t, gw.ofType(EventDrawing))

	reg.Draw("r1", "c1", stroke)
	draws := gw.ofType(EventDrawing)
	require.Len(t, draws, 1)
	assert.Equal(t, "roomExcept", draws[0].kind)
	assert.Equal(t, "c1", draws[0].connID)
	assert.Equal(t, stroke, draws[0].event.Data)
}

func TestClearCanvas_DrawerOnlyWholeRoom(t *testing.T) {
	reg, gw := twoPlayerRoom(t)

	reg.ClearCanvas("r1", "c2")
	assert.Empty(t, gw.ofType(EventCanvasCleared))

	reg.ClearCanvas("r1", "c1")
	cleared := gw.ofType(EventCanvasCleared)
	require.Len(t, cleared, 1)
	assert.Equal(t, "room", cleared[0].kind)
}

// Full game flow: create, join, drawer guess ignored, correct guess
// scores 10/5 and hands the turn over after the delay.
func TestGameScenario_CreateJoinGuessAdvance(t *testing.T) {
	reg, gw := newTestRegistry("apple", "tiger")

	_, err := reg.CreateRoom("r1", "p1", "conn1")
	require.NoError(t, err)
	_, err = reg.JoinRoom("r1", "p2", "conn2")
	require.NoError(t, err)
	gw.reset()

	reg.Guess("r1", "conn1", "apple") // drawer guessing their own word
	assert.Empty(t, gw.ofType(EventCorrectGuess))

	reg.Guess("r1", "conn2", "apple")
	correct := gw.ofType(EventCorrectGuess)
	require.Len(t, correct, 1)
	assert.Equal(t, map[string]int{"conn1": 5, "conn2": 10}, correct[0].event.Data.(CorrectGuess).Scores)

	starts := gw.waitFor(t, EventTurnStart, 1, 500*time.Millisecond)
	data := starts[0].event.Data.(TurnStart)
	assert.Equal(t, "conn2", data.Drawer.ID)
	assert.Equal(t, map[string]int{"conn1": 5, "conn2": 10}, data.Scores)

	words := gw.ofType(EventWordAssigned)
	require.Len(t, words, 1)
	assert.Equal(t, "conn2", words[0].connID)
	assert.Equal(t, "tiger", words[0].event.Data.(WordAssigned).Word)
	scoreInvariant(t, reg, "r1")
}
