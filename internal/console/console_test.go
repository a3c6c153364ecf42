package console_test

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/oozu/internal/console"
	"github.com/cory-johannsen/oozu/internal/game/assets"
	"github.com/cory-johannsen/oozu/internal/game/catalog"
	"github.com/cory-johannsen/oozu/internal/game/dice"
	"github.com/cory-johannsen/oozu/internal/gameserver"
	"github.com/cory-johannsen/oozu/internal/storage/jsonfile"
)

func newGame(t *testing.T) *gameserver.GameService {
	t.Helper()
	cat, err := catalog.Load("../../data/species.yaml", "../../data/items.yaml", zap.NewNop())
	require.NoError(t, err)
	store := jsonfile.New(filepath.Join(t.TempDir(), "players.json"), zap.NewNop())
	roller := dice.NewLoggedRoller(dice.NewSeededSource(42), zap.NewNop())
	settings := gameserver.Settings{StartingCurrency: 100, MaxStamina: 10, StarterChoices: 3}
	game := gameserver.NewGameService(cat, store, nil, assets.Static{}, roller, settings, zaptest.NewLogger(t))
	require.NoError(t, game.Load(context.Background()))
	return game
}

func run(t *testing.T, game *gameserver.GameService, script ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(script, "\n") + "\n")
	c := console.New(game, in, &out, "ash", false, zaptest.NewLogger(t))
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func TestConsole_RegisterAndInspect(t *testing.T) {
	out := run(t, newGame(t), "register hunter emberling Ash Ketch", "me", "oozu", "inv", "quit")

	assert.Contains(t, out, "Welcome to Oozu, ash.")
	assert.Contains(t, out, "Welcome, Ash Ketch! Emberling joins you.")
	assert.Contains(t, out, "Oozorbs: 100  Stamina: 10/10")
	assert.Contains(t, out, "1. Emberling Lv1 Emberling")
	assert.Contains(t, out, "Your inventory is empty.")
	assert.Contains(t, out, "Goodbye.")
}

func TestConsole_UnknownAndUsage(t *testing.T) {
	out := run(t, newGame(t), "dance", "rename", "rename zero Bob")

	assert.Contains(t, out, `Unknown command "dance". Type 'help'.`)
	assert.Equal(t, 2, strings.Count(out, "Usage: rename <n> <nickname>"))
}

func TestConsole_RendersDomainErrors(t *testing.T) {
	out := run(t, newGame(t), "me", "register hunter emberling Ash", "use sap_tonic", "trade ash sap_tonic 1")

	assert.Contains(t, out, "Player must register first.")
	assert.Contains(t, out, "Choose an Oozu to use that item on.")
	assert.Contains(t, out, "Cannot trade items with yourself.")
}

func TestConsole_HuntWalkthrough(t *testing.T) {
	out := run(t, newGame(t), "register hunter emberling Ash", "hunt", "act 1")

	assert.Contains(t, out, "Work: Hunting  stage 0/")
	assert.Contains(t, out, "act 3:")
	assert.Contains(t, out, "Work: Hunting  stage 1/")
	assert.Contains(t, out, "go 2:")
}

func TestConsole_StalePathRestartsHunt(t *testing.T) {
	out := run(t, newGame(t), "register hunter emberling Ash", "hunt", "act 1", "go 9")

	assert.Contains(t, out, "That path slipped away. Choose a new route.")
	assert.Contains(t, out, "(resumed)")
}

func TestConsole_StaleChoiceRestartsHunt(t *testing.T) {
	out := run(t, newGame(t), "register hunter emberling Ash", "hunt", "act nope")

	assert.Contains(t, out, "That choice slipped away. A new encounter unfolds.")
	assert.Contains(t, out, "(resumed)")
}

func TestConsole_QuestGoneElsewhere(t *testing.T) {
	game := newGame(t)
	var out bytes.Buffer
	c := console.New(game, strings.NewReader(""), &out, "ash", false, zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, c.Execute(ctx, "register hunter emberling Ash"))
	require.NoError(t, c.Execute(ctx, "hunt"))
	require.NoError(t, game.AbandonHuntingQuest(ctx, "ash"))
	require.NoError(t, c.Execute(ctx, "act 1"))
	require.NoError(t, c.Execute(ctx, "finale"))

	assert.Contains(t, out.String(), "That hunt is no longer available.")
	assert.Contains(t, out.String(), "That quest is no longer active.")
}

func TestConsole_EOFEndsRun(t *testing.T) {
	var out bytes.Buffer
	c := console.New(newGame(t), strings.NewReader("help"), &out, "ash", false, zap.NewNop())

	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "start or resume a hunting quest")
	assert.NotContains(t, out.String(), "Goodbye.")
}

func TestConsole_CancelEndsRun(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	var out bytes.Buffer
	c := console.New(newGame(t), r, &out, "ash", false, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("console did not stop")
	}
}
