package experiment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/raygun/raygun-tui/internal/board"
	"github.com/raygun/raygun-tui/internal/experiment"
	"github.com/raygun/raygun-tui/internal/model"
	"github.com/raygun/raygun-tui/internal/scheduler"
	"github.com/raygun/raygun-tui/internal/store"
)

func observed(t *testing.T, st store.Store, b *board.Board) (*experiment.Controller, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	clock := scheduler.NewManual(epoch)
	c := experiment.New(experiment.Options{
		Store:     st,
		View:      b,
		Scheduler: clock,
		Logger:    zap.New(core),
		Now:       clock.Now,
	})
	t.Cleanup(c.Close)
	return c, logs
}

func TestTransitionsAreLogged(t *testing.T) {
	c, logs := observed(t, store.NewMemoryStore(), board.New())
	c.Init()
	require.NoError(t, c.Advance())

	entries := logs.FilterMessage("transitioning").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "landing", fields["from"])
	assert.Equal(t, "grind", fields["to"])
}

func TestStaleSessionDiscardIsLogged(t *testing.T) {
	st := store.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, st.Save(ctx, model.Session{
		CurrentState: model.StateGap,
		Timestamp:    epoch.Add(-25 * time.Hour),
	}))

	c, logs := observed(t, st, board.New())
	c.Init()

	assert.Equal(t, model.StateLanding, c.State())
	assert.Equal(t, 1, logs.FilterMessage("saved experiment too old, starting fresh").Len())
	assert.Zero(t, logs.FilterMessage("loaded saved experiment").Len())
}

func TestMissingScreenIsLoggedAsError(t *testing.T) {
	c, logs := observed(t, store.NewMemoryStore(), board.New(board.WithoutScreen(model.StateGrind)))
	c.Init()
	require.NoError(t, c.Advance())

	assert.Equal(t, model.StateGrind, c.State())
	errs := logs.FilterLevelExact(zapcore.ErrorLevel).FilterMessage("state element not found").All()
	require.Len(t, errs, 1)
	assert.Equal(t, "grind", errs[0].ContextMap()["state"])
}

func TestCorruptRecordIsDiscardedQuietly(t *testing.T) {
	st := store.NewMemoryStore()
	st.SetRaw([]byte("{not json"))

	c, logs := observed(t, st, board.New())
	c.Init()

	assert.Equal(t, model.StateLanding, c.State())
	assert.Equal(t, 1, logs.FilterMessage("saved experiment unreadable, starting fresh").FilterLevelExact(zapcore.InfoLevel).Len())
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestStorageErrorIsLoggedAsError(t *testing.T) {
	c, logs := observed(t, failingStore{}, board.New())
	c.Init()

	assert.Equal(t, model.StateLanding, c.State())
	assert.Equal(t, 1, logs.FilterMessage("failed to load experiment").FilterLevelExact(zapcore.ErrorLevel).Len())
}
