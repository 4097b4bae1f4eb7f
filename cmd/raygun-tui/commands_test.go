package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raygun/raygun-tui/internal/model"
	"github.com/raygun/raygun-tui/internal/store"
)

// isolate points config and data lookups at temp dirs
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(prev) })
	for _, k := range []string{"RAYGUN_STORE", "RAYGUN_DATA_DIR", "RAYGUN_LOG_LEVEL", "RAYGUN_PATTERN", "RAYGUN_REDUCED_MOTION"} {
		t.Setenv(k, "")
	}
	return home
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPatternsCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "patterns")
	require.NoError(t, err)
	assert.Contains(t, out, "classic")
	assert.Contains(t, out, "10s")
	assert.Contains(t, out, "inhale 4s")
}

func TestStatusWithoutSession(t *testing.T) {
	isolate(t)

	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved session.")
}

func TestStatusAndReset(t *testing.T) {
	isolate(t)
	dataDir := t.TempDir()

	st, err := store.Open(store.BackendFile, dataDir)
	require.NoError(t, err)
	require.NoError(t, st.Save(context.Background(), model.Session{
		CurrentState: model.StateGap,
		GrindTask:    "Inbox zero",
		FrameChoice:  string(model.FrameObstacle),
		Timestamp:    time.Now().Add(-time.Hour),
	}))
	require.NoError(t, st.Close())

	out, err := execute(t, "status", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "gap")
	assert.Contains(t, out, "Inbox zero")
	assert.Contains(t, out, "An obstacle in my way")
	assert.Regexp(t, `Resumable:\s+yes`, out)

	out, err = execute(t, "reset", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Session cleared.")

	out, err = execute(t, "status", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "No saved session.")

	out, err = execute(t, "history", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "gap")
	assert.Contains(t, out, "reset")
}

func TestStatusStaleSession(t *testing.T) {
	isolate(t)
	dataDir := t.TempDir()

	st, err := store.Open(store.BackendSQLite, dataDir)
	require.NoError(t, err)
	require.NoError(t, st.Save(context.Background(), model.Session{
		CurrentState: model.StateFrame,
		Timestamp:    time.Now().Add(-48 * time.Hour),
	}))
	require.NoError(t, st.Close())

	out, err := execute(t, "status", "--store", "sqlite", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Regexp(t, `Resumable:\s+no`, out)
}

func TestHistoryEmpty(t *testing.T) {
	isolate(t)

	out, err := execute(t, "history", "--data-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No transitions recorded.")
}

func TestInvalidFlags(t *testing.T) {
	isolate(t)

	_, err := execute(t, "status", "--store", "redis")
	assert.ErrorContains(t, err, "invalid flags")

	_, err = execute(t, "status", "--pattern", "hyperventilate")
	assert.ErrorContains(t, err, "unknown breathing pattern")
}

func TestConfigInitAndShow(t *testing.T) {
	isolate(t)

	out, err := execute(t, "config", "init", "--pattern", "box")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(".raygun", "config.yaml"))

	_, err = os.Stat(filepath.Join(".raygun", "config.yaml"))
	require.NoError(t, err)

	out, err = execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# loaded from")
	assert.Contains(t, out, "pattern: box")
}

func TestConfigInitGlobal(t *testing.T) {
	home := isolate(t)

	_, err := execute(t, "config", "init", "--global")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(home, ".raygun", "config.yaml"))
	assert.NoError(t, err)
}
