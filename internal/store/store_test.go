package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raygun/raygun-tui/internal/model"
)

func sampleSession() model.Session {
	return model.Session{
		CurrentState: model.StateReflection,
		GrindTask:    "tax return",
		FrameChoice:  string(model.FrameFailing),
		Constraint:   "ten minutes",
		Experiment:   "fill in one box",
		Branch:       string(model.BranchCurious),
		Timestamp:    time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC),
	}
}

func openAll(t *testing.T) map[Backend]Store {
	t.Helper()
	stores := make(map[Backend]Store)
	for _, b := range []Backend{BackendFile, BackendSQLite, BackendMemory} {
		s, err := Open(b, t.TempDir())
		require.NoError(t, err, b)
		t.Cleanup(func() { s.Close() })
		stores[b] = s
	}
	return stores
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for backend, s := range openAll(t) {
		t.Run(string(backend), func(t *testing.T) {
			_, found, err := s.Load(ctx)
			require.NoError(t, err)
			assert.False(t, found, "empty store has no session")

			want := sampleSession()
			require.NoError(t, s.Save(ctx, want))

			got, found, err := s.Load(ctx)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, want.CurrentState, got.CurrentState)
			assert.Equal(t, want.GrindTask, got.GrindTask)
			assert.Equal(t, want.Experiment, got.Experiment)
			assert.True(t, want.Timestamp.Equal(got.Timestamp))

			want.CurrentState = model.StateCelebration
			want.Reflection = string(model.ReflectionYes)
			require.NoError(t, s.Save(ctx, want))
			got, _, err = s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, model.StateCelebration, got.CurrentState)
			assert.Equal(t, "yes", got.Reflection)

			require.NoError(t, s.Clear(ctx))
			_, found, err = s.Load(ctx)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, s.Clear(ctx), "clearing twice is fine")
		})
	}
}

func TestFileStoreCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0644))

	_, found, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.False(t, found)
}

func TestMemoryStoreCorruptRecord(t *testing.T) {
	s := NewMemoryStore()
	s.SetRaw([]byte(`{"currentState": 7}`))

	_, found, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.False(t, found)
}

func TestFileStoreWritesNamespacedKey(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	require.NoError(t, s.Save(context.Background(), sampleSession()))

	data, err := os.ReadFile(filepath.Join(dir, "raygun_experiment.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"currentState":"reflection"`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestFileStoreUnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	s := NewFileStore(filepath.Join(blocker, "nested"))
	assert.Error(t, s.Save(context.Background(), sampleSession()))
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := SQLitePath(t.TempDir())

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, sampleSession()))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, found, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "tax return", got.GrindTask)
}

func TestMemoryStoreRaw(t *testing.T) {
	s := NewMemoryStore()
	assert.Empty(t, s.Raw())

	s.SetRaw([]byte(`{"currentState":"gap","timestamp":"2026-01-01T00:00:00Z"}`))
	got, found, err := s.Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, model.StateGap, got.CurrentState)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(Backend("redis"), t.TempDir())
	assert.Error(t, err)
	assert.False(t, Backend("redis").Valid())
	assert.True(t, BackendSQLite.Valid())
}
