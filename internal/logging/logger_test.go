package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesFileAndRing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "raygun.log")
	logger, err := New(Config{Level: "debug", File: path, RingSize: 10})
	require.NoError(t, err)

	logger.Named("experiment").Info("transitioning", zap.String("to", "grind"))
	logger.Debug("detail")
	require.NoError(t, logger.Close())

	lines := logger.Ring.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "INFO experiment transitioning")
	assert.Contains(t, lines[0], `"to": "grind"`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	fileLines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, fileLines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(fileLines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "experiment", entry["logger"])
	assert.Equal(t, "transitioning", entry["message"])
	assert.Equal(t, "grind", entry["to"])
}

func TestLevelFiltersBothOutputs(t *testing.T) {
	logger, err := New(Config{Level: "warn", RingSize: 10})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	lines := logger.Ring.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "shown")
	assert.NoError(t, logger.Close())
}

func TestInvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestEmptyLevelDefaultsToInfo(t *testing.T) {
	level, err := parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, "info", level.String())
}

func TestRingKeepsMostRecent(t *testing.T) {
	r := NewRing(3)
	for _, s := range []string{"a\n", "b\n", "c\nd\n", "e"} {
		_, err := r.Write([]byte(s))
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"c", "d", "e"}, r.Lines())
}

func TestZeroRingDiscards(t *testing.T) {
	r := NewRing(0)
	n, err := r.Write([]byte("x\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, r.Len())
}

func TestNopLogger(t *testing.T) {
	l := NewNop()
	l.Info("nothing")
	assert.Empty(t, l.Ring.Lines())
	assert.NoError(t, l.Close())
}
