package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "todo.log")

	logger, closer, err := New(Options{Level: "debug", Format: "json", File: p})
	require.NoError(t, err)
	logger.Debug("todo added", "id", "abc")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	line := strings.TrimSpace(string(b))

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "todo added", rec["msg"])
	assert.Equal(t, "abc", rec["id"])
}

func TestLevelFilters(t *testing.T) {
	p := filepath.Join(t.TempDir(), "todo.log")

	logger, closer, err := New(Options{Level: "WARN", Format: "logfmt", File: p})
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hidden")
	assert.Contains(t, string(b), "shown")
}

func TestDiscardByDefault(t *testing.T) {
	logger, closer, err := New(Options{Level: "info"})
	require.NoError(t, err)
	logger.Info("nowhere")
	assert.NoError(t, closer.Close())
}

func TestBadLevel(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}
