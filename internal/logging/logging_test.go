package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("anything-else"))
}

func TestRotatingWriter_WritesToFile(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "recall.log")

	w, err := NewRotatingWriter(logPath, 10, 3)
	require.NoError(t, err)

	_, err = w.Write([]byte("hello log\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello log")
}

func TestRotatingWriter_RotatesWhenFull(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "recall.log")

	w, err := NewRotatingWriter(logPath, 1, 2)
	require.NoError(t, err)
	// Force the threshold low so a second write triggers rotation
	w.maxSize = 16

	_, err = w.Write([]byte(strings.Repeat("a", 12)))
	require.NoError(t, err)
	_, err = w.Write([]byte(strings.Repeat("b", 12)))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rotated, err := os.ReadFile(logPath + ".1")
	require.NoError(t, err)
	assert.Contains(t, string(rotated), "aaa")

	current, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(current), "bbb")
}

func TestRotatingWriter_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "nested", "logs", "recall.log")

	w, err := NewRotatingWriter(logPath, 10, 3)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = os.Stat(filepath.Dir(logPath))
	assert.NoError(t, err)
}
