package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineCmd_ChronologicalListing(t *testing.T) {
	// Given: a memory directory with dated and undated documents
	dir := seedMemoryDir(t)

	// When: listing the timeline
	stdout, _, err := runCommand(t, "timeline", "--memory-dir", dir)

	// Then: entries appear oldest first, undated last
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "2026-08-01 - 2026-08-01-standup.md", lines[0])
	assert.Equal(t, "2026-08-02 - 2026-08-02-decision.md", lines[1])
	assert.Equal(t, "unknown - scratch.md", lines[2])
}

func TestTimelineCmd_LimitKeepsMostRecent(t *testing.T) {
	// Given: more documents than the limit
	dir := t.TempDir()
	for i := 1; i <= 12; i++ {
		name := fmt.Sprintf("2026-07-%02d-entry.md", i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("entry"), 0o644))
	}

	// When: listing with the default limit
	stdout, _, err := runCommand(t, "timeline", "--memory-dir", dir)

	// Then: only the 10 most recent entries remain, still ascending
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 10)
	assert.True(t, strings.HasPrefix(lines[0], "2026-07-03"))
	assert.True(t, strings.HasPrefix(lines[9], "2026-07-12"))
}

func TestTimelineCmd_DateFilter(t *testing.T) {
	dir := seedMemoryDir(t)

	stdout, _, err := runCommand(t, "timeline", "--memory-dir", dir, "--date", "2026-08-02")

	require.NoError(t, err)
	assert.Contains(t, stdout, "2026-08-02-decision.md")
	assert.NotContains(t, stdout, "standup")
	assert.NotContains(t, stdout, "scratch")
}

func TestTimelineCmd_JSONOutput(t *testing.T) {
	dir := seedMemoryDir(t)

	stdout, _, err := runCommand(t, "timeline", "--memory-dir", dir, "--json")
	require.NoError(t, err)

	var entries []map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "2026-08-01-standup.md", entries[0]["file"])
	assert.Equal(t, "unknown", entries[2]["date"])
}

func TestTimelineCmd_EmptyDirectory(t *testing.T) {
	stdout, _, err := runCommand(t, "timeline", "--memory-dir", t.TempDir())

	require.NoError(t, err)
	assert.Contains(t, stdout, "No memory files found")
}
