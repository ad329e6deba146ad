package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexCmd_BuildsIndex(t *testing.T) {
	// Given: a memory directory with documents
	dir := seedMemoryDir(t)

	// When: rebuilding the index
	stdout, _, err := runCommand(t, "index", "--memory-dir", dir)

	// Then: all documents are reported indexed and the artifact exists
	require.NoError(t, err)
	assert.Contains(t, stdout, "Indexed 3 memory files")
	assert.FileExists(t, filepath.Join(dir, "search_index.db"))
}

func TestIndexCmd_ReportsSkippedFiles(t *testing.T) {
	// Given: a directory containing one unreadable document
	dir := seedMemoryDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "binary.md"), []byte{0xff, 0xfe, 0x00}, 0o644))

	// When: rebuilding the index
	stdout, stderr, err := runCommand(t, "index", "--memory-dir", dir)

	// Then: readable documents indexed, the bad one warned about
	require.NoError(t, err)
	assert.Contains(t, stdout, "Indexed 3 memory files")
	assert.Contains(t, stderr, "Skipped 1")
}

func TestIndexCmd_JSONReport(t *testing.T) {
	dir := seedMemoryDir(t)

	stdout, _, err := runCommand(t, "index", "--memory-dir", dir, "--json")

	require.NoError(t, err)
	var report map[string]int
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 3, report["indexed"])
	assert.Equal(t, 0, report["warnings"])
}

func TestIndexCmd_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := runCommand(t, "index", "--memory-dir", dir)

	require.NoError(t, err)
	assert.Contains(t, stdout, "Indexed 0 memory files")
}

func TestIndexCmd_BleveBackendFromConfig(t *testing.T) {
	// Given: a config selecting the bleve backend
	dir := seedMemoryDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".recall.yaml"),
		[]byte("search:\n  backend: bleve\n"), 0o644))

	// When: rebuilding the index
	_, _, err := runCommand(t, "index", "--memory-dir", dir)

	// Then: the bleve artifact exists instead of the sqlite one
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(dir, "search_index.bleve"))
	assert.NoFileExists(t, filepath.Join(dir, "search_index.db"))
}
