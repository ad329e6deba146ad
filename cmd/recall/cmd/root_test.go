package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand executes the CLI with the given args and captured output.
func runCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	memoryDirFlag = ""
	debugMode = false

	rootCmd := NewRootCmd()
	outBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootCmd.SetOut(outBuf)
	rootCmd.SetErr(errBuf)
	rootCmd.SetArgs(args)

	err = rootCmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// seedMemoryDir creates a memory directory with a few dated documents.
func seedMemoryDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	docs := map[string]string{
		"2026-08-01-standup.md":  "# Standup\n\nDiscussed the migration rollout.\n#infra #planning",
		"2026-08-02-decision.md": "Chose sqlite for the persistence layer.\n#infra",
		"scratch.md":             "Loose thoughts without a date.",
	}
	for name, body := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestRootCmd_ShowsHelpByDefault(t *testing.T) {
	// When: running without a subcommand
	stdout, _, err := runCommand(t)

	// Then: help text lists the subcommands
	require.NoError(t, err)
	assert.Contains(t, stdout, "search")
	assert.Contains(t, stdout, "timeline")
	assert.Contains(t, stdout, "get")
	assert.Contains(t, stdout, "index")
}

func TestRootCmd_VersionFlag(t *testing.T) {
	stdout, _, err := runCommand(t, "--version")

	require.NoError(t, err)
	assert.Contains(t, stdout, "recall version")
}

func TestRootCmd_UnknownSubcommandFails(t *testing.T) {
	_, _, err := runCommand(t, "bogus")

	require.Error(t, err)
}
