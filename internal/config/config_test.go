package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	recallerrors "github.com/recallkit/recall/internal/errors"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "sqlite", cfg.Search.Backend)
	assert.Equal(t, 5, cfg.Search.DefaultLimit)
	assert.Equal(t, 15, cfg.Search.SnippetTokens)
	assert.Equal(t, "<mark>", cfg.Search.HighlightOpen)
	assert.Equal(t, "</mark>", cfg.Search.HighlightClose)
	assert.Equal(t, "...", cfg.Search.Ellipsis)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoad_ReadsYAML(t *testing.T) {
	tmpDir := t.TempDir()
	content := "search:\n  backend: bleve\n  default_limit: 20\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(content), 0o644))

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "bleve", cfg.Search.Backend)
	assert.Equal(t, 20, cfg.Search.DefaultLimit)
	// Unset fields fall back to defaults
	assert.Equal(t, "<mark>", cfg.Search.HighlightOpen)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("search: ["), 0o644))

	_, err := Load(tmpDir)

	require.Error(t, err)
	assert.Equal(t, recallerrors.ErrCodeConfigInvalid, recallerrors.GetCode(err))
}

func TestValidate_RejectsUnknownBackend(t *testing.T) {
	cfg := NewConfig()
	cfg.Search.Backend = "postgres"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Equal(t, recallerrors.ErrCodeConfigInvalid, recallerrors.GetCode(err))
}

func TestResolveMemoryDir_OverrideWins(t *testing.T) {
	tmpDir := t.TempDir()

	// Override does not need to exist yet
	missing := filepath.Join(tmpDir, "not-created")
	got, err := ResolveMemoryDir(missing, []string{tmpDir})

	require.NoError(t, err)
	assert.Equal(t, missing, got)
}

func TestResolveMemoryDir_FirstExistingCandidateWins(t *testing.T) {
	tmpDir := t.TempDir()
	first := filepath.Join(tmpDir, "missing")
	second := filepath.Join(tmpDir, "memory")
	require.NoError(t, os.MkdirAll(second, 0o755))

	got, err := ResolveMemoryDir("", []string{first, second})

	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestResolveMemoryDir_FallsBackToWorkingDir(t *testing.T) {
	got, err := ResolveMemoryDir("", []string{filepath.Join(t.TempDir(), "nope")})

	require.NoError(t, err)
	cwd, _ := os.Getwd()
	assert.Equal(t, cwd, got)
}

func TestPathsInsideMemoryRoot(t *testing.T) {
	assert.Equal(t, filepath.Join("/m", "search_index"), IndexBasePath("/m"))
	assert.Equal(t, filepath.Join("/m", ".recall.lock"), LockPath("/m"))
}
