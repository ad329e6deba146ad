package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func names(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestScan_FindsMarkdownRecursively(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.md"), "a")
	writeFile(t, filepath.Join(tmpDir, "sub", "b.md"), "b")
	writeFile(t, filepath.Join(tmpDir, "sub", "deep", "c.markdown"), "c")
	writeFile(t, filepath.Join(tmpDir, "ignored.txt"), "nope")

	files, err := New(Options{}).Scan(context.Background(), tmpDir)

	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.md", "c.markdown"}, names(files))
}

func TestScan_LexicalOrder(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "2026-03-01.md"), "c")
	writeFile(t, filepath.Join(tmpDir, "2026-01-01.md"), "a")
	writeFile(t, filepath.Join(tmpDir, "2026-02-01.md"), "b")

	files, err := New(Options{}).Scan(context.Background(), tmpDir)

	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-01.md", "2026-02-01.md", "2026-03-01.md"}, names(files))
}

func TestScan_SkipsHiddenFilesAndDirs(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "visible.md"), "v")
	writeFile(t, filepath.Join(tmpDir, ".hidden.md"), "h")
	writeFile(t, filepath.Join(tmpDir, ".git", "inside.md"), "g")

	files, err := New(Options{}).Scan(context.Background(), tmpDir)

	require.NoError(t, err)
	assert.Equal(t, []string{"visible.md"}, names(files))
}

func TestScan_SkipsExcludedDirs(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "keep.md"), "k")
	writeFile(t, filepath.Join(tmpDir, "search_index.bleve", "stray.md"), "s")

	files, err := New(Options{ExcludeDirs: []string{"search_index.bleve"}}).
		Scan(context.Background(), tmpDir)

	require.NoError(t, err)
	assert.Equal(t, []string{"keep.md"}, names(files))
}

func TestScan_MissingRootFails(t *testing.T) {
	_, err := New(Options{}).Scan(context.Background(), filepath.Join(t.TempDir(), "gone"))
	require.Error(t, err)
}

func TestScan_CancelledContext(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.md"), "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{}).Scan(ctx, tmpDir)
	require.ErrorIs(t, err, context.Canceled)
}
