// Package content serves raw document bodies by filename.
//
// Lookups are by full path (what search results carry), root-relative
// path, or base filename, against the live filesystem, so results never
// go stale with the index. A small LRU cache
// keyed by path avoids rereading large documents across calls; entries
// are validated against modification time before reuse.
package content

import (
	"context"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/recallkit/recall/internal/config"
	recallerrors "github.com/recallkit/recall/internal/errors"
	"github.com/recallkit/recall/internal/scanner"
	"github.com/recallkit/recall/internal/store"
)

// cacheSize bounds the number of cached document bodies.
const cacheSize = 128

type cacheEntry struct {
	content string
	modTime time.Time
}

// Result is the outcome of one fetch: resolved bodies keyed by the
// requested name, plus per-name failures. A failed name never suppresses
// the other results.
type Result struct {
	Content  map[string]string
	Failures map[string]error
}

// Fetcher resolves document names to raw content.
type Fetcher struct {
	memoryDir string
	scanner   *scanner.Scanner
	cache     *lru.Cache[string, cacheEntry]
}

// New creates a Fetcher over memoryDir.
func New(memoryDir string) (*Fetcher, error) {
	cache, err := lru.New[string, cacheEntry](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Fetcher{
		memoryDir: memoryDir,
		scanner: scanner.New(scanner.Options{
			ExcludeDirs: store.ArtifactNames(config.IndexBaseName),
		}),
		cache: cache,
	}, nil
}

// Fetch returns the raw content of each named document. Names match on
// full path, path relative to the root, or base filename; when two
// documents in different subdirectories share a basename, the lexically
// first wins.
func (f *Fetcher) Fetch(ctx context.Context, names []string) (*Result, error) {
	files, err := f.scanner.Scan(ctx, f.memoryDir)
	if err != nil {
		return nil, err
	}

	// Scan order is lexical, so first registration wins on collisions.
	// Each document is reachable by its full path (what search results
	// carry), its root-relative path, and its basename.
	byName := make(map[string]string, len(files))
	for _, fi := range files {
		byName[fi.Path] = fi.Path
		if _, seen := byName[fi.Name]; !seen {
			byName[fi.Name] = fi.Path
		}
		if rel, err := filepath.Rel(f.memoryDir, fi.Path); err == nil {
			if _, seen := byName[rel]; !seen {
				byName[rel] = fi.Path
			}
		}
	}

	result := &Result{
		Content:  make(map[string]string, len(names)),
		Failures: make(map[string]error),
	}
	for _, name := range names {
		path, ok := byName[name]
		if !ok {
			result.Failures[name] = recallerrors.NotFound(name, nil)
			continue
		}
		body, err := f.read(path)
		if err != nil {
			result.Failures[name] = err
			continue
		}
		result.Content[name] = body
	}
	return result, nil
}

// read returns a document body, from cache when still fresh.
func (f *Fetcher) read(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", recallerrors.NotFound(path, err)
	}

	if entry, ok := f.cache.Get(path); ok && entry.modTime.Equal(info.ModTime()) {
		return entry.content, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", recallerrors.FileRead(path, err)
	}
	if !utf8.Valid(data) {
		return "", recallerrors.NotUTF8(path)
	}

	body := string(data)
	f.cache.Add(path, cacheEntry{content: body, modTime: info.ModTime()})
	return body, nil
}
