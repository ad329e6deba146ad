// Package timeline builds a chronological view of the document tree.
//
// The timeline reads the filesystem directly, not the store, so it is
// always current even when the index is stale or absent.
package timeline

import (
	"context"
	"sort"

	"github.com/recallkit/recall/internal/config"
	"github.com/recallkit/recall/internal/extract"
	"github.com/recallkit/recall/internal/scanner"
	"github.com/recallkit/recall/internal/store"
)

// Entry is one document on the timeline.
type Entry struct {
	// File is the base filename.
	File string `json:"file"`
	// Date is the document date from the filename, or "unknown".
	Date string `json:"date"`
	// Path is the full document path.
	Path string `json:"path"`
}

// Options filters a timeline listing.
type Options struct {
	// Date restricts the listing to documents dated exactly YYYY-MM-DD.
	Date string
}

// Builder lists documents in chronological order.
type Builder struct {
	memoryDir string
	scanner   *scanner.Scanner
	extractor extract.Extractor
}

// New creates a Builder over memoryDir.
func New(memoryDir string) *Builder {
	return &Builder{
		memoryDir: memoryDir,
		scanner: scanner.New(scanner.Options{
			ExcludeDirs: store.ArtifactNames(config.IndexBaseName),
		}),
		extractor: extract.NewRegexExtractor(),
	}
}

// List returns every document ordered by date ascending, filename
// breaking ties. Undated documents sort last ("unknown" follows any
// digit-led date). An empty tree yields an empty slice.
func (b *Builder) List(ctx context.Context, opts Options) ([]Entry, error) {
	files, err := b.scanner.Scan(ctx, b.memoryDir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		date := b.extractor.Extract("", f.Name).DateCreated
		if opts.Date != "" && date != opts.Date {
			continue
		}
		entries = append(entries, Entry{
			File: f.Name,
			Date: date,
			Path: f.Path,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].File < entries[j].File
	})
	return entries, nil
}
