// Package indexer rebuilds the full-text store from the document tree.
//
// Rebuild is a total scan-and-replace: the store is cleared, then every
// readable document under the root is extracted and inserted. There is no
// incremental mode. An advisory file lock keeps concurrent rebuilds out,
// but readers are not excluded: a search during a rebuild may observe an
// empty or partially repopulated store. A crash mid-rebuild is recovered
// by simply rerunning the rebuild.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/recallkit/recall/internal/config"
	recallerrors "github.com/recallkit/recall/internal/errors"
	"github.com/recallkit/recall/internal/extract"
	"github.com/recallkit/recall/internal/scanner"
	"github.com/recallkit/recall/internal/store"
)

// Report summarizes one rebuild.
type Report struct {
	// Indexed is the count of successfully indexed files.
	Indexed int
	// Warnings is the count of files skipped due to read or record errors.
	Warnings int
}

// Indexer performs full rebuilds of an FTSIndex.
type Indexer struct {
	memoryDir string
	index     store.FTSIndex
	extractor extract.Extractor
	scanner   *scanner.Scanner
}

// New creates an Indexer over memoryDir writing into index.
// A nil extractor defaults to the regex extractor.
func New(memoryDir string, index store.FTSIndex, extractor extract.Extractor) *Indexer {
	if extractor == nil {
		extractor = extract.NewRegexExtractor()
	}
	return &Indexer{
		memoryDir: memoryDir,
		index:     index,
		extractor: extractor,
		scanner: scanner.New(scanner.Options{
			ExcludeDirs: store.ArtifactNames(config.IndexBaseName),
		}),
	}
}

// Rebuild clears the store and repopulates it from the document tree.
// Per-file read failures are logged and skipped; the rebuild continues
// and reports them as warnings. Store-level failures abort.
func (ix *Indexer) Rebuild(ctx context.Context) (*Report, error) {
	lock := NewFileLock(config.LockPath(ix.memoryDir))
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("rebuild lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("another rebuild is already running (lock held: %s)", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	files, err := ix.scanner.Scan(ctx, ix.memoryDir)
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}

	if err := ix.index.ClearAll(ctx); err != nil {
		return nil, fmt.Errorf("clear index: %w", err)
	}

	report := &Report{}
	for _, f := range files {
		rec, err := ix.loadRecord(f)
		if err != nil {
			logSkip(f.Path, err)
			report.Warnings++
			continue
		}

		if err := ix.index.Insert(ctx, rec); err != nil {
			if recallerrors.GetCode(err) == recallerrors.ErrCodeRecordInvalid {
				logSkip(f.Path, err)
				report.Warnings++
				continue
			}
			return nil, fmt.Errorf("insert %s: %w", f.Path, err)
		}
		report.Indexed++
	}

	slog.Info("rebuild_complete",
		slog.String("root", ix.memoryDir),
		slog.Int("indexed", report.Indexed),
		slog.Int("warnings", report.Warnings))

	return report, nil
}

// logSkip records one skipped document with its error classification.
func logSkip(path string, err error) {
	slog.Warn("document_skipped",
		slog.String("path", path),
		slog.String("category", string(recallerrors.GetCategory(err))),
		slog.String("error", err.Error()))
}

// loadRecord reads one document and derives its indexed record.
func (ix *Indexer) loadRecord(f scanner.FileInfo) (*store.Record, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, recallerrors.FileRead(f.Path, err)
	}
	if !utf8.Valid(data) {
		return nil, recallerrors.NotUTF8(f.Path)
	}

	content := string(data)
	md := ix.extractor.Extract(content, f.Name)

	return &store.Record{
		Path:        f.Path,
		Content:     content,
		DateCreated: md.DateCreated,
		Tags:        md.Tags,
		Summary:     md.Summary,
	}, nil
}
