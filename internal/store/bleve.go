package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"

	recallerrors "github.com/recallkit/recall/internal/errors"
)

// MemoryAnalyzerName is the analyzer used for all record fields:
// unicode tokenization and lowercasing, no stemming, no stop words.
const MemoryAnalyzerName = "memory_text"

// BleveIndex implements FTSIndex using Bleve v2. Unlike the SQLite
// backend it holds an exclusive BoltDB file lock, so it is single-process.
type BleveIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	path   string
	cfg    Config
	closed bool
}

var _ FTSIndex = (*BleveIndex)(nil)

// bleveRecord is the document shape handed to Bleve.
type bleveRecord struct {
	Path        string `json:"path"`
	Content     string `json:"content"`
	DateCreated string `json:"date_created"`
	Tags        string `json:"tags"`
	Summary     string `json:"summary"`
}

// validateBleveIntegrity checks a Bleve index directory before opening.
// Returns nil if the directory is absent (it will be created) or healthy.
func validateBleveIntegrity(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	metaPath := filepath.Join(path, "index_meta.json")
	info, err := os.Stat(metaPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("index_meta.json missing (corrupted index)")
	}
	if err != nil {
		return fmt.Errorf("cannot stat index_meta.json: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("index_meta.json is empty (corrupted)")
	}

	data, err := os.ReadFile(metaPath)
	if err != nil {
		return fmt.Errorf("cannot read index_meta.json: %w", err)
	}
	var meta map[string]interface{}
	if err := json.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("index_meta.json is corrupt: %w", err)
	}

	return nil
}

// isBleveCorruptionError checks if an error indicates index corruption.
func isBleveCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "unexpected end of JSON") ||
		strings.Contains(errStr, "error parsing mapping JSON") ||
		strings.Contains(errStr, "failed to load segment") ||
		strings.Contains(errStr, "error opening bolt") ||
		err == bleve.ErrorIndexMetaCorrupt
}

// NewBleveIndex opens or creates a Bleve index at path. If path is empty
// an in-memory index is created (for tests). A corrupted index directory
// is removed and recreated empty, with a logged hint to reindex.
func NewBleveIndex(path string, cfg Config) (*BleveIndex, error) {
	indexMapping, err := createIndexMapping()
	if err != nil {
		return nil, recallerrors.StoreInit("failed to create index mapping", err)
	}

	var idx bleve.Index
	if path == "" {
		idx, err = bleve.NewMemOnly(indexMapping)
	} else {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, recallerrors.StoreInit(fmt.Sprintf("failed to create directory %s", dir), err)
		}

		if validErr := validateBleveIntegrity(path); validErr != nil {
			slog.Warn("fts_index_corrupted",
				slog.String("path", path),
				slog.String("error", validErr.Error()))

			if removeErr := os.RemoveAll(path); removeErr != nil {
				return nil, recallerrors.StoreInit(
					fmt.Sprintf("index corrupted at %s and cannot remove (original error: %v)", path, validErr), removeErr)
			}
			slog.Info("fts_index_cleared",
				slog.String("path", path),
				slog.String("reason", "corruption detected, please reindex"))
		}

		idx, err = bleve.Open(path)
		if err == bleve.ErrorIndexPathDoesNotExist {
			idx, err = bleve.New(path, indexMapping)
		} else if err != nil && isBleveCorruptionError(err) {
			slog.Warn("fts_index_open_failed",
				slog.String("path", path),
				slog.String("error", err.Error()))

			if removeErr := os.RemoveAll(path); removeErr != nil {
				return nil, recallerrors.StoreInit("index corrupted, cannot clear", removeErr)
			}
			idx, err = bleve.New(path, indexMapping)
		}
	}
	if err != nil {
		return nil, recallerrors.StoreInit("failed to create/open index", err)
	}

	return &BleveIndex{index: idx, path: path, cfg: cfg}, nil
}

// createIndexMapping builds the index mapping with the memory analyzer.
func createIndexMapping() (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(MemoryAnalyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": unicode.Name,
		"token_filters": []string{
			lowercase.Name,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add custom analyzer: %w", err)
	}

	indexMapping.DefaultAnalyzer = MemoryAnalyzerName
	return indexMapping, nil
}

// ClearAll removes every indexed record.
func (b *BleveIndex) ClearAll(ctx context.Context) error {
	paths, err := b.AllPaths()
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	if len(paths) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("index is closed")
	}

	batch := b.index.NewBatch()
	for _, p := range paths {
		batch.Delete(p)
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}
	return nil
}

// Insert adds one record, replacing any previous record with the same path.
func (b *BleveIndex) Insert(ctx context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("index is closed")
	}

	doc := bleveRecord{
		Path:        rec.Path,
		Content:     rec.Content,
		DateCreated: rec.DateCreated,
		Tags:        rec.Tags,
		Summary:     rec.Summary,
	}
	if err := b.index.Index(rec.Path, doc); err != nil {
		return fmt.Errorf("failed to index record %s: %w", rec.Path, err)
	}
	return nil
}

// Query returns up to limit records ranked by relevance, each with a
// highlighted snippet of the content field built from match locations.
func (b *BleveIndex) Query(ctx context.Context, text string, limit int) ([]*SearchHit, error) {
	tokens, err := validateQuery(text)
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("index is closed")
	}

	// Conjunction over tokens, disjunction over fields per token: every
	// query token must appear somewhere in the record, but different
	// tokens may match different fields, mirroring FTS5 implicit AND
	// across columns. Per-field match queries (rather than one against
	// the composite _all field) keep location byte offsets relative to
	// the real fields, which snippet building needs.
	tokenQueries := make([]query.Query, 0, len(tokens))
	for _, token := range tokens {
		fieldQueries := make([]query.Query, 0, 5)
		for _, field := range []string{"content", "tags", "summary", "date_created", "path"} {
			mq := bleve.NewMatchQuery(token)
			mq.SetField(field)
			fieldQueries = append(fieldQueries, mq)
		}
		tokenQueries = append(tokenQueries, bleve.NewDisjunctionQuery(fieldQueries...))
	}

	req := bleve.NewSearchRequest(bleve.NewConjunctionQuery(tokenQueries...))
	req.Size = limit
	req.Fields = []string{"path", "content", "date_created", "tags", "summary"}
	req.IncludeLocations = true
	// Document ID is the path, so _id breaks score ties deterministically
	req.SortBy([]string{"-_score", "_id"})

	result, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]*SearchHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		rec := recordFromFields(hit)
		spans, terms := contentMatches(hit)
		hits = append(hits, &SearchHit{
			Record:  rec,
			Snippet: buildSnippet(rec.Content, spans, terms, b.cfg),
			Score:   hit.Score,
		})
	}
	return hits, nil
}

// recordFromFields rebuilds a Record from a hit's stored fields.
func recordFromFields(hit *search.DocumentMatch) Record {
	field := func(name string) string {
		if v, ok := hit.Fields[name].(string); ok {
			return v
		}
		return ""
	}
	return Record{
		Path:        hit.ID,
		Content:     field("content"),
		DateCreated: field("date_created"),
		Tags:        field("tags"),
		Summary:     field("summary"),
	}
}

// contentMatches extracts match spans in the content field plus the full
// set of matched terms (any field) for snippet fallback.
func contentMatches(hit *search.DocumentMatch) ([]matchSpan, []string) {
	var spans []matchSpan
	termSet := make(map[string]struct{})
	for field, locations := range hit.Locations {
		for term, locs := range locations {
			termSet[term] = struct{}{}
			if field != "content" {
				continue
			}
			for _, loc := range locs {
				spans = append(spans, matchSpan{start: int(loc.Start), end: int(loc.End)})
			}
		}
	}

	terms := make([]string, 0, len(termSet))
	for term := range termSet {
		terms = append(terms, term)
	}
	return spans, terms
}

// DocCount returns the number of indexed records.
func (b *BleveIndex) DocCount() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0, fmt.Errorf("index is closed")
	}

	count, err := b.index.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return int(count), nil
}

// AllPaths returns every indexed path in ascending order.
func (b *BleveIndex) AllPaths() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("index is closed")
	}

	docCount, _ := b.index.DocCount()
	if docCount == 0 {
		return nil, nil
	}

	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Size = int(docCount)
	req.SortBy([]string{"_id"})

	result, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search for all paths: %w", err)
	}

	paths := make([]string, len(result.Hits))
	for i, hit := range result.Hits {
		paths[i] = hit.ID
	}
	return paths, nil
}

// Close closes the index. Idempotent.
func (b *BleveIndex) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	if b.index != nil {
		return b.index.Close()
	}
	return nil
}
