// Package store persists memory documents in a full-text-searchable index.
//
// Two backends are available behind the factory in factory.go: SQLite FTS5
// (default) and Bleve. Both share the same matching semantics: matching is
// token-based, tokens are runs of unicode letters, digits and underscore,
// lowercased, with no stemming and no stop words. Multiple query tokens
// must all match (AND). Results are ranked by BM25 relevance; ties are
// broken by ascending path so result order is reproducible.
package store

import (
	"context"
	"strings"
	"unicode"

	recallerrors "github.com/recallkit/recall/internal/errors"
)

// Record is the indexed representation of one memory document.
// Records are created wholesale on each rebuild and replaced on the next;
// there are no partial updates.
type Record struct {
	// Path is the document's filesystem path, the unique key.
	Path string `json:"path"`
	// Content is the verbatim document text, used for matching and snippets.
	Content string `json:"content"`
	// DateCreated is "YYYY-MM-DD" derived from the filename, or "unknown".
	DateCreated string `json:"date_created"`
	// Tags is the space-joined hashtag set found in the content.
	Tags string `json:"tags"`
	// Summary is the derived document summary (at most 200 runes).
	Summary string `json:"summary"`
}

// Validate checks that required fields are present. Content may be
// empty: an empty but readable document still gets its one record.
func (r *Record) Validate() error {
	if r == nil {
		return recallerrors.RecordInvalid("record is nil")
	}
	if r.Path == "" {
		return recallerrors.RecordInvalid("record path is required")
	}
	return nil
}

// SearchHit is one ranked query result.
type SearchHit struct {
	Record

	// Snippet is a bounded excerpt of the content with matched terms
	// wrapped in the configured highlight markers.
	Snippet string `json:"snippet"`

	// Score is the BM25 relevance score; higher is better.
	Score float64 `json:"score"`
}

// FTSIndex is the persistent full-text store.
//
// Opening an index (via the factory) is idempotent: the on-disk artifact
// and its schema are created if absent and left untouched if present.
type FTSIndex interface {
	// ClearAll removes every indexed record.
	ClearAll(ctx context.Context) error

	// Insert adds one record. Inserting the same path again replaces the
	// previous record rather than failing.
	Insert(ctx context.Context, rec *Record) error

	// Query returns up to limit records ranked by relevance to text,
	// each with a highlighted snippet. Empty or tokenless query text
	// fails with a query error instead of returning all records.
	Query(ctx context.Context, text string, limit int) ([]*SearchHit, error)

	// DocCount returns the number of indexed records.
	DocCount() (int, error)

	// AllPaths returns every indexed path in ascending order.
	AllPaths() ([]string, error)

	// Close releases the store. Idempotent.
	Close() error
}

// Config shapes snippet generation.
type Config struct {
	// SnippetTokens is the approximate token budget of a snippet window.
	SnippetTokens int
	// HighlightOpen and HighlightClose wrap each matched term occurrence.
	HighlightOpen  string
	HighlightClose string
	// Ellipsis joins non-adjacent snippet windows and marks clipped edges.
	Ellipsis string
}

// DefaultConfig mirrors the defaults in the config package.
func DefaultConfig() Config {
	return Config{
		SnippetTokens:  15,
		HighlightOpen:  "<mark>",
		HighlightClose: "</mark>",
		Ellipsis:       "...",
	}
}

// isTokenRune reports whether r belongs to a token.
func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Tokenize splits text into lowercased search tokens. This is the single
// tokenization rule for both backends: no stemming, no stop words.
func Tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	for _, r := range text {
		if isTokenRune(r) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

// validateQuery applies the shared empty/malformed query policy and
// returns the query tokens.
func validateQuery(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, recallerrors.QueryEmpty()
	}
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil, recallerrors.QueryInvalid("query has no searchable terms: " + text)
	}
	return tokens, nil
}
