// Package search shapes ranked store hits into presentable results.
package search

import (
	"context"
	"path/filepath"

	"github.com/recallkit/recall/internal/store"
)

// Result is one ranked search hit, shaped for display.
type Result struct {
	// File is the base filename of the matched document.
	File string `json:"file"`
	// Date is the document date, or "unknown".
	Date string `json:"date"`
	// Tags is the space-joined hashtag set, empty when the document has none.
	Tags string `json:"tags,omitempty"`
	// Snippet is the highlighted content excerpt.
	Snippet string `json:"snippet"`
	// Path is the full document path.
	Path string `json:"path"`
	// Score is the relevance score, higher is better.
	Score float64 `json:"score"`
}

// Engine runs ranked queries against a full-text store.
type Engine struct {
	index        store.FTSIndex
	defaultLimit int
}

// NewEngine creates an Engine. defaultLimit applies when a caller passes
// a non-positive limit.
func NewEngine(index store.FTSIndex, defaultLimit int) *Engine {
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	return &Engine{index: index, defaultLimit: defaultLimit}
}

// Search returns up to limit results ranked by relevance. Multiple query
// tokens must all match. An empty or tokenless query is an error.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = e.defaultLimit
	}

	hits, err := e.index.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		results = append(results, Result{
			File:    filepath.Base(hit.Path),
			Date:    hit.DateCreated,
			Tags:    hit.Tags,
			Snippet: hit.Snippet,
			Path:    hit.Path,
			Score:   hit.Score,
		})
	}
	return results, nil
}
