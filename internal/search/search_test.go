package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	recallerrors "github.com/recallkit/recall/internal/errors"
	"github.com/recallkit/recall/internal/store"
)

func seededEngine(t *testing.T, defaultLimit int) *Engine {
	t.Helper()
	idx, err := store.Open("", store.DefaultConfig(), "sqlite")
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	ctx := context.Background()
	docs := []*store.Record{
		{Path: "/m/2026-01-05-design.md", Content: "decided on the lattice design #arch", DateCreated: "2026-01-05", Tags: "#arch", Summary: "decided on the lattice design"},
		{Path: "/m/2026-01-06-review.md", Content: "design review follow ups", DateCreated: "2026-01-06", Summary: "design review follow ups"},
		{Path: "/m/2026-01-07-misc.md", Content: "unrelated errand list", DateCreated: "2026-01-07", Summary: "unrelated errand list"},
	}
	for _, d := range docs {
		require.NoError(t, idx.Insert(ctx, d))
	}
	return NewEngine(idx, defaultLimit)
}

func TestSearch_ShapesResults(t *testing.T) {
	e := seededEngine(t, 5)

	results, err := e.Search(context.Background(), "lattice", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "2026-01-05-design.md", r.File)
	assert.Equal(t, "2026-01-05", r.Date)
	assert.Equal(t, "#arch", r.Tags)
	assert.Equal(t, "/m/2026-01-05-design.md", r.Path)
	assert.Contains(t, r.Snippet, "<mark>lattice</mark>")
	assert.Greater(t, r.Score, 0.0)
}

func TestSearch_DefaultLimitApplies(t *testing.T) {
	e := seededEngine(t, 1)

	results, err := e.Search(context.Background(), "design", 0)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_ExplicitLimitOverridesDefault(t *testing.T) {
	e := seededEngine(t, 1)

	results, err := e.Search(context.Background(), "design", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_NoMatchesIsEmptyNotError(t *testing.T) {
	e := seededEngine(t, 5)

	results, err := e.Search(context.Background(), "zeppelin", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_EmptyQueryFails(t *testing.T) {
	e := seededEngine(t, 5)

	_, err := e.Search(context.Background(), "  ", 0)
	require.Error(t, err)
	assert.True(t, recallerrors.IsQueryError(err))
}
