package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDate_FromFilename(t *testing.T) {
	e := NewRegexExtractor()

	md := e.Extract("some content", "2026-02-01-notes.md")
	assert.Equal(t, "2026-02-01", md.DateCreated)
}

func TestExtractDate_NoPatternYieldsUnknown(t *testing.T) {
	e := NewRegexExtractor()

	md := e.Extract("some content", "notes.md")
	assert.Equal(t, UnknownDate, md.DateCreated)
}

func TestExtractDate_FirstMatchWins(t *testing.T) {
	e := NewRegexExtractor()

	md := e.Extract("", "2026-01-02-copy-of-2025-12-31.md")
	assert.Equal(t, "2026-01-02", md.DateCreated)
}

func TestExtractDate_ShapeOnlyNoCalendarValidation(t *testing.T) {
	e := NewRegexExtractor()

	// 99th month is accepted; only the digit shape matters
	md := e.Extract("", "9999-99-99.md")
	assert.Equal(t, "9999-99-99", md.DateCreated)
}

func TestExtractTags_FromAnywhereInContent(t *testing.T) {
	e := NewRegexExtractor()

	md := e.Extract("Decided to use #memory and #tools today", "x.md")
	assert.Equal(t, "#memory #tools", md.Tags)
}

func TestExtractTags_DeduplicatesFirstOccurrenceOrder(t *testing.T) {
	e := NewRegexExtractor()

	md := e.Extract("#b then #a then #b again and #a", "x.md")
	assert.Equal(t, "#b #a", md.Tags)
}

func TestExtractTags_NoSpuriousTokens(t *testing.T) {
	e := NewRegexExtractor()

	// '#' followed by space or punctuation is not a tag
	md := e.Extract("issue # 12 and C# but #real_tag9", "x.md")
	assert.Equal(t, "#real_tag9", md.Tags)
}

func TestExtractTags_EmptyContent(t *testing.T) {
	e := NewRegexExtractor()

	md := e.Extract("", "x.md")
	assert.Equal(t, "", md.Tags)
}

func TestExtractSummary_FirstNonHeadingLine(t *testing.T) {
	e := NewRegexExtractor()

	content := "# Title\n\n## Subtitle\nThe actual first paragraph.\nSecond line."
	md := e.Extract(content, "x.md")
	assert.Equal(t, "The actual first paragraph.", md.Summary)
}

func TestExtractSummary_TruncatesTo200Runes(t *testing.T) {
	e := NewRegexExtractor()

	long := strings.Repeat("x", 250)
	md := e.Extract("# Title\n"+long, "x.md")

	assert.Len(t, md.Summary, 200)
	assert.Equal(t, long[:200], md.Summary)
}

func TestExtractSummary_HeadingsOnlyFallsBackToRawPrefix(t *testing.T) {
	e := NewRegexExtractor()

	content := "# one\n## two\n### three"
	md := e.Extract(content, "x.md")
	assert.Equal(t, content, md.Summary)
}

func TestExtractSummary_TrimsLeadingWhitespace(t *testing.T) {
	e := NewRegexExtractor()

	md := e.Extract("# Title\n   indented prose line\n", "x.md")
	assert.Equal(t, "indented prose line", md.Summary)
}

func TestExtract_Deterministic(t *testing.T) {
	e := NewRegexExtractor()
	content := "# H\nBody with #tags and #more\n"

	first := e.Extract(content, "2026-03-04.md")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Extract(content, "2026-03-04.md"))
	}
}
