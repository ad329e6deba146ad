// Package extract derives structured metadata from raw memory documents.
//
// Memory files are free-form markdown: optional heading lines, prose, and
// hashtag-style tags anywhere in the body. The filename may carry a
// YYYY-MM-DD date token. Extraction is heuristic by design; stricter
// parsers (front-matter aware, etc.) can be plugged in via Extractor.
package extract

import (
	"regexp"
	"strings"
)

// UnknownDate is the sentinel for filenames without a date token.
const UnknownDate = "unknown"

// SummaryMaxLen is the maximum summary length in runes.
const SummaryMaxLen = 200

var (
	// datePattern matches the first year-month-day shaped token. The date
	// is not validated calendrically; any digit run in this shape counts.
	datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

	// tagPattern matches hashtag tokens: '#' followed by word characters.
	tagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
)

// Metadata is the derived description of one document.
type Metadata struct {
	// DateCreated is "YYYY-MM-DD" from the filename, or UnknownDate.
	DateCreated string

	// Tags is the space-joined set of hashtag tokens found in the content,
	// deduplicated, in first-occurrence order.
	Tags string

	// Summary is the first non-heading line of the content, truncated to
	// SummaryMaxLen runes.
	Summary string
}

// Extractor derives metadata from raw document content and its filename.
// Implementations must be deterministic for identical input.
type Extractor interface {
	Extract(content, filename string) Metadata
}

// RegexExtractor is the default regex-based Extractor.
type RegexExtractor struct{}

// NewRegexExtractor creates the default extractor.
func NewRegexExtractor() *RegexExtractor {
	return &RegexExtractor{}
}

// Extract implements Extractor.
func (e *RegexExtractor) Extract(content, filename string) Metadata {
	return Metadata{
		DateCreated: extractDate(filename),
		Tags:        extractTags(content),
		Summary:     extractSummary(content),
	}
}

// extractDate scans the filename for the first YYYY-MM-DD token.
func extractDate(filename string) string {
	if m := datePattern.FindString(filename); m != "" {
		return m
	}
	return UnknownDate
}

// extractTags collects hashtag tokens from the entire content,
// deduplicated in first-occurrence order and joined with single spaces.
func extractTags(content string) string {
	matches := tagPattern.FindAllString(content, -1)
	if len(matches) == 0 {
		return ""
	}

	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		tags = append(tags, m)
	}
	return strings.Join(tags, " ")
}

// extractSummary returns the first line that is non-empty after trimming
// and does not start with a heading marker, truncated to SummaryMaxLen.
// A document with no such line (headings only, or empty) falls back to
// the first SummaryMaxLen runes of the raw content.
func extractSummary(content string) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return truncateRunes(trimmed, SummaryMaxLen)
	}
	return truncateRunes(content, SummaryMaxLen)
}

// truncateRunes clips s to at most max runes.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
