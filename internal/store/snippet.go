package store

import (
	"sort"
	"strings"
)

// maxSnippetWindows bounds how many non-adjacent match regions one
// snippet may contain before the rest of the matches are dropped.
const maxSnippetWindows = 3

// matchSpan is a byte range of a matched term inside the content.
type matchSpan struct {
	start int
	end   int
}

// tokenSpan is one content token with its byte range.
type tokenSpan struct {
	start int
	end   int
	lower string
}

// tokenizeOffsets splits content into tokens with byte offsets, using the
// same token rule as Tokenize.
func tokenizeOffsets(content string) []tokenSpan {
	var spans []tokenSpan
	start := -1
	for i, r := range content {
		if isTokenRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			spans = append(spans, tokenSpan{start: start, end: i, lower: strings.ToLower(content[start:i])})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, tokenSpan{start: start, end: len(content), lower: strings.ToLower(content[start:])})
	}
	return spans
}

// findTermSpans locates whole-token occurrences of the given terms.
func findTermSpans(tokens []tokenSpan, terms []string) []matchSpan {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[strings.ToLower(t)] = struct{}{}
	}

	var spans []matchSpan
	for _, tok := range tokens {
		if _, ok := set[tok.lower]; ok {
			spans = append(spans, matchSpan{start: tok.start, end: tok.end})
		}
	}
	return spans
}

// buildSnippet produces a bounded excerpt of content with each matched
// term occurrence wrapped in the configured markers. Windows of roughly
// cfg.SnippetTokens tokens are placed around the first matches; clipped
// edges and gaps between windows are marked with cfg.Ellipsis.
//
// spans may be nil, in which case occurrences of terms are located by
// whole-token scan. With no match in the content at all (e.g. the query
// matched another field), the leading window of the content is returned
// unhighlighted.
func buildSnippet(content string, spans []matchSpan, terms []string, cfg Config) string {
	if cfg.SnippetTokens <= 0 {
		cfg.SnippetTokens = DefaultConfig().SnippetTokens
	}

	tokens := tokenizeOffsets(content)
	if len(tokens) == 0 {
		return ""
	}

	if len(spans) == 0 {
		spans = findTermSpans(tokens, terms)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	windows := matchWindows(tokens, spans, cfg.SnippetTokens)

	var b strings.Builder
	if windows[0].start > 0 {
		b.WriteString(cfg.Ellipsis)
	}
	for i, w := range windows {
		if i > 0 {
			b.WriteString(cfg.Ellipsis)
		}
		from := tokens[w.start].start
		to := tokens[w.end-1].end
		b.WriteString(highlightRange(content, from, to, spans, cfg))
	}
	if windows[len(windows)-1].end < len(tokens) {
		b.WriteString(cfg.Ellipsis)
	}
	return b.String()
}

// window is a half-open token index range.
type window struct {
	start int
	end   int
}

// matchWindows places token windows of the given budget around the first
// matches, merging overlapping or adjacent windows. Without matches the
// leading window is returned.
func matchWindows(tokens []tokenSpan, spans []matchSpan, budget int) []window {
	if len(spans) == 0 {
		end := min(budget, len(tokens))
		return []window{{start: 0, end: end}}
	}

	half := budget / 2
	var windows []window
	for _, sp := range spans {
		idx := tokenIndexAt(tokens, sp.start)
		start := max(idx-half, 0)
		end := min(start+budget, len(tokens))

		if n := len(windows); n > 0 && start <= windows[n-1].end {
			if end > windows[n-1].end {
				windows[n-1].end = end
			}
			continue
		}
		if len(windows) == maxSnippetWindows {
			break
		}
		windows = append(windows, window{start: start, end: end})
	}
	return windows
}

// tokenIndexAt returns the index of the token containing byte offset off.
func tokenIndexAt(tokens []tokenSpan, off int) int {
	i := sort.Search(len(tokens), func(i int) bool { return tokens[i].end > off })
	if i == len(tokens) {
		return len(tokens) - 1
	}
	return i
}

// highlightRange renders content[from:to] with markers inserted around
// every match span that falls inside the range.
func highlightRange(content string, from, to int, spans []matchSpan, cfg Config) string {
	var b strings.Builder
	pos := from
	for _, sp := range spans {
		if sp.start < from || sp.end > to {
			continue
		}
		b.WriteString(content[pos:sp.start])
		b.WriteString(cfg.HighlightOpen)
		b.WriteString(content[sp.start:sp.end])
		b.WriteString(cfg.HighlightClose)
		pos = sp.end
	}
	b.WriteString(content[pos:to])
	return b.String()
}
