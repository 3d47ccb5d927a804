package search

import (
	"strings"

	"github.com/meowafisha/meowafisha/pkg/event"
)

// HintLimit caps the hint set returned for an empty query.
const HintLimit = 5

// Variants expands a query into its transliteration variants: the
// literal query, the opposite-alphabet spelling, prefix/suffix
// transliterations for longer Latin queries, and a soft/hard-sign-free
// spelling for Cyrillic ones. The result is deduplicated in first-seen
// order and always contains at least the literal query.
func Variants(query string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(v string) {
		if v == "" {
			return
		}
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	add(query)

	if hasCyrillic(query) {
		add(CyrillicToLatin(query))
		add(StripSigns(query))
	}

	if hasLatin(query) {
		add(LatinToCyrillic(query))
		// Partial transliterations let a long query still hit when only
		// its head or tail was spelled the same way in the corpus.
		if runes := []rune(query); len(runes) >= 4 {
			add(LatinToCyrillic(string(runes[:4])))
			add(LatinToCyrillic(string(runes[len(runes)-4:])))
		}
	}

	return out
}

// Match reports whether any transliteration variant of query is a
// substring of text, case-insensitively.
func Match(query, text string) bool {
	lowerText := strings.ToLower(text)
	for _, variant := range Variants(query) {
		needle := strings.ToLower(strings.TrimSpace(variant))
		if needle == "" {
			continue
		}
		if strings.Contains(lowerText, needle) {
			return true
		}
	}
	return false
}

// Search filters the corpus down to events matching the query over
// title and location, preserving corpus order. An empty query returns
// the first HintLimit events as a browsing hint instead of everything
// or nothing.
func Search(query string, corpus []event.Event) []event.Event {
	query = strings.TrimSpace(query)
	if query == "" {
		if len(corpus) > HintLimit {
			return corpus[:HintLimit:HintLimit]
		}
		return corpus
	}
	var out []event.Event
	for _, e := range corpus {
		if Match(query, e.SearchText()) {
			out = append(out, e)
		}
	}
	return out
}
