// Package search compiles find-in-document queries and applies them to both
// raw document text and rendered content trees, numbering matches the same
// way in each.
package search

import (
	"log"
	"regexp"
)

// Query is the raw search input together with its options.
type Query struct {
	Text          string `json:"text"`
	CaseSensitive bool   `json:"caseSensitive"`
	WholeWord     bool   `json:"wholeWord"`
}

// Span is the byte range [Start, End) of a single match.
type Span struct {
	Start int
	End   int
}

// Matcher is a compiled Query. It holds no document state and can be reused
// across documents and goroutines. The zero value matches nothing.
type Matcher struct {
	re   *regexp.Regexp
	full *regexp.Regexp
}

var nothing = &Matcher{}

// Compile turns a query into a Matcher. The query text is always treated
// literally. An empty query, or one whose pattern cannot be built, yields a
// Matcher that matches nothing.
func Compile(q Query) *Matcher {
	if q.Text == "" {
		return nothing
	}

	pattern := regexp.QuoteMeta(q.Text)
	if q.WholeWord {
		pattern = `\b` + pattern + `\b`
	}

	flags := ""
	if !q.CaseSensitive {
		flags = "(?i)"
	}

	re, err := regexp.Compile(flags + pattern)
	if err != nil {
		log.Printf("search: could not compile query %q: %v", q.Text, err)
		return nothing
	}

	full, err := regexp.Compile(flags + `\A(?:` + pattern + `)\z`)
	if err != nil {
		log.Printf("search: could not compile full match for %q: %v", q.Text, err)
		return nothing
	}

	return &Matcher{re: re, full: full}
}

// MatchesNothing reports whether the matcher can never produce a match.
func (m *Matcher) MatchesNothing() bool {
	return m == nil || m.re == nil
}

// FindAll returns every leftmost-first, non-overlapping match in s.
func (m *Matcher) FindAll(s string) []Span {
	if m.MatchesNothing() {
		return nil
	}

	locs := m.re.FindAllStringIndex(s, -1)
	spans := make([]Span, 0, len(locs))
	for _, loc := range locs {
		// Zero-width matches cannot happen with a non-empty literal, but an
		// empty span would break segment numbering.
		if loc[1] == loc[0] {
			continue
		}
		spans = append(spans, Span{Start: loc[0], End: loc[1]})
	}
	return spans
}

// FullMatch reports whether s, taken in isolation, matches the pattern from
// start to end.
func (m *Matcher) FullMatch(s string) bool {
	if m.MatchesNothing() {
		return false
	}
	return m.full.MatchString(s)
}

// String returns the compiled pattern, or an empty string when the matcher
// matches nothing.
func (m *Matcher) String() string {
	if m.MatchesNothing() {
		return ""
	}
	return m.re.String()
}
