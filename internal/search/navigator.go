package search

import "fmt"

// Ordinal is the 0-based position of a match in document order. The same
// ordinal names the same occurrence in the raw view and the preview.
type Ordinal int

// AnchorID returns the element id both views give the match.
func (o Ordinal) AnchorID() string {
	return fmt.Sprintf("search-match-%d", int(o))
}

// Navigator tracks the active match for one view. Its zero value has no
// matches.
type Navigator struct {
	current int
	total   int
}

// Reset sets a new match total and moves back to the first match. Call it
// whenever the query text, its options, or the active document change.
func (n *Navigator) Reset(total int) {
	n.current = 0
	n.total = max(total, 0)
}

// Resize updates the total after an edit to the same document, keeping the
// active match when it still exists.
func (n *Navigator) Resize(total int) {
	n.total = max(total, 0)
	if n.current >= n.total {
		n.current = 0
	}
}

// Next advances to the following match, wrapping to the first.
func (n *Navigator) Next() int {
	if n.total > 0 {
		n.current = (n.current + 1) % n.total
	}
	return n.current
}

// Prev moves to the preceding match, wrapping to the last.
func (n *Navigator) Prev() int {
	if n.total > 0 {
		n.current = (n.current - 1 + n.total) % n.total
	}
	return n.current
}

// Current returns the active match index.
func (n *Navigator) Current() int {
	return n.current
}

// Total returns the number of matches being navigated.
func (n *Navigator) Total() int {
	return n.total
}

// Locator returns the ordinal for index, or false when index is not a valid
// match position.
func (n *Navigator) Locator(index int) (Ordinal, bool) {
	if index < 0 || index >= n.total {
		return 0, false
	}
	return Ordinal(index), true
}
