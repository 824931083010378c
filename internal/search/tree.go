package search

import "strings"

// Node is one node of a rendered content tree: *Text, *Element, or, in
// highlighter output, *Mark.
type Node interface {
	node()
}

// Text is a leaf holding rendered text.
type Text struct {
	Text string
}

// Attr is an element attribute.
type Attr struct {
	Key string
	Val string
}

// Element is an inline or block wrapper around child nodes.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []Node
}

// Mark is a matched run of leaf text tagged with its match ordinal.
type Mark struct {
	Text    string
	Ordinal Ordinal
}

func (*Text) node()    {}
func (*Element) node() {}
func (*Mark) node()    {}

// Attr returns the value of the named attribute.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Highlight applies m to the text leaves under n. Matches are numbered from
// cursor in traversal order, and the returned cursor is the next unused
// ordinal. Text leaves become a run of *Text and *Mark nodes; elements
// are copied with their children highlighted. A match never spans two
// leaves.
//
// When the leaves of the tree concatenate to the raw document text, the
// ordinals agree with the order of matching segments from Segments.
func Highlight(n Node, m *Matcher, cursor int) ([]Node, int) {
	switch n := n.(type) {
	case *Text:
		return highlightText(n.Text, m, cursor)
	case *Element:
		children, next := HighlightAll(n.Children, m, cursor)
		return []Node{&Element{Tag: n.Tag, Attrs: n.Attrs, Children: children}}, next
	case *Mark:
		// Already highlighted output fed back in: treat it as plain text.
		return highlightText(n.Text, m, cursor)
	}
	return nil, cursor
}

// HighlightAll highlights a sequence of sibling nodes, threading the cursor
// through them in order.
func HighlightAll(nodes []Node, m *Matcher, cursor int) ([]Node, int) {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		var hl []Node
		hl, cursor = Highlight(n, m, cursor)
		out = append(out, hl...)
	}
	return out, cursor
}

func highlightText(text string, m *Matcher, cursor int) ([]Node, int) {
	segments := Segments(text, m)
	out := make([]Node, 0, len(segments))
	for _, s := range segments {
		if s.IsMatch {
			out = append(out, &Mark{Text: s.Text, Ordinal: Ordinal(cursor)})
			cursor++
			continue
		}
		out = append(out, &Text{Text: s.Text})
	}
	return out, cursor
}

// TextContent concatenates all leaf text in traversal order.
func TextContent(nodes []Node) string {
	var sb strings.Builder
	var walk func([]Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			switch n := n.(type) {
			case *Text:
				sb.WriteString(n.Text)
			case *Mark:
				sb.WriteString(n.Text)
			case *Element:
				walk(n.Children)
			}
		}
	}
	walk(nodes)
	return sb.String()
}

// Ordinals lists the ordinals of the Mark leaves in traversal order.
func Ordinals(nodes []Node) []Ordinal {
	var out []Ordinal
	for _, n := range nodes {
		switch n := n.(type) {
		case *Mark:
			out = append(out, n.Ordinal)
		case *Element:
			out = append(out, Ordinals(n.Children)...)
		}
	}
	return out
}
