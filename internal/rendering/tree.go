package rendering

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/patrickward/notelens/internal/search"
)

const (
	highlightClass = "search-highlight"
	targetClass    = "search-target"
)

// ParseTree parses a sanitized HTML fragment into a content tree.
func ParseTree(fragment string) ([]search.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, fmt.Errorf("parsing preview html: %w", err)
	}

	tree := make([]search.Node, 0, len(nodes))
	for _, n := range nodes {
		if node := fromHTML(n); node != nil {
			tree = append(tree, node)
		}
	}
	return tree, nil
}

// fromHTML keeps text and elements; comments and doctypes are dropped.
func fromHTML(n *html.Node) search.Node {
	switch n.Type {
	case html.TextNode:
		return &search.Text{Text: n.Data}
	case html.ElementNode:
		el := &search.Element{Tag: n.Data}
		for _, a := range n.Attr {
			el.Attrs = append(el.Attrs, search.Attr{Key: a.Key, Val: a.Val})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				el.Children = append(el.Children, child)
			}
		}
		return el
	default:
		return nil
	}
}

// RenderTree serializes a content tree back to HTML. Marks become
// <mark> elements; the one whose ordinal equals target is marked as the
// active match.
func RenderTree(nodes []search.Node, target int) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		h := toHTML(n, target)
		if h == nil {
			continue
		}
		if err := html.Render(&buf, h); err != nil {
			return "", fmt.Errorf("rendering preview html: %w", err)
		}
	}
	return buf.String(), nil
}

func toHTML(n search.Node, target int) *html.Node {
	switch n := n.(type) {
	case *search.Text:
		return &html.Node{Type: html.TextNode, Data: n.Text}
	case *search.Mark:
		mark := &html.Node{
			Type:     html.ElementNode,
			Data:     "mark",
			DataAtom: atom.Mark,
			Attr: []html.Attribute{
				{Key: "id", Val: n.Ordinal.AnchorID()},
				{Key: "class", Val: markClass(n.Ordinal, target)},
			},
		}
		mark.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
		return mark
	case *search.Element:
		el := &html.Node{
			Type:     html.ElementNode,
			Data:     n.Tag,
			DataAtom: atom.Lookup([]byte(n.Tag)),
		}
		for _, a := range n.Attrs {
			el.Attr = append(el.Attr, html.Attribute{Key: a.Key, Val: a.Val})
		}
		for _, c := range n.Children {
			if child := toHTML(c, target); child != nil {
				el.AppendChild(child)
			}
		}
		return el
	default:
		return nil
	}
}

func markClass(ordinal search.Ordinal, target int) string {
	if int(ordinal) == target {
		return highlightClass + " " + targetClass
	}
	return highlightClass
}

// RenderSegments renders the raw view: escaped text with every match
// wrapped in a <mark>, numbered in document order.
func RenderSegments(segments []search.Segment, target int) template.HTML {
	var b strings.Builder
	ordinal := 0
	for _, seg := range segments {
		if !seg.IsMatch {
			b.WriteString(template.HTMLEscapeString(seg.Text))
			continue
		}
		o := search.Ordinal(ordinal)
		fmt.Fprintf(&b, `<mark id="%s" class="%s">%s</mark>`, o.AnchorID(), markClass(o, target), template.HTMLEscapeString(seg.Text))
		ordinal++
	}
	return template.HTML(b.String())
}
