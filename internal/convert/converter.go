// Package convert turns clipboard HTML into canonical Markdown.
//
// Conversion is driven by an ordered rule table layered over the
// html-to-markdown CommonMark and GitHub Flavored rule sets. For every
// element the first rule whose Match returns true renders it, given the
// already rendered Markdown of the element's children. Elements no rule
// claims fall through to the library's rules.
package convert

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Rule renders one kind of element. Filter lists the tag names the rule is
// tried on.
type Rule struct {
	Name    string
	Filter  []string
	Match   func(n *html.Node) bool
	Replace func(n *html.Node, content string) string
}

// Converter holds an immutable rule table. It keeps no per-document state
// and is safe for concurrent use.
type Converter struct {
	md *md.Converter
}

// Default is the shared converter built from DefaultRules.
var Default = New()

// New returns a converter using the given rules, or DefaultRules when none
// are supplied.
func New(rules ...Rule) *Converter {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	conv := md.NewConverter("", true, &md.Options{
		HeadingStyle:     "atx",
		HorizontalRule:   "---",
		BulletListMarker: "-",
		CodeBlockStyle:   "fenced",
		Fence:            "```",
		EmDelimiter:      "_",
		StrongDelimiter:  "**",
	})
	conv.Use(plugin.GitHubFlavored())

	// Rules added later win, so the table goes in back to front.
	for i := len(rules) - 1; i >= 0; i-- {
		if len(rules[i].Filter) == 0 {
			continue
		}
		conv.AddRules(libraryRule(rules[i]))
	}

	return &Converter{md: conv}
}

func libraryRule(r Rule) md.Rule {
	return md.Rule{
		Filter: r.Filter,
		Replacement: func(content string, selec *goquery.Selection, _ *md.Options) *string {
			n := selec.Get(0)
			if n == nil || (r.Match != nil && !r.Match(n)) {
				return nil
			}
			return md.String(r.Replace(n, content))
		},
	}
}

// Convert converts an HTML fragment with the Default converter.
func Convert(fragment string) string {
	return Default.Convert(fragment)
}

var nbspRe = regexp.MustCompile(`(?i)\x{00A0}|&nbsp;|&#160;|&#x0*a0;`)

// Convert converts an HTML fragment to Markdown. The same input always gives
// the same output; malformed markup degrades to its text content.
func (c *Converter) Convert(fragment string) string {
	root, err := parseFragment(normalizeSpaces(fragment))
	if err != nil {
		return postprocess(collapseWhitespace(stripTags(fragment)))
	}
	return c.convertTree(root)
}

// ConvertNode converts an already parsed subtree, such as a cloned
// selection. The subtree is copied first and n is left untouched.
func (c *Converter) ConvertNode(n *html.Node) string {
	if n == nil {
		return ""
	}
	root := newBody()
	root.AppendChild(cloneTree(n))
	return c.convertTree(root)
}

// convertTree converts the children of root. root must be owned by the
// converter: editor runs are regrouped and the library annotates links.
func (c *Converter) convertTree(root *html.Node) string {
	groupEditorRuns(root)
	return postprocess(c.md.Convert(goquery.NewDocumentFromNode(root).Selection))
}

func normalizeSpaces(s string) string {
	return nbspRe.ReplaceAllString(s, " ")
}

func newBody() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

// cloneTree deep-copies n, normalizing non-breaking spaces in text.
func cloneTree(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	if n.Type == html.TextNode {
		c.Data = strings.ReplaceAll(c.Data, "\u00a0", " ")
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneTree(child))
	}
	return c
}

// parseFragment parses fragment in a body context and returns a synthetic
// body holding the parsed nodes, so rules that look at parents and siblings
// see the fragment's structure.
func parseFragment(fragment string) (*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), newBody())
	if err != nil {
		return nil, err
	}

	root := newBody()
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

func stripTags(s string) string {
	return html.UnescapeString(tagRe.ReplaceAllString(s, ""))
}

var (
	trailingSpaceRe = regexp.MustCompile(`(?m)[ \t]+$`)
	blankRunRe      = regexp.MustCompile(`\n{3,}`)
)

// postprocess runs once over the whole output: strip trailing whitespace on
// every line, collapse blank runs to one blank line, trim the ends.
func postprocess(s string) string {
	s = trailingSpaceRe.ReplaceAllString(s, "")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
