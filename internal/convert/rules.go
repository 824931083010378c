package convert

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultRules returns the rule table in priority order. Anything these
// rules leave alone is handled by the CommonMark and GitHub Flavored rules
// underneath.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "pre-code", Filter: []string{"code"}, Match: isPreCode, Replace: replacePreCode},
		{Name: "inline-code", Filter: []string{"code"}, Replace: replaceInlineCode},
		{Name: "fenced-code", Filter: []string{"pre"}, Replace: replaceFencedCode},
		{Name: "editor-code", Filter: []string{"div", "pre"}, Match: isEditorBlock, Replace: replaceEditorBlock},
		{Name: "mark", Filter: []string{"mark"}, Replace: unwrap},
		{Name: "span", Filter: []string{"span"}, Replace: unwrap},
		{Name: "paragraph", Filter: []string{"p"}, Replace: replaceParagraph},
		{Name: "removed", Filter: []string{"script", "style", "noscript", "template", "title", "meta", "link"}, Replace: remove},
	}
}

func unwrap(_ *html.Node, content string) string {
	return content
}

func remove(_ *html.Node, _ string) string {
	return ""
}

func isPreCode(n *html.Node) bool {
	return n.Parent != nil && n.Parent.DataAtom == atom.Pre
}

// Inside <pre> the code text is kept verbatim; the pre rule adds the fence.
func replacePreCode(n *html.Node, _ string) string {
	return textContent(n)
}

func replaceInlineCode(n *html.Node, _ string) string {
	code := strings.TrimSpace(collapseWhitespace(textContent(n)))
	if code == "" {
		return ""
	}
	if strings.Contains(code, "`") {
		return "`` " + code + " ``"
	}
	return "`" + code + "`"
}

var languageRe = regexp.MustCompile(`language-([^\s]+)`)

func replaceFencedCode(n *html.Node, _ string) string {
	classes := attr(n, "class")
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Code {
			classes += " " + attr(c, "class")
			break
		}
	}

	lang := ""
	if m := languageRe.FindStringSubmatch(classes); m != nil {
		lang = m[1]
	}
	return fence(lang, lineText(n))
}

func fence(lang, body string) string {
	return "\n\n```" + lang + "\n" + strings.TrimSpace(body) + "\n```\n\n"
}

func isEditorBlock(n *html.Node) bool {
	return (n.DataAtom == atom.Div || n.DataAtom == atom.Pre) && hasEditorSignals(n)
}

// Editor pastes carry their line structure in nested blocks, so the body
// comes from the element itself rather than from the rendered children.
func replaceEditorBlock(n *html.Node, _ string) string {
	body := lineText(n)
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fence("", body)
}

func replaceParagraph(_ *html.Node, content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	return "\n\n" + content + "\n\n"
}

// groupEditorRuns moves each run of adjacent editor line divs under one
// wrapper div so the run becomes a single fence.
func groupEditorRuns(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if (c.Type != html.ElementNode && c.Type != html.DocumentNode) || c.DataAtom == atom.Pre {
			continue
		}
		if !isEditorLine(c) {
			groupEditorRuns(c)
			continue
		}

		next := nextElementSibling(c)
		if next == nil || !isEditorLine(next) || !onlySpaceBetween(c, next) {
			continue
		}

		wrapper := &html.Node{
			Type:     html.ElementNode,
			Data:     "div",
			DataAtom: atom.Div,
			Attr:     []html.Attribute{{Key: "class", Val: "code-block"}},
		}
		n.InsertBefore(wrapper, c)
		for line := c; line != nil; {
			following := nextElementSibling(line)
			if following == nil || !isEditorLine(following) || !onlySpaceBetween(line, following) {
				following = nil
			} else {
				for s := line.NextSibling; s != following; {
					gap := s.NextSibling
					n.RemoveChild(s)
					s = gap
				}
			}
			n.RemoveChild(line)
			wrapper.AppendChild(line)
			line = following
		}
		c = wrapper
	}
}

func isEditorLine(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Div && hasEditorSignals(n)
}

func onlySpaceBetween(a, b *html.Node) bool {
	for s := a.NextSibling; s != nil && s != b; s = s.NextSibling {
		if s.Type != html.TextNode || strings.TrimSpace(s.Data) != "" {
			return false
		}
	}
	return true
}

func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}
