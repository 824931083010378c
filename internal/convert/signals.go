package convert

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Class name fragments left behind by code editors and highlighters when
// they copy as HTML without semantic <pre>/<code> markup.
var editorClassSignals = []string{
	"monaco",
	"codemirror",
	"cm-line",
	"cm-content",
	"ace_",
	"hljs",
	"prism",
	"highlight-source",
	"blob-code",
	"sourcecode",
	"code-block",
	"codeblock",
	"vscode",
}

// Font families that mark a styled block as code.
var monospaceSignals = []string{
	"monospace",
	"menlo",
	"monaco",
	"consolas",
	"courier",
	"fira code",
	"firacode",
	"jetbrains mono",
	"source code pro",
	"sf mono",
	"roboto mono",
	"ubuntu mono",
	"cascadia",
	"inconsolata",
	"dejavu sans mono",
}

// Matches both the font-family property and the font shorthand.
var fontDeclRe = regexp.MustCompile(`(^|[;\s])font(-family)?\s*:`)

// hasEditorSignals reports whether n's class or inline style carries the
// marks of a code-editor paste.
func hasEditorSignals(n *html.Node) bool {
	class := strings.ToLower(attr(n, "class"))
	for _, sig := range editorClassSignals {
		if strings.Contains(class, sig) {
			return true
		}
	}

	style := strings.ToLower(attr(n, "style"))
	if !fontDeclRe.MatchString(style) {
		return false
	}
	for _, sig := range monospaceSignals {
		if strings.Contains(style, sig) {
			return true
		}
	}
	return false
}

// Tags whose presence makes clipboard HTML worth converting.
var richElements = map[atom.Atom]bool{
	atom.P: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Ul: true, atom.Ol: true, atom.Li: true,
	atom.Table: true, atom.Tr: true, atom.Td: true, atom.Th: true,
	atom.Blockquote: true, atom.Pre: true, atom.Code: true, atom.Hr: true,
	atom.Strong: true, atom.B: true, atom.Em: true, atom.I: true,
	atom.Del: true, atom.S: true, atom.Strike: true, atom.A: true, atom.Img: true,
}

// IsRich reports whether fragment contains block, structural, or emphasis
// markup. Plain wrappers such as <div>, <span>, and <br> do not count.
func IsRich(fragment string) bool {
	return anyElement(fragment, func(n *html.Node) bool {
		return richElements[n.DataAtom]
	})
}

// IsCodeLike reports whether fragment looks like a paste from a code editor.
func IsCodeLike(fragment string) bool {
	return anyElement(fragment, hasEditorSignals)
}

// ShouldConvert decides whether a paste should use the converted HTML
// rather than the plain-text clipboard payload.
func ShouldConvert(fragment string) bool {
	if strings.TrimSpace(fragment) == "" {
		return false
	}
	return IsRich(fragment) || IsCodeLike(fragment)
}

func anyElement(fragment string, pred func(*html.Node) bool) bool {
	root, err := parseFragment(normalizeSpaces(fragment))
	if err != nil {
		return false
	}

	var found func(*html.Node) bool
	found = func(n *html.Node) bool {
		if n.Type == html.ElementNode && pred(n) {
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found(c) {
				return true
			}
		}
		return false
	}

	return found(root)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
