package rendering

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/patrickward/notelens/internal/contentutil"
)

// PreprocessingResult is the outcome of preparing note text for rendering.
type PreprocessingResult struct {
	Title          string
	Content        string
	SectionHeaders []string
}

// LinkResolver resolves a wiki link page name to a document id.
type LinkResolver interface {
	ResolveLink(pageName string) (id string, ok bool)
}

var (
	titleRe     = regexp.MustCompile(`^#\s+(.+)$`)
	sectionsRe  = regexp.MustCompile(`^##\s+(.+)$`)
	wikiLinksRe = regexp.MustCompile(`\[\[([^]\n]+)]]`)
)

// MarkdownPreprocessor extracts outline information from a note and rewrites
// wiki links before the note is rendered.
//
// Lines are never removed or reordered: the preview's text has to follow the
// raw text so search matches line up between the two views.
type MarkdownPreprocessor struct {
	resolver LinkResolver
}

// NewMarkdownPreprocessor creates a preprocessor. A nil resolver leaves wiki
// links as written.
func NewMarkdownPreprocessor(resolver LinkResolver) *MarkdownPreprocessor {
	return &MarkdownPreprocessor{resolver: resolver}
}

func (mp *MarkdownPreprocessor) Process(content string) PreprocessingResult {
	lines := contentutil.SplitLines(content)

	var title string
	var headers []string
	inFence := false

	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		if title == "" {
			if matches := titleRe.FindStringSubmatch(line); matches != nil {
				title = strings.TrimSpace(matches[1])
				continue
			}
		}

		if matches := sectionsRe.FindStringSubmatch(line); matches != nil {
			headers = append(headers, strings.TrimSpace(matches[1]))
			continue
		}

		lines[i] = mp.processWikiLinks(line)
	}

	return PreprocessingResult{
		Title:          title,
		Content:        strings.Join(lines, "\n"),
		SectionHeaders: headers,
	}
}

// processWikiLinks turns [[Page Name]] into a Markdown link when the page
// resolves. The page name stays the link text.
func (mp *MarkdownPreprocessor) processWikiLinks(line string) string {
	if mp.resolver == nil {
		return line
	}

	return wikiLinksRe.ReplaceAllStringFunc(line, func(match string) string {
		pageName := strings.TrimSpace(strings.Trim(match, "[]"))
		if pageName == "" {
			return match
		}

		if id, ok := mp.resolver.ResolveLink(pageName); ok {
			return fmt.Sprintf(`[%s](/%s)`, pageName, id)
		}
		return match
	})
}
