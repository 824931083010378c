package rendering

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/patrickward/notelens/internal/search"
)

// MarkdownRenderer renders note Markdown into the sanitized HTML shown in
// the preview, and into the content tree the preview is searched through.
type MarkdownRenderer struct {
	md           goldmark.Markdown
	sanitizer    *bluemonday.Policy
	preprocessor *MarkdownPreprocessor
}

type RenderedContent struct {
	Title          string         // The extracted title, if any.
	HTML           template.HTML  // The rendered HTML content.
	SectionHeaders []string       // List of section headers (H2).
	Metadata       map[string]any // Additional metadata extracted from front matter.
}

// RendererOption configures a MarkdownRenderer.
type RendererOption func(*MarkdownRenderer)

// WithLinkResolver resolves [[wiki links]] before rendering.
func WithLinkResolver(resolver LinkResolver) RendererOption {
	return func(mr *MarkdownRenderer) {
		mr.preprocessor = NewMarkdownPreprocessor(resolver)
	}
}

// NewMarkdownRenderer creates a new MarkdownRenderer instance.
func NewMarkdownRenderer(opts ...RendererOption) *MarkdownRenderer {
	// No Typographer: preview text keeps the raw text's quotes and dashes.
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Linkify,
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			extension.DefinitionList,
			meta.Meta,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			html.WithUnsafe(), // Allow raw HTML, but sanitize later
		),
	)

	mr := &MarkdownRenderer{
		md:           md,
		sanitizer:    createSanitizerPolicy(),
		preprocessor: NewMarkdownPreprocessor(nil),
	}
	for _, opt := range opts {
		opt(mr)
	}
	return mr
}

// Render renders the given Markdown content.
func (mr *MarkdownRenderer) Render(content string) RenderedContent {
	processResult := mr.preprocessor.Process(content)

	var buf bytes.Buffer
	ctx := parser.NewContext()
	if err := mr.md.Convert([]byte(processResult.Content), &buf, parser.WithContext(ctx)); err != nil {
		return mr.renderError(ctx, content, processResult, err)
	}

	metadata := meta.Get(ctx)
	return RenderedContent{
		Title:          renderedTitle(processResult.Title, metadata),
		HTML:           template.HTML(mr.sanitizer.Sanitize(buf.String())),
		SectionHeaders: processResult.SectionHeaders,
		Metadata:       metadata,
	}
}

// Tree renders content and returns the preview's content tree, ready for
// search.HighlightAll and RenderTree.
func (mr *MarkdownRenderer) Tree(content string) ([]search.Node, error) {
	processResult := mr.preprocessor.Process(content)

	var buf bytes.Buffer
	if err := mr.md.Convert([]byte(processResult.Content), &buf); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	return ParseTree(mr.sanitizer.Sanitize(buf.String()))
}

// renderError renders an error message for the given content.
func (mr *MarkdownRenderer) renderError(ctx parser.Context, content string, processResult PreprocessingResult, err error) RenderedContent {
	metadata := meta.Get(ctx)

	// Prepend the error message to the content
	content = fmt.Sprintf("<div class=\"callout danger\">%s</div><pre>%s</pre>", template.HTMLEscapeString(err.Error()), template.HTMLEscapeString(content))

	return RenderedContent{
		Title:          renderedTitle(processResult.Title, metadata),
		HTML:           template.HTML(content),
		SectionHeaders: processResult.SectionHeaders,
		Metadata:       metadata,
	}
}

// createSanitizerPolicy creates a new sanitizer policy for HTML rendering.
func createSanitizerPolicy() *bluemonday.Policy {
	sanitizer := bluemonday.UGCPolicy()
	sanitizer.AllowAttrs("class", "id").OnElements("span", "div", "code", "pre", "p", "h1", "h2", "h3", "h4", "h5", "h6", "mark")
	sanitizer.AllowElements("mark")

	// Task list checkboxes
	sanitizer.AllowElements("input")
	sanitizer.AllowAttrs("type", "checked", "disabled").OnElements("input")

	return sanitizer
}

// renderedTitle decides the title to use based on extracted title and metadata.
// Priority between preprocessing title given and metadata "title" should be:
// 1. If the title from preprocessing is non-empty, use it.
// 2. Else if metadata contains a non-empty "title", use that.
// 3. Otherwise, return an empty string and the document name will be used as a fallback.
func renderedTitle(title string, metadata map[string]any) string {
	if strings.TrimSpace(title) != "" {
		return title
	}

	if metaTitle, ok := metadata["title"].(string); ok && metaTitle != "" {
		return metaTitle
	}
	return ""
}
