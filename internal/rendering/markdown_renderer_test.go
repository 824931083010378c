package rendering_test

import (
	"strings"
	"testing"

	"github.com/patrickward/notelens/internal/assert"
	"github.com/patrickward/notelens/internal/rendering"
	"github.com/patrickward/notelens/internal/search"
)

type pages map[string]string

func (p pages) ResolveLink(pageName string) (string, bool) {
	id, ok := p[pageName]
	return id, ok
}

func TestRender(t *testing.T) {
	t.Parallel()
	mr := rendering.NewMarkdownRenderer()

	rendered := mr.Render("# Title\n\nHello **world**")
	assert.Equal(t, rendered.Title, "Title")
	assert.True(t, strings.Contains(string(rendered.HTML), "<strong>world</strong>"))
}

func TestRender_MetadataTitle(t *testing.T) {
	t.Parallel()
	mr := rendering.NewMarkdownRenderer()

	rendered := mr.Render("---\ntitle: From Meta\n---\n\nBody text")
	assert.Equal(t, rendered.Title, "From Meta")
	assert.False(t, strings.Contains(string(rendered.HTML), "title:"))
}

func TestRender_SectionHeaders(t *testing.T) {
	t.Parallel()
	mr := rendering.NewMarkdownRenderer()

	content := "# Notes\n\n## One\n\ntext\n\n```\n## not a header\n```\n\n## Two\n"
	rendered := mr.Render(content)
	assert.Equal(t, rendered.SectionHeaders, []string{"One", "Two"})
}

func TestRender_WikiLinks(t *testing.T) {
	t.Parallel()
	mr := rendering.NewMarkdownRenderer(rendering.WithLinkResolver(pages{"Weekly Review": "weekly-review"}))

	out := string(mr.Render("See [[Weekly Review]] and [[Missing]].").HTML)
	assert.True(t, strings.Contains(out, `href="/weekly-review"`))
	assert.True(t, strings.Contains(out, ">Weekly Review</a>"))
	assert.True(t, strings.Contains(out, "[[Missing]]"))
}

func TestRender_Sanitizes(t *testing.T) {
	t.Parallel()
	mr := rendering.NewMarkdownRenderer()

	out := string(mr.Render("<script>alert(1)</script>\n\ntext").HTML)
	assert.False(t, strings.Contains(out, "<script"))
	assert.True(t, strings.Contains(out, "text"))
}

func TestRender_TaskList(t *testing.T) {
	t.Parallel()
	mr := rendering.NewMarkdownRenderer()

	out := string(mr.Render("- [x] done\n- [ ] todo").HTML)
	assert.True(t, strings.Contains(out, "checkbox"))
}

func TestTree_HighlightAndRender(t *testing.T) {
	t.Parallel()
	mr := rendering.NewMarkdownRenderer()

	tree, err := mr.Tree("cat one\n\ncat two")
	assert.Nil(t, err)

	highlighted, matches := search.HighlightAll(tree, search.Compile(search.Query{Text: "cat"}), 0)
	assert.Equal(t, matches, 2)

	out, err := rendering.RenderTree(highlighted, 1)
	assert.Nil(t, err)
	assert.True(t, strings.Contains(out, `<mark id="search-match-0" class="search-highlight">cat</mark> one`))
	assert.True(t, strings.Contains(out, `<mark id="search-match-1" class="search-highlight search-target">cat</mark> two`))
}

func TestTree_EmptyQuery(t *testing.T) {
	t.Parallel()
	mr := rendering.NewMarkdownRenderer()

	tree, err := mr.Tree("cat one")
	assert.Nil(t, err)

	highlighted, matches := search.HighlightAll(tree, search.Compile(search.Query{}), 0)
	assert.Equal(t, matches, 0)

	out, err := rendering.RenderTree(highlighted, 0)
	assert.Nil(t, err)
	assert.False(t, strings.Contains(out, "<mark"))
}

func TestTree_AgreesWithRawCount(t *testing.T) {
	t.Parallel()
	mr := rendering.NewMarkdownRenderer()
	content := "# Cats\n\nA cat, a **CAT** and a catalogue.\n\n- one cat\n- two cats\n"

	tree, err := mr.Tree(content)
	assert.Nil(t, err)

	for _, q := range []search.Query{
		{Text: "cat"},
		{Text: "cat", CaseSensitive: true},
		{Text: "cat", WholeWord: true},
	} {
		m := search.Compile(q)
		out, next := search.HighlightAll(tree, m, 0)
		assert.Equal(t, next, search.MatchCount(content, m))
		assert.Len(t, search.Ordinals(out), next)
	}
}
