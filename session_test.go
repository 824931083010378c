package notelens_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/patrickward/notelens"
	"github.com/patrickward/notelens/internal/assert"
	"github.com/patrickward/notelens/internal/clipboard"
	"github.com/patrickward/notelens/internal/rendering"
	"github.com/patrickward/notelens/internal/search"
)

type memoryDocs map[string]string

func (m memoryDocs) Document(id string) (notelens.Document, error) {
	content, ok := m[id]
	if !ok {
		return notelens.Document{}, fmt.Errorf("%w: %s", notelens.ErrDocumentNotFound, id)
	}
	return notelens.Document{ID: id, Title: id, Content: content}, nil
}

type failingClipboard struct{}

func (failingClipboard) Write(notelens.CopyPayload) error {
	return errors.New("no display")
}

func openSession(t *testing.T, content string, opts ...notelens.SessionOption) *notelens.Session {
	t.Helper()

	s := notelens.NewSession(memoryDocs{"doc": content}, opts...)
	assert.Nil(t, s.OpenDocument("doc"))

	return s
}

func TestSession_OpenDocumentNotFound(t *testing.T) {
	t.Parallel()
	s := notelens.NewSession(memoryDocs{})

	err := s.OpenDocument("missing")
	assert.True(t, errors.Is(err, notelens.ErrDocumentNotFound))

	_, ok := s.Document()
	assert.False(t, ok)
}

func TestSession_NoDocument(t *testing.T) {
	t.Parallel()
	s := notelens.NewSession(memoryDocs{})

	assert.True(t, errors.Is(s.SetContent("x"), notelens.ErrNoDocument))

	_, err := s.OnPaste(notelens.PastePayload{Text: "x"}, 0)
	assert.True(t, errors.Is(err, notelens.ErrNoDocument))

	_, err = s.PreviewView()
	assert.True(t, errors.Is(err, notelens.ErrNoDocument))

	assert.Equal(t, s.RawView(), []search.Segment{{Text: ""}})
}

func TestSession_Navigate(t *testing.T) {
	t.Parallel()
	s := openSession(t, "cat cat cat")

	_, ok := s.OnNavigate(notelens.Forward)
	assert.False(t, ok)

	s.OnQueryChanged(search.Query{Text: "cat"})
	st := s.Status()
	assert.Equal(t, st.Total, 3)
	assert.Equal(t, st.Current, 0)
	assert.Equal(t, st.Active, "search-match-0")
	assert.Equal(t, st.DocumentID, "doc")

	var got []search.Ordinal
	for range 3 {
		o, ok := s.OnNavigate(notelens.Forward)
		assert.True(t, ok)
		got = append(got, o)
	}
	assert.Equal(t, got, []search.Ordinal{1, 2, 0})

	o, ok := s.OnNavigate(notelens.Backward)
	assert.True(t, ok)
	assert.Equal(t, o, search.Ordinal(2))
}

func TestSession_QueryChangeResets(t *testing.T) {
	t.Parallel()
	s := openSession(t, "Cat cat")

	s.OnQueryChanged(search.Query{Text: "cat"})
	s.OnNavigate(notelens.Forward)
	assert.Equal(t, s.Status().Current, 1)

	s.OnQueryChanged(search.Query{Text: "cat", CaseSensitive: true})
	assert.Equal(t, s.Status().Current, 0)
	assert.Equal(t, s.Status().Total, 1)
}

func TestSession_SetContentKeepsActiveMatch(t *testing.T) {
	t.Parallel()
	s := openSession(t, "cat cat cat")
	s.OnQueryChanged(search.Query{Text: "cat"})

	s.OnNavigate(notelens.Forward)
	assert.Nil(t, s.SetContent("cat cat"))
	assert.Equal(t, s.Status().Current, 1)
	assert.Equal(t, s.Status().Total, 2)

	assert.Nil(t, s.SetContent("cat"))
	assert.Equal(t, s.Status().Current, 0)
	assert.Equal(t, s.Status().Total, 1)
}

func TestSession_RawView(t *testing.T) {
	t.Parallel()
	s := openSession(t, "a cat!")
	s.OnQueryChanged(search.Query{Text: "cat"})

	assert.Equal(t, s.RawView(), []search.Segment{
		{Text: "a "},
		{Text: "cat", IsMatch: true},
		{Text: "!"},
	})
}

func TestSession_PreviewAgreesWithRaw(t *testing.T) {
	t.Parallel()
	content := "# Cats\n\nThe cat sat.\n\n## More\n\nAnother CAT, then a catalogue.\n"
	s := openSession(t, content, notelens.WithPreviewer(rendering.NewMarkdownRenderer()))
	s.OnQueryChanged(search.Query{Text: "cat"})

	tree, err := s.PreviewView()
	assert.Nil(t, err)

	var want []search.Ordinal
	for i := range s.Status().Total {
		want = append(want, search.Ordinal(i))
	}
	assert.Equal(t, search.Ordinals(tree), want)
	assert.Equal(t, len(want), 4)
}

func TestSession_PreviewWithoutPreviewer(t *testing.T) {
	t.Parallel()
	s := openSession(t, "x")

	_, err := s.PreviewView()
	assert.True(t, errors.Is(err, notelens.ErrNoPreviewer))
}

func TestSession_OnPaste(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		payload   notelens.PastePayload
		caret     int
		want      string
		wantCaret int
	}{
		{
			name:      "rich html",
			payload:   notelens.PastePayload{HTML: "<p>Hello <strong>world</strong></p>", Text: "Hello world"},
			caret:     1,
			want:      "[Hello **world**]",
			wantCaret: 16,
		},
		{
			name:      "plain wrapper uses text",
			payload:   notelens.PastePayload{HTML: "<span>x</span>", Text: "plain"},
			caret:     1,
			want:      "[plain]",
			wantCaret: 6,
		},
		{
			name:      "no html",
			payload:   notelens.PastePayload{Text: "t"},
			caret:     99,
			want:      "[]t",
			wantCaret: 3,
		},
		{
			name:      "empty conversion falls back",
			payload:   notelens.PastePayload{HTML: "<p></p>", Text: "fallback"},
			caret:     0,
			want:      "fallback[]",
			wantCaret: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := openSession(t, "[]")

			caret, err := s.OnPaste(tt.payload, tt.caret)
			assert.Nil(t, err)
			assert.Equal(t, caret, tt.wantCaret)

			doc, _ := s.Document()
			assert.Equal(t, doc.Content, tt.want)
		})
	}
}

func TestSession_PasteUpdatesMatches(t *testing.T) {
	t.Parallel()
	s := openSession(t, "cat")
	s.OnQueryChanged(search.Query{Text: "cat"})

	_, err := s.OnPaste(notelens.PastePayload{Text: " cat"}, 3)
	assert.Nil(t, err)
	assert.Equal(t, s.Status().Total, 2)
}

func TestSession_OnCopy(t *testing.T) {
	t.Parallel()
	cb := &clipboard.Memory{}
	s := notelens.NewSession(memoryDocs{}, notelens.WithClipboard(cb))

	selection := `<pre><code class="language-python">x=1</code></pre>`
	payload, err := s.OnCopy(selection)
	assert.Nil(t, err)
	assert.Equal(t, payload, notelens.CopyPayload{Plain: "```python\nx=1\n```", HTML: selection})

	last, ok := cb.Last()
	assert.True(t, ok)
	assert.Equal(t, last, payload)
}

func TestSession_OnCopyClipboardError(t *testing.T) {
	t.Parallel()
	s := notelens.NewSession(memoryDocs{}, notelens.WithClipboard(failingClipboard{}))

	payload, err := s.OnCopy("<code>foo</code>")
	assert.NotNil(t, err)
	assert.Equal(t, payload.Plain, "`foo`")
}

func TestSplice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		caret     int
		text      string
		want      string
		wantCaret int
	}{
		{"middle", "ac", 1, "b", "abc", 2},
		{"negative caret", "bc", -5, "a", "abc", 1},
		{"past end", "ab", 10, "c", "abc", 3},
		{"inside rune", "é", 1, "x", "xé", 1},
		{"empty", "", 0, "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, caret := notelens.Splice(tt.content, tt.caret, tt.text)
			assert.Equal(t, got, tt.want)
			assert.Equal(t, caret, tt.wantCaret)
		})
	}
}
