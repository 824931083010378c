// Package notelens keeps a note's raw text and rendered preview searchable
// with one query, and moves clipboard HTML in and out as Markdown.
package notelens

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/patrickward/notelens/internal/convert"
	"github.com/patrickward/notelens/internal/search"
)

var (
	// ErrDocumentNotFound is returned by a DocumentProvider for unknown ids.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrNoDocument is returned by Session operations that need an open document.
	ErrNoDocument = errors.New("no document open")
	// ErrNoPreviewer is returned by PreviewView when the session has no previewer.
	ErrNoPreviewer = errors.New("no previewer configured")
)

// Document is a note as served by a DocumentProvider.
type Document struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DocumentProvider supplies documents by id.
type DocumentProvider interface {
	Document(id string) (Document, error)
}

// Previewer renders document content into the preview's content tree.
type Previewer interface {
	Tree(content string) ([]search.Node, error)
}

// Clipboard receives copy payloads.
type Clipboard interface {
	Write(CopyPayload) error
}

// CopyPayload is what a copy from the preview puts on the clipboard: the
// selection as Markdown in the plain slot and the original HTML in the rich
// slot.
type CopyPayload struct {
	Plain string `json:"plain"`
	HTML  string `json:"html"`
}

// PastePayload is the clipboard content offered to a paste.
type PastePayload struct {
	HTML string `json:"html"`
	Text string `json:"text"`
}

// Direction selects the next or previous match.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Status describes the session's search state.
type Status struct {
	DocumentID string       `json:"documentId"`
	Query      search.Query `json:"query"`
	Current    int          `json:"current"`
	Total      int          `json:"total"`
	Active     string       `json:"active,omitempty"` // anchor id of the current match
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPreviewer sets the renderer used by PreviewView.
func WithPreviewer(p Previewer) SessionOption {
	return func(s *Session) {
		s.previewer = p
	}
}

// WithClipboard sets the clipboard OnCopy writes to.
func WithClipboard(c Clipboard) SessionOption {
	return func(s *Session) {
		s.clipboard = c
	}
}

// WithConverter replaces the default HTML to Markdown converter.
func WithConverter(c *convert.Converter) SessionOption {
	return func(s *Session) {
		s.converter = c
	}
}

// Session is the state of one document view: the open document, the current
// query, and the active match. A Session is not safe for concurrent use.
type Session struct {
	docs      DocumentProvider
	previewer Previewer
	clipboard Clipboard
	converter *convert.Converter

	doc     *Document
	query   search.Query
	matcher *search.Matcher
	nav     search.Navigator
}

// NewSession creates a Session reading documents from docs.
func NewSession(docs DocumentProvider, opts ...SessionOption) *Session {
	s := &Session{
		docs:      docs,
		converter: convert.Default,
		matcher:   search.Compile(search.Query{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenDocument makes the document with the given id active and restarts
// match navigation.
func (s *Session) OpenDocument(id string) error {
	doc, err := s.docs.Document(id)
	if err != nil {
		return fmt.Errorf("opening document %q: %w", id, err)
	}

	s.doc = &doc
	s.nav.Reset(search.MatchCount(doc.Content, s.matcher))
	return nil
}

// Document returns the open document.
func (s *Session) Document() (Document, bool) {
	if s.doc == nil {
		return Document{}, false
	}
	return *s.doc, true
}

// SetContent replaces the open document's text after an edit. The active
// match is kept while it is still in range.
func (s *Session) SetContent(content string) error {
	if s.doc == nil {
		return ErrNoDocument
	}

	s.doc.Content = content
	s.nav.Resize(search.MatchCount(content, s.matcher))
	return nil
}

// OnQueryChanged compiles q and restarts match navigation.
func (s *Session) OnQueryChanged(q search.Query) {
	s.query = q
	s.matcher = search.Compile(q)
	s.nav.Reset(search.MatchCount(s.content(), s.matcher))
}

// OnNavigate moves to the next or previous match and returns its ordinal.
// It reports false when there are no matches.
func (s *Session) OnNavigate(dir Direction) (search.Ordinal, bool) {
	switch dir {
	case Backward:
		s.nav.Prev()
	default:
		s.nav.Next()
	}
	return s.nav.Locator(s.nav.Current())
}

// OnPaste inserts clipboard content at caret and returns the caret position
// after the inserted text. Rich or code-like HTML is converted to Markdown;
// anything else, or HTML that converts to nothing, pastes the plain text.
func (s *Session) OnPaste(p PastePayload, caret int) (int, error) {
	if s.doc == nil {
		return caret, ErrNoDocument
	}

	text := p.Text
	if convert.ShouldConvert(p.HTML) {
		if md := s.converter.Convert(p.HTML); md != "" {
			text = md
		}
	}

	content, next := Splice(s.doc.Content, caret, text)
	if err := s.SetContent(content); err != nil {
		return caret, err
	}
	return next, nil
}

// OnCopy converts a selection from the preview into a clipboard payload and
// writes it to the session's clipboard, if one is set.
func (s *Session) OnCopy(selectionHTML string) (CopyPayload, error) {
	payload := CopyPayload{
		Plain: s.converter.Convert(selectionHTML),
		HTML:  selectionHTML,
	}

	if s.clipboard != nil {
		if err := s.clipboard.Write(payload); err != nil {
			return payload, fmt.Errorf("copying selection: %w", err)
		}
	}
	return payload, nil
}

// RawView returns the open document's text split into match and non-match
// segments.
func (s *Session) RawView() []search.Segment {
	return search.Segments(s.content(), s.matcher)
}

// PreviewView renders the open document and highlights matches in the
// resulting tree.
func (s *Session) PreviewView() ([]search.Node, error) {
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	if s.previewer == nil {
		return nil, ErrNoPreviewer
	}

	tree, err := s.previewer.Tree(s.doc.Content)
	if err != nil {
		return nil, fmt.Errorf("rendering preview of %q: %w", s.doc.ID, err)
	}

	highlighted, _ := search.HighlightAll(tree, s.matcher, 0)
	return highlighted, nil
}

// Matcher returns the compiled current query.
func (s *Session) Matcher() *search.Matcher {
	return s.matcher
}

// Status reports the search state.
func (s *Session) Status() Status {
	st := Status{
		Query:   s.query,
		Current: s.nav.Current(),
		Total:   s.nav.Total(),
	}
	if s.doc != nil {
		st.DocumentID = s.doc.ID
	}
	if ordinal, ok := s.nav.Locator(s.nav.Current()); ok {
		st.Active = ordinal.AnchorID()
	}
	return st
}

func (s *Session) content() string {
	if s.doc == nil {
		return ""
	}
	return s.doc.Content
}

// Splice inserts text into content at caret and returns the new content and
// the caret position after the insertion. The caret is clamped to the
// content and moved back to the start of the rune it falls inside.
func Splice(content string, caret int, text string) (string, int) {
	caret = max(0, min(caret, len(content)))
	for caret > 0 && caret < len(content) && !utf8.RuneStart(content[caret]) {
		caret--
	}
	return content[:caret] + text + content[caret:], caret + len(text)
}
