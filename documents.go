package notelens

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/patrickward/notelens/internal/contentutil"
)

const noteExt = ".md"

// DocumentInfo describes a document without its content.
type DocumentInfo struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Modified time.Time `json:"modified"`
}

// DirectoryProvider serves the Markdown notes of a directory tree as
// documents. A document id is the note's slash separated path without the
// .md extension. Hidden files and directories are skipped.
//
// Wiki links are resolved against a cached index of the directory, built on
// first use and rebuilt by Refresh.
type DirectoryProvider struct {
	rm *RootManager

	mu     sync.RWMutex
	index  []DocumentInfo
	loaded bool
}

// NewDirectoryProvider creates a provider for the notes under dir.
func NewDirectoryProvider(dir string) (*DirectoryProvider, error) {
	rm, err := NewRootManager(dir)
	if err != nil {
		return nil, err
	}
	return &DirectoryProvider{rm: rm}, nil
}

// Dir returns the directory the documents are read from.
func (p *DirectoryProvider) Dir() string {
	return p.rm.Path()
}

// Document loads the document with the given id.
func (p *DirectoryProvider) Document(id string) (Document, error) {
	name := id + noteExt
	if id == "" || !fs.ValidPath(name) || isHidden(name) {
		return Document{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	if !p.rm.FileExists(name) {
		return Document{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}

	content, err := p.rm.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
		}
		return Document{}, fmt.Errorf("reading document %s: %w", id, err)
	}

	text := contentutil.NormalizeLineEndings(string(content))
	return Document{
		ID:      id,
		Title:   documentTitle(id, text),
		Content: text,
	}, nil
}

// List returns every document in the directory, ordered by id.
func (p *DirectoryProvider) List() ([]DocumentInfo, error) {
	results, err := p.rm.Scan(".", func(name string, d fs.DirEntry) bool {
		return !strings.HasPrefix(d.Name(), ".")
	})
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	var docs []DocumentInfo
	for _, r := range results {
		if r.IsDir || path.Ext(r.Name) != noteExt {
			continue
		}

		id := strings.TrimSuffix(r.Path, noteExt)
		content, err := p.rm.ReadFile(r.Path)
		if err != nil {
			return nil, fmt.Errorf("reading document %s: %w", id, err)
		}
		info, err := p.rm.Stat(r.Path)
		if err != nil {
			return nil, fmt.Errorf("reading document %s: %w", id, err)
		}
		docs = append(docs, DocumentInfo{
			ID:       id,
			Title:    documentTitle(id, string(content)),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// Refresh rebuilds the link index from the directory.
func (p *DirectoryProvider) Refresh() error {
	docs, err := p.List()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.index = docs
	p.loaded = true
	return nil
}

// ResolveLink finds the document a [[wiki link]] refers to, by title or by
// file name, ignoring case. Indexed documents deleted since the last
// refresh do not resolve.
func (p *DirectoryProvider) ResolveLink(pageName string) (string, bool) {
	p.mu.RLock()
	loaded := p.loaded
	p.mu.RUnlock()

	if !loaded {
		if err := p.Refresh(); err != nil {
			return "", false
		}
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, doc := range p.index {
		if strings.EqualFold(doc.Title, pageName) ||
			strings.EqualFold(contentutil.DisplayName(path.Base(doc.ID)), pageName) ||
			strings.EqualFold(path.Base(doc.ID), pageName) {
			if !p.rm.FileExists(doc.ID + noteExt) {
				continue
			}
			return doc.ID, true
		}
	}
	return "", false
}

// documentTitle prefers the frontmatter title, then the file name.
func documentTitle(id, content string) string {
	if title, ok := contentutil.FrontmatterValue(content, "title"); ok {
		return title
	}
	return contentutil.DisplayName(path.Base(id))
}

func isHidden(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
