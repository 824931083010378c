package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/patrickward/notelens"
	"github.com/patrickward/notelens/internal/assert"
	"github.com/patrickward/notelens/internal/clipboard"
)

const testDataDir = "../../testdata/notes"

func setupServer(t *testing.T, opts ...ServerOption) (*Server, http.Handler) {
	t.Helper()

	s, err := NewServer(context.Background(), testDataDir, opts...)
	assert.Nil(t, err)
	t.Cleanup(s.backgroundRunner.Shutdown)

	return s, s.setupRoutes()
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	assert.Nil(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHandleDocuments(t *testing.T) {
	t.Parallel()
	_, h := setupServer(t)

	rec := serve(t, h, http.MethodGet, "/api/documents", "")
	assert.Equal(t, rec.Code, http.StatusOK)

	docs := decode[[]notelens.DocumentInfo](t, rec)
	assert.Len(t, docs, 2)
	assert.Equal(t, docs[0].ID, "inbox")
}

func TestHandleSearch_Raw(t *testing.T) {
	t.Parallel()
	_, h := setupServer(t)

	rec := serve(t, h, http.MethodGet, "/api/search/projects/weekly-review?q=cat&view=raw&target=1", "")
	assert.Equal(t, rec.Code, http.StatusOK)

	resp := decode[searchResponse](t, rec)
	assert.Equal(t, resp.Status.Total, 3)
	assert.Equal(t, resp.Status.Current, 1)
	assert.Equal(t, resp.Status.Active, "search-match-1")
	assert.True(t, strings.Contains(resp.HTML, `<mark id="search-match-1" class="search-highlight search-target">CAT</mark>`))
	assert.True(t, strings.HasPrefix(resp.HTML, "# Weekly Review"))
}

func TestHandleSearch_Preview(t *testing.T) {
	t.Parallel()
	_, h := setupServer(t)

	rec := serve(t, h, http.MethodGet, "/api/search/projects/weekly-review?q=cat&target=-1", "")
	assert.Equal(t, rec.Code, http.StatusOK)

	resp := decode[searchResponse](t, rec)
	assert.Equal(t, resp.View, "preview")
	assert.Equal(t, resp.Status.Current, 2)
	assert.Equal(t, resp.PreviewMatches, resp.Status.Total)
	assert.Equal(t, resp.Document.Title, "Weekly Review")
	assert.Equal(t, resp.SectionHeaders, []string{"Wins", "Next"})
	assert.True(t, strings.Contains(resp.HTML, `<mark id="search-match-0" class="search-highlight">cat</mark>`))
	assert.True(t, strings.Contains(resp.HTML, `<mark id="search-match-2" class="search-highlight search-target">Cat</mark>alogue`))
}

func TestHandleSearch_WholeWordCaseSensitive(t *testing.T) {
	t.Parallel()
	_, h := setupServer(t)

	rec := serve(t, h, http.MethodGet, "/api/search/projects/weekly-review?q=cat&case=true&word=1&view=raw", "")
	resp := decode[searchResponse](t, rec)
	assert.Equal(t, resp.Status.Total, 1)
}

func TestHandleSearch_Errors(t *testing.T) {
	t.Parallel()
	_, h := setupServer(t)

	tests := []struct {
		name   string
		target string
		code   int
	}{
		{"missing document", "/api/search/nope?q=x", http.StatusNotFound},
		{"bad view", "/api/search/inbox?view=split", http.StatusBadRequest},
		{"bad target", "/api/search/inbox?target=first", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := serve(t, h, http.MethodGet, tt.target, "")
			assert.Equal(t, rec.Code, tt.code)
			assert.True(t, decode[errorResponse](t, rec).Error != "")
		})
	}
}

func TestHandlePaste(t *testing.T) {
	t.Parallel()
	_, h := setupServer(t)

	body := `{"content":"ab","caret":1,"html":"<p>Hello <strong>world</strong></p>","text":"Hello world"}`
	rec := serve(t, h, http.MethodPost, "/api/paste", body)
	assert.Equal(t, rec.Code, http.StatusOK)

	resp := decode[pasteResponse](t, rec)
	assert.Equal(t, resp.Content, "aHello **world**b")
	assert.Equal(t, resp.Caret, 16)

	rec = serve(t, h, http.MethodPost, "/api/paste", "{")
	assert.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestHandleCopy(t *testing.T) {
	t.Parallel()
	cb := &clipboard.Memory{}
	_, h := setupServer(t, WithClipboard(cb))

	rec := serve(t, h, http.MethodPost, "/api/copy", `{"html":"<code>foo</code>"}`)
	assert.Equal(t, rec.Code, http.StatusOK)

	payload := decode[notelens.CopyPayload](t, rec)
	assert.Equal(t, payload, notelens.CopyPayload{Plain: "`foo`", HTML: "<code>foo</code>"})

	last, ok := cb.Last()
	assert.True(t, ok)
	assert.Equal(t, last, payload)
}

func TestHandleConvert(t *testing.T) {
	t.Parallel()
	_, h := setupServer(t)

	rec := serve(t, h, http.MethodPost, "/api/convert", "<p>Hello <strong>world</strong></p>")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, rec.Body.String(), "Hello **world**")
}

func TestWithClipboard_Nil(t *testing.T) {
	t.Parallel()
	_, err := NewServer(context.Background(), testDataDir, WithClipboard(nil))
	assert.NotNil(t, err)
}

func TestRunConvert(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	err := runConvert(strings.NewReader(`<pre><code class="language-go">x := 1</code></pre>`), &out, false)
	assert.Nil(t, err)
	assert.Equal(t, out.String(), "```go\nx := 1\n```\n")
}

func TestConvertClipboard(t *testing.T) {
	t.Parallel()
	cb := &clipboard.Memory{}
	assert.Nil(t, cb.Write(notelens.CopyPayload{Plain: "<p><em>copied</em></p>"}))

	assert.Nil(t, convertClipboard(cb))

	last, _ := cb.Last()
	assert.Equal(t, last, notelens.CopyPayload{Plain: "_copied_", HTML: "<p><em>copied</em></p>"})
}

func TestGetDataDirectory(t *testing.T) {
	t.Setenv("NOTELENS_DATA_DIR", "/env/notes")

	dir, err := getDataDirectory("/flag/notes")
	assert.Nil(t, err)
	assert.Equal(t, dir, "/flag/notes")

	dir, err = getDataDirectory("")
	assert.Nil(t, err)
	assert.Equal(t, dir, "/env/notes")

	t.Setenv("NOTELENS_DATA_DIR", "")
	t.Setenv("XDG_DATA_HOME", "/xdg")
	dir, err = getDataDirectory("")
	assert.Nil(t, err)
	assert.Equal(t, dir, filepath.Join("/xdg", "notelens"))
}

func TestGetLogConfig(t *testing.T) {
	t.Setenv("NOTELENS_LOG_FILE", "")
	assert.Equal(t, getLogConfig("", "/data").File, filepath.Join("/data", "service", "notelens.log"))

	t.Setenv("NOTELENS_LOG_FILE", "/env.log")
	assert.Equal(t, getLogConfig("", "/data").File, "/env.log")
	assert.Equal(t, getLogConfig("/flag.log", "/data").File, "/flag.log")
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	file := filepath.Join(t.TempDir(), "service", "notelens.log")
	var console bytes.Buffer
	rotator, err := SetupLogging(LogConfig{File: file, Console: &console})
	assert.Nil(t, err)

	log.Print("indexed 2 documents")
	assert.Nil(t, rotator.Close())

	written, err := os.ReadFile(file)
	assert.Nil(t, err)
	assert.True(t, strings.Contains(string(written), "indexed 2 documents"))
	assert.True(t, strings.Contains(console.String(), "indexed 2 documents"))
}
