package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/patrickward/notelens"
	"github.com/patrickward/notelens/internal/rendering"
	"github.com/patrickward/notelens/internal/search"
)

type searchResponse struct {
	Document       notelens.DocumentInfo `json:"document"`
	Status         notelens.Status       `json:"status"`
	View           string                `json:"view"`
	HTML           string                `json:"html"`
	SectionHeaders []string              `json:"sectionHeaders,omitempty"`
	PreviewMatches int                   `json:"previewMatches"`
}

func (s *Server) handleDocuments(w http.ResponseWriter, _ *http.Request) {
	docs, err := s.docs.List()
	if err != nil {
		log.Printf("Error listing documents: %v", err)
		s.respondWithJSONError(w, "could not list documents", http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []notelens.DocumentInfo{}
	}
	s.respondWithJSON(w, docs)
}

// handleSearch renders a document in the raw or preview view with the
// matches of the query highlighted. The target parameter selects the active
// match, wrapping around the match count.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(r.PathValue("id"), ".md")
	params := r.URL.Query()

	view := params.Get("view")
	if view == "" {
		view = "preview"
	}
	if view != "raw" && view != "preview" {
		s.respondWithJSONError(w, "view must be raw or preview", http.StatusBadRequest)
		return
	}

	target := 0
	if t := params.Get("target"); t != "" {
		n, err := strconv.Atoi(t)
		if err != nil {
			s.respondWithJSONError(w, "target must be an integer", http.StatusBadRequest)
			return
		}
		target = n
	}

	session := s.newSession()
	if err := session.OpenDocument(id); err != nil {
		if errors.Is(err, notelens.ErrDocumentNotFound) {
			s.respondWithJSONError(w, "document not found", http.StatusNotFound)
			return
		}
		log.Printf("Error opening document %s: %v", id, err)
		s.respondWithJSONError(w, "could not open document", http.StatusInternalServerError)
		return
	}

	session.OnQueryChanged(search.Query{
		Text:          params.Get("q"),
		CaseSensitive: parseBool(params.Get("case")),
		WholeWord:     parseBool(params.Get("word")),
	})
	moveTo(session, target)

	doc, _ := session.Document()
	status := session.Status()
	resp := searchResponse{
		Document: notelens.DocumentInfo{ID: doc.ID, Title: doc.Title},
		Status:   status,
		View:     view,
	}

	switch view {
	case "raw":
		resp.HTML = string(rendering.RenderSegments(session.RawView(), status.Current))
	default:
		tree, err := session.PreviewView()
		if err != nil {
			log.Printf("Error rendering preview of %s: %v", id, err)
			s.respondWithJSONError(w, "could not render preview", http.StatusInternalServerError)
			return
		}
		out, err := rendering.RenderTree(tree, status.Current)
		if err != nil {
			log.Printf("Error rendering preview of %s: %v", id, err)
			s.respondWithJSONError(w, "could not render preview", http.StatusInternalServerError)
			return
		}
		resp.HTML = out
		resp.PreviewMatches = len(search.Ordinals(tree))

		rendered := s.renderer.Render(doc.Content)
		resp.SectionHeaders = rendered.SectionHeaders
		if rendered.Title != "" {
			resp.Document.Title = rendered.Title
		}
	}

	s.respondWithJSON(w, resp)
}

// moveTo makes the match at target active. Negative targets count back from
// the last match.
func moveTo(session *notelens.Session, target int) {
	total := session.Status().Total
	if total == 0 {
		return
	}

	steps := ((target % total) + total) % total
	for range steps {
		session.OnNavigate(notelens.Forward)
	}
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
