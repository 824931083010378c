package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/patrickward/notelens"
)

const maxFragmentSize = 4 << 20

type pasteRequest struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Caret   int    `json:"caret"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

type pasteResponse struct {
	Content string `json:"content"`
	Caret   int    `json:"caret"`
}

type copyRequest struct {
	HTML string `json:"html"`
}

// draft serves the editor's unsaved buffer as the only document.
type draft struct {
	content string
}

func (d draft) Document(id string) (notelens.Document, error) {
	return notelens.Document{ID: id, Content: d.content}, nil
}

// handlePaste splices a clipboard payload into the editor buffer sent with
// the request and returns the new buffer and caret.
func (s *Server) handlePaste(w http.ResponseWriter, r *http.Request) {
	var req pasteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFragmentSize)).Decode(&req); err != nil {
		s.respondWithJSONError(w, "invalid paste request", http.StatusBadRequest)
		return
	}

	session := notelens.NewSession(draft{content: req.Content}, notelens.WithConverter(s.converter))
	if err := session.OpenDocument(req.ID); err != nil {
		s.respondWithJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	caret, err := session.OnPaste(notelens.PastePayload{HTML: req.HTML, Text: req.Text}, req.Caret)
	if err != nil {
		s.respondWithJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	doc, _ := session.Document()
	s.respondWithJSON(w, pasteResponse{Content: doc.Content, Caret: caret})
}

// handleCopy converts a preview selection into the plain and rich clipboard
// slots.
func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	var req copyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFragmentSize)).Decode(&req); err != nil {
		s.respondWithJSONError(w, "invalid copy request", http.StatusBadRequest)
		return
	}

	payload, err := s.newSession().OnCopy(req.HTML)
	if err != nil {
		log.Printf("Error writing clipboard: %v", err)
		s.respondWithJSONError(w, "could not write clipboard", http.StatusInternalServerError)
		return
	}

	s.respondWithJSON(w, payload)
}

// handleConvert converts the HTML request body to Markdown.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFragmentSize))
	if err != nil {
		s.respondWithJSONError(w, "could not read request body", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = io.WriteString(w, s.converter.Convert(string(body)))
}
