package main

import (
	"net/http"
)

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/documents", s.handleDocuments)
	mux.HandleFunc("GET /api/search/{id...}", s.handleSearch)

	// Clipboard
	mux.HandleFunc("POST /api/paste", s.handlePaste)
	mux.HandleFunc("POST /api/copy", s.handleCopy)
	mux.HandleFunc("POST /api/convert", s.handleConvert)

	return mux
}
