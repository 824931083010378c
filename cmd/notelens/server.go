package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickward/notelens"
	"github.com/patrickward/notelens/internal/clipboard"
	"github.com/patrickward/notelens/internal/convert"
	"github.com/patrickward/notelens/internal/rendering"
)

const linkIndexRefresh = 5 * time.Minute

// Server holds the application state and configuration
type Server struct {
	docs             *notelens.DirectoryProvider
	renderer         *rendering.MarkdownRenderer
	converter        *convert.Converter
	clipboard        notelens.Clipboard
	backgroundRunner *notelens.BackgroundRunner
	httpServer       *http.Server
}

// ServerOption for configuring the server with functional options pattern
type ServerOption func(*Server) error

// NewServer initializes the server with the given data directory
func NewServer(ctx context.Context, dataDir string, opts ...ServerOption) (*Server, error) {
	docs, err := notelens.NewDirectoryProvider(dataDir)
	if err != nil {
		return nil, err
	}

	s := &Server{
		docs:             docs,
		renderer:         rendering.NewMarkdownRenderer(rendering.WithLinkResolver(docs)),
		converter:        convert.Default,
		clipboard:        &clipboard.Memory{},
		backgroundRunner: notelens.NewBackgroundRunner(ctx),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// WithClipboard sets the clipboard that copy requests write to.
func WithClipboard(c notelens.Clipboard) ServerOption {
	return func(s *Server) error {
		if c == nil {
			return errors.New("clipboard must not be nil")
		}
		s.clipboard = c
		return nil
	}
}

func (s *Server) setupBackgroundTasks() {
	s.backgroundRunner.Every("link-index-refresh", linkIndexRefresh, func(ctx context.Context) error {
		return s.docs.Refresh()
	})
}

// newSession creates a per-request session over the data directory.
func (s *Server) newSession() *notelens.Session {
	return notelens.NewSession(s.docs,
		notelens.WithPreviewer(s.renderer),
		notelens.WithClipboard(s.clipboard),
		notelens.WithConverter(s.converter),
	)
}

// Start starts the server and all background tasks
func (s *Server) Start(addr string, port int) error {
	serverAddr := fmt.Sprintf("%s:%d", addr, port)

	s.httpServer = &http.Server{
		Addr:         serverAddr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  time.Minute,
		Handler:      s.setupRoutes(),
	}

	s.setupBackgroundTasks()

	// Channel to receive OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", serverAddr)
		log.Printf("Data directory: %s", s.docs.Dir())
		serverErrors <- s.httpServer.ListenAndServe()
	}()

	// Wait for either termination signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not start server: %w", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal %v, initiating shutdown", sig)
	}

	return s.Shutdown()
}

// Shutdown gracefully shuts down the server and background tasks
func (s *Server) Shutdown() error {
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during HTTP server shutdown: %v", err)
		}
	}

	s.backgroundRunner.Shutdown()

	log.Println("Server shutdown complete")
	return nil
}
