// Package server provides the HTTP interface of tiltcam: health, a live MJPEG
// stream of annotated frames, a websocket feed of face poses and the
// recorded sessions API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/tiltcam/internal/log"
	"github.com/ayusman/tiltcam/internal/pose"
	"github.com/ayusman/tiltcam/internal/server/api"
	"github.com/ayusman/tiltcam/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Logger    *logrus.Logger
}

// Server represents the HTTP server. It also observes the frame pipeline
// and feeds the stream and faces endpoints from it.
type Server struct {
	config Config
	log    *logrus.Logger
	mux    *http.ServeMux
	start  time.Time
	stream *StreamHandler
	faces  *FacesHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = log.Discard()
	}

	s := &Server{
		config: config,
		log:    logger,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		stream: NewStreamHandler(),
		faces:  NewFacesHandler(logger),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/api/stream", s.stream)
	s.mux.Handle("/api/faces", s.faces)

	// Register sessions API handler if Store is configured
	if s.config.Store != nil {
		sessions := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessions)
		s.mux.Handle("/api/sessions/", sessions)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// OnFrame publishes an annotated frame and its faces to connected clients.
func (s *Server) OnFrame(index int, annotated *gocv.Mat, faces []pose.Face) {
	if err := s.stream.Publish(annotated); err != nil {
		s.log.WithError(err).WithField("frame", index).Warn("failed to publish frame")
	}
	s.faces.Broadcast(index, faces)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
