// Package web hosts the click-to-calibrate page. One calibration session is
// shared by all requests; only one websocket client may drive it at a time.
package web

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/julianstephens/logsheet/internal/calibration"
	"github.com/julianstephens/logsheet/internal/logger"
	"github.com/julianstephens/logsheet/internal/models"
	"github.com/julianstephens/logsheet/internal/render"
	"github.com/julianstephens/logsheet/internal/storage"
)

//go:embed static/index.html
var indexHTML []byte

var ErrClientConnected = errors.New("a calibration client is already connected")

// Server serves one calibration session.
type Server struct {
	mu      sync.Mutex
	session *calibration.Session
	asset   *render.Asset
	store   storage.CalibrationStore
	client  bool

	saved    chan models.CalibrationConfig
	upgrader websocket.Upgrader
}

// New creates a server for a template of the given size.
func New(asset *render.Asset, store storage.CalibrationStore, size models.ImageSize) *Server {
	return &Server{
		session: calibration.NewSession(size),
		asset:   asset,
		store:   store,
		saved:   make(chan models.CalibrationConfig, 1),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // served on localhost only
			},
		},
	}
}

// Saved delivers each configuration stored through the page.
func (s *Server) Saved() <-chan models.CalibrationConfig {
	return s.saved
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /template.png", s.handleTemplate)
	mux.HandleFunc("GET /overlay.png", s.handleOverlay)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/click", s.handleClick)
	mux.HandleFunc("POST /api/undo", s.handleUndo)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("POST /api/save", s.handleSave)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("calibration page listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	img, err := s.asset.Wait(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		s.mu.Lock()
		size := s.session.ImageSize()
		s.mu.Unlock()
		img = render.BlankSheet(size).Image()
	}
	writePNG(w, img)
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	// draw against a snapshot so a slow render does not hold the lock
	s.mu.Lock()
	snapshot := *s.session
	s.mu.Unlock()

	img, err := calibration.RenderOverlay(r.Context(), s.asset, &snapshot)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writePNG(w, img)
}

func writePNG(w http.ResponseWriter, img image.Image) {
	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, img); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("json encode error", "error", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state())
}

// ClickRequest is a click in template pixel coordinates.
type ClickRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid click: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.click(req.X, req.Y))
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.undo())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reset())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.save()
	switch {
	case errors.Is(err, calibration.ErrIncomplete), errors.Is(err, calibration.ErrInvalidGrid):
		http.Error(w, err.Error(), http.StatusConflict)
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, cfg)
	}
}
