// Package web serves the interactive preview page: a PNG raster of the
// classifier and a websocket that classifies pointer positions live.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/Alia5/analogdpad/dpad"
	"github.com/Alia5/analogdpad/internal/store"
	"github.com/Alia5/analogdpad/preview"
)

type Config struct {
	Addr           string `help:"Web preview listen address (empty disables it)" env:"ANALOGDPAD_WEB_ADDR"`
	MaxPreviewSize int    `help:"Largest raster served by /preview.png" default:"1024" env:"ANALOGDPAD_WEB_MAX_PREVIEW_SIZE"`
}

const defaultPreviewSize = 256

type Server struct {
	cfg      Config
	store    store.Store
	logger   *slog.Logger
	index    []byte
	upgrader websocket.Upgrader

	ln         net.Listener
	httpServer *http.Server
}

func New(cfg Config, st store.Store, logger *slog.Logger) (*Server, error) {
	index, err := minifiedIndex()
	if err != nil {
		return nil, err
	}
	if cfg.MaxPreviewSize <= 0 {
		cfg.MaxPreviewSize = 1024
	}
	return &Server{
		cfg:    cfg,
		store:  st,
		logger: logger,
		index:  index,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Allow all origins for local use
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}, nil
}

// Handler returns the HTTP routes of the preview server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /preview.png", s.handlePreview)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

// Start listens on cfg.Addr and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.httpServer = &http.Server{Handler: s.Handler()}
	s.logger.Info("web preview listening", "url", "http://"+ln.Addr().String()+"/")
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("web server stopped", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.cfg.Addr
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(s.index)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	settings, err := store.LoadOrDefault(r.Context(), s.store)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if raw := q.Get("settings"); raw != "" {
		settings = dpad.DefaultSettings()
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			http.Error(w, fmt.Sprintf("invalid settings: %v", err), http.StatusBadRequest)
			return
		}
		if err := settings.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	mode := settings.Mode
	if m := q.Get("mode"); m != "" {
		if mode, err = dpad.ParseMode(m); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	size := defaultPreviewSize
	if v := q.Get("size"); v != "" {
		if size, err = strconv.Atoi(v); err != nil || size < 1 || size > s.cfg.MaxPreviewSize {
			http.Error(w, fmt.Sprintf("size must be within [1, %d]", s.cfg.MaxPreviewSize), http.StatusBadRequest)
			return
		}
	}

	img, err := preview.Render(r.Context(), settings.ConfigFor(mode), preview.Options{Width: size, Height: size})
	if err != nil {
		s.logger.Debug("preview aborted", "error", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := preview.EncodePNG(w, img); err != nil {
		s.logger.Warn("write preview", "error", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	settings, err := store.LoadOrDefault(r.Context(), s.store)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(conn, s.store, settings, s.logger.With("remote", r.RemoteAddr))
	sess.send <- newSettingsMessage(settings)
	go sess.writePump()
	go sess.readPump()
}
