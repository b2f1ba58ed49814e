package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/wordsearch/wordsearch/internal/config"
	"github.com/wordsearch/wordsearch/internal/protocol"
)

const wsWriteTimeout = 5 * time.Second

type Server struct {
	cfg    config.MockConfig
	logger *log.Logger
}

// NewServer creates a mock server. A nil logger discards output.
func NewServer(cfg config.MockConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{cfg: cfg, logger: logger}
}

func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/files", s.handleFiles)
	mux.HandleFunc("GET /api/search/{keyword}", s.handleSSE)
	mux.HandleFunc("GET /ws/search/{keyword}", s.handleWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

// Handler returns the routes wrapped with CORS headers so browser clients
// served from another origin can use the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	return corsHeaders(mux)
}

type fileEntry struct {
	Name          string `json:"name"`
	SizeFormatted string `json:"sizeFormatted"`
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	files := make([]fileEntry, 0, len(s.cfg.Files))
	for _, f := range s.cfg.Files {
		files = append(files, fileEntry{Name: f.Name, SizeFormatted: FormatSize(f.Size)})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"files": files})
}

// script validates the request and returns the events for its keyword.
func (s *Server) script(w http.ResponseWriter, r *http.Request) (string, []protocol.Event, bool) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", nil, false
	}
	keyword := strings.TrimSpace(r.PathValue("keyword"))
	if keyword == "" {
		http.Error(w, "keyword is required", http.StatusBadRequest)
		return "", nil, false
	}
	return keyword, Script(keyword, s.cfg.Files, s.cfg.IsFailKeyword(keyword)), true
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	keyword, events, ok := s.script(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	s.logger.Info("sse search started", "keyword", keyword, "remote", r.RemoteAddr)
	err := s.emit(r.Context(), events, func(data []byte) error {
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	s.logDone("sse", keyword, err)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	keyword, events, ok := s.script(w, r)
	if !ok {
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade error", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The stream is one-way; reading only notices the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.logger.Info("ws search started", "keyword", keyword, "remote", r.RemoteAddr)
	err = s.emit(ctx, events, func(data []byte) error {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return conn.WriteMessage(websocket.TextMessage, data)
	})
	if err == nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "search finished"),
			time.Now().Add(wsWriteTimeout))
	}
	s.logDone("ws", keyword, err)
}

// emit sends events one tick apart. The first event goes out immediately.
func (s *Server) emit(ctx context.Context, events []protocol.Event, send func([]byte) error) error {
	tick := s.cfg.TickInterval
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for i, ev := range events {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		data, err := protocol.Encode(ev)
		if err != nil {
			return err
		}
		if err := send(data); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) logDone(transport, keyword string, err error) {
	switch {
	case err == nil:
		s.logger.Info("search stream finished", "transport", transport, "keyword", keyword)
	case errors.Is(err, context.Canceled):
		s.logger.Info("client left search stream", "transport", transport, "keyword", keyword)
	default:
		s.logger.Warn("search stream aborted", "transport", transport, "keyword", keyword, "err", err)
	}
}

func (s *Server) authorize(r *http.Request) bool {
	if s.cfg.Token == "" {
		return true
	}
	if r.URL.Query().Get("token") == s.cfg.Token {
		return true
	}
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.cfg.Token
}

// checkOrigin accepts same-host and loopback origins.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	if parsed.Host == r.Host {
		return true
	}
	switch parsed.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

func corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully. Request contexts derive from ctx so open streams end too.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mock search server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
