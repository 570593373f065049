package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	relaxerrors "github.com/relaxui/relax/internal/errors"
	"github.com/relaxui/relax/pkg/host/memhost"
	"github.com/relaxui/relax/pkg/metrics"
	"github.com/relaxui/relax/pkg/scheduler"
)

// maxPayloadBytes limits event payload bodies.
const maxPayloadBytes = 1 << 20

// DefaultMutationLimit is how many mutations the document log keeps while
// the inspector serves it.
const DefaultMutationLimit = 10000

// Config configures a Server.
type Config struct {
	// Document is the host document to observe. Required.
	Document *memhost.Document

	// Container is the element the application is mounted into. Required.
	Container *memhost.Element

	// Loop owns the document. Every read and write of the tree runs on it.
	// Required.
	Loop *scheduler.Loop

	// Logger is the structured logger. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Metrics, when set, counts host mutations and is served at /metrics.
	Metrics *metrics.Recorder

	// ShutdownTimeout bounds graceful shutdown. Default: 5s.
	ShutdownTimeout time.Duration

	// MutationLimit caps the document's mutation log, evicting the oldest
	// entries. Default: DefaultMutationLimit.
	MutationLimit int
}

// Server is the inspector HTTP server.
type Server struct {
	config  Config
	logger  *slog.Logger
	hub     *Hub
	router  chi.Router
	observe func()
}

// New creates a Server and starts observing the document.
func New(cfg Config) (*Server, error) {
	switch {
	case cfg.Document == nil:
		return nil, relaxerrors.New(relaxerrors.CodeInvalidArgument).WithDetail("inspect: nil document")
	case cfg.Container == nil:
		return nil, relaxerrors.New(relaxerrors.CodeInvalidArgument).WithDetail("inspect: nil container")
	case cfg.Loop == nil:
		return nil, relaxerrors.New(relaxerrors.CodeInvalidArgument).WithDetail("inspect: nil loop")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.MutationLimit <= 0 {
		cfg.MutationLimit = DefaultMutationLimit
	}
	cfg.Document.SetMutationLimit(cfg.MutationLimit)

	s := &Server{
		config: cfg,
		logger: cfg.Logger,
		hub:    NewHub(cfg.Logger),
	}
	s.observe = cfg.Document.Observe(s.onMutation)
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/", s.handlePage)
	r.Get("/snapshot", s.handleSnapshot)
	r.Get("/tree", s.handleTree)
	r.Get("/mutations", s.handleMutations)
	r.Post("/nodes/{id}/events/{event}", s.handleEvent)
	r.Get("/ws", s.handleStream)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if !s.config.Loop.Running() {
			http.Error(w, "engine loop stopped", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if s.config.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.config.Metrics.Handler())
	}
	return r
}

// Handler returns the inspector's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the stream hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("inspect: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("inspector listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("inspect: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops observing the document and disconnects stream clients.
func (s *Server) Close() {
	s.observe()
	s.hub.Close()
}

// onMutation runs on the loop goroutine, inside the engine call that caused
// the mutation.
func (s *Server) onMutation(m memhost.Mutation) {
	s.config.Metrics.HostMutation(string(m.Op))
	s.hub.Broadcast(Message{Type: MessageMutation, Mutation: &m})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	html, ok := s.render(w, r, memhost.RenderConfig{IncludeIDs: true})
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderPage(w, html); err != nil {
		s.logger.Error("render inspector page", "error", err)
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	html, ok := s.render(w, r, memhost.RenderConfig{})
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	html, ok := s.render(w, r, memhost.RenderConfig{Pretty: true, IncludeIDs: true})
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

// mutationFilters are the values of the kind query parameter.
var mutationFilters = map[string]func(memhost.Mutation) bool{
	"structural": memhost.Mutation.IsStructural,
	"creation":   memhost.Mutation.IsCreation,
}

func (s *Server) handleMutations(w http.ResponseWriter, r *http.Request) {
	keep := func(memhost.Mutation) bool { return true }
	if kind := r.URL.Query().Get("kind"); kind != "" {
		f, ok := mutationFilters[kind]
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown mutation kind %q", kind))
			return
		}
		keep = f
	}

	mutations := s.config.Document.Mutations()
	if r.URL.Query().Has("reset") {
		s.config.Document.ResetMutations()
	}
	w.Header().Set("X-Mutations-Dropped", strconv.FormatUint(s.config.Document.Dropped(), 10))
	out := make([]memhost.Mutation, 0, len(mutations))
	for _, m := range mutations {
		if keep(m) {
			out = append(out, m)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// EventResult is the response of the event endpoint.
type EventResult struct {
	Node     uint64 `json:"node"`
	Event    string `json:"event"`
	Handled  int    `json:"handled"`
	Duration string `json:"duration"`
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid node id")
		return
	}
	event := chi.URLParam(r, "event")

	var payload any
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "payload is not JSON")
			return
		}
	}

	found := false
	handled := 0
	start := time.Now()
	err = s.config.Loop.Do(r.Context(), func() {
		n, ok := s.config.Document.Lookup(id)
		if !ok {
			return
		}
		el, ok := n.(*memhost.Element)
		if !ok {
			return
		}
		found = true
		handled = el.Dispatch(event, payload)
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "engine loop unavailable")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no element %d", id))
		return
	}

	s.logger.Debug("event dispatched", "node", id, "event", event, "handled", handled)
	writeJSON(w, http.StatusOK, EventResult{
		Node:     id,
		Event:    event,
		Handled:  handled,
		Duration: time.Since(start).String(),
	})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	var html string
	err := s.config.Loop.Do(r.Context(), func() {
		html = memhost.NewRenderer(memhost.RenderConfig{IncludeIDs: true}).InnerHTML(s.config.Container)
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "engine loop unavailable")
		return
	}
	s.hub.Serve(w, r, &Message{Type: MessageSnapshot, HTML: html})
}

// render serializes the container on the loop. On failure it writes the
// error response and reports false.
func (s *Server) render(w http.ResponseWriter, r *http.Request, cfg memhost.RenderConfig) (string, bool) {
	var html string
	err := s.config.Loop.Do(r.Context(), func() {
		html = memhost.NewRenderer(cfg).InnerHTML(s.config.Container)
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "engine loop unavailable")
		return "", false
	}
	return html, true
}

// =============================================================================
// Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requestLogger logs each request at debug level with its status and
// duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("inspector request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
