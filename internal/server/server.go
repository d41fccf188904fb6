// Package server exposes the wizard over HTTP: pages are served and submitted
// on /lotse/step/{step}, field states for in-progress answers are evaluated
// on /lotse/visibility/{step}. Answers live in a session keyed by a cookie.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	golotse "github.com/goliatone/go-lotse"
	"github.com/goliatone/go-lotse/pkg/i18n"
	"github.com/goliatone/go-lotse/pkg/model"
	"github.com/goliatone/go-lotse/pkg/openapi"
	"github.com/goliatone/go-lotse/pkg/orchestrator"
	"github.com/goliatone/go-lotse/pkg/render"
)

const (
	// SessionCookie names the cookie carrying the session id.
	SessionCookie = "lotse_session"
	// RequestIDHeader carries the request id in and out.
	RequestIDHeader = "X-Request-ID"

	tracerName = "github.com/goliatone/go-lotse/internal/server"
)

// Option configures the server.
type Option func(*Server)

// WithOrchestrator injects the orchestrator pages are built with. Its
// registry should hold a renderer for text/html.
func WithOrchestrator(o *orchestrator.Orchestrator) Option {
	return func(s *Server) {
		s.orchestrator = o
	}
}

// WithTranslator sets the catalogs pages are translated with.
func WithTranslator(bundle *i18n.Bundle) Option {
	return func(s *Server) {
		s.translator = bundle
	}
}

// WithLocale sets the locale used when the request does not ask for one.
func WithLocale(locale string) Option {
	return func(s *Server) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithSessionStore replaces the in-memory session store.
func WithSessionStore(store SessionStore) Option {
	return func(s *Server) {
		if store != nil {
			s.sessions = store
		}
	}
}

// WithSessionTTL sets how long an idle session is kept. Showing or submitting
// a step starts the period again.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSecureCookies marks the session cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) {
		s.secure = secure
	}
}

// WithTimeouts sets the read, write and shutdown timeouts of ListenAndServe.
func WithTimeouts(read, write, shutdown time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
		s.shutdownTimeout = shutdown
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer overrides the tracer used for request spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithOpenAPIInfo sets the metadata of the served OpenAPI document.
func WithOpenAPIInfo(info openapi.Info) Option {
	return func(s *Server) {
		s.info = info
	}
}

// Server serves the wizard.
type Server struct {
	orchestrator *orchestrator.Orchestrator
	translator   *i18n.Bundle
	sessions     SessionStore
	logger       *zap.Logger
	tracer       trace.Tracer
	info         openapi.Info
	locale       string
	ttl          time.Duration
	secure       bool
	now          func() time.Time

	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration

	openapiDoc []byte
}

// New constructs a Server. Without options it serves the embedded wizard
// with HTML and JSON renderers, the embedded catalogs and in-memory sessions.
func New(options ...Option) (*Server, error) {
	s := &Server{
		logger:          zap.NewNop(),
		locale:          i18n.BaseLocale,
		ttl:             time.Hour,
		now:             time.Now,
		readTimeout:     10 * time.Second,
		writeTimeout:    10 * time.Second,
		shutdownTimeout: 5 * time.Second,
		info:            openapi.Info{Title: "Lotse"},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	if s.sessions == nil {
		s.sessions = NewMemoryStore()
	}
	if s.translator == nil {
		bundle, err := i18n.Default()
		if err != nil {
			return nil, fmt.Errorf("server: catalogs: %w", err)
		}
		s.translator = bundle
	}
	if s.orchestrator == nil {
		registry, err := DefaultRegistry()
		if err != nil {
			return nil, err
		}
		s.orchestrator = orchestrator.New(
			orchestrator.WithRegistry(registry),
			orchestrator.WithLogger(s.logger),
		)
	}
	wizard := s.orchestrator.Wizard()
	if wizard == nil {
		return nil, errors.New("server: orchestrator has no wizard")
	}

	doc, err := openapi.Build(wizard.Graph, s.info)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.openapiDoc, err = json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("server: encode openapi: %w", err)
	}
	return s, nil
}

// DefaultRegistry returns a registry with the HTML renderer as fallback and
// the JSON renderer for clients that ask for application/json.
func DefaultRegistry() (*render.Registry, error) {
	registry, err := golotse.DefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("server: renderers: %w", err)
	}
	return registry, nil
}

// Handler returns the routes wrapped in request logging and tracing.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, model.DefaultAction("start"), http.StatusSeeOther)
	})
	mux.HandleFunc("GET /lotse/step/{step}", s.handleShow)
	mux.HandleFunc("POST /lotse/step/{step}", s.handleSubmit)
	mux.HandleFunc("POST /lotse/visibility/{step}", s.handleVisibility)
	mux.HandleFunc("GET /openapi.json", s.handleOpenAPI)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /lotse/assets/", http.StripPrefix("/lotse/assets/", http.FileServerFS(golotse.AssetsFS())))
	return s.middleware(mux)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       s.readTimeout,
		ReadHeaderTimeout: s.readTimeout,
		WriteTimeout:      s.writeTimeout,
	}

	var wg sync.WaitGroup
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer func() {
		stopSweep()
		wg.Wait()
	}()
	if sweeper, ok := s.sessions.(interface{ Sweep() int }); ok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.sweep(sweepCtx, sweeper)
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("server: listening", zap.String("addr", addr))

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	<-errCh
	s.logger.Info("server: stopped")
	return nil
}

func (s *Server) sweep(ctx context.Context, sweeper interface{ Sweep() int }) {
	interval := s.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sweeper.Sweep(); removed > 0 {
				s.logger.Debug("server: expired sessions removed", zap.Int("count", removed))
			}
		}
	}
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.openapiDoc)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
