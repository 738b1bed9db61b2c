// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the translator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/pdiddy/translation-engine/internal/library"
	"github.com/pdiddy/translation-engine/internal/logging"
	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/internal/translator"
	"github.com/pdiddy/translation-engine/pkg/types"
)

// Header names. Library writes are conditional on the version the client
// last saw.
const (
	HeaderTraceID             = "X-Trace-Id"
	HeaderItemKey             = "X-Item-Key"
	HeaderItemVersion         = "Last-Modified-Version"
	HeaderIfUnmodifiedVersion = "If-Unmodified-Since-Version"
)

// Translator is the part of *translator.Translator the server uses.
type Translator interface {
	Translate(ctx context.Context, in translator.Input) (*types.TranslationResult, error)
}

// Config controls the HTTP server.
type Config struct {
	Addr            string        `json:"addr" yaml:"addr"`
	RateLimit       float64       `json:"rate_limit" yaml:"rate_limit"`
	Burst           int           `json:"burst" yaml:"burst"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `json:"max_body_bytes" yaml:"max_body_bytes"`
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 2 * time.Minute
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 15 * time.Second
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = 1 << 20
	}
	return c
}

// Server routes HTTP requests to the translator, the provider registry and
// the optional item library.
type Server struct {
	cfg        Config
	translator Translator
	registry   *provider.Registry
	library    *library.Store
	gatherer   prometheus.Gatherer
	limiter    *IPRateLimiter
	requests   *prometheus.CounterVec
	log        *slog.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithLibrary enables the /items endpoints and ?save=true on /translate.
func WithLibrary(l *library.Store) Option {
	return func(s *Server) { s.library = l }
}

// WithRegistry serves /providers from r.
func WithRegistry(r *provider.Registry) Option {
	return func(s *Server) { s.registry = r }
}

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New builds a server. Its request counter is registered on reg, and
// /metrics serves reg.
func New(cfg Config, t Translator, reg *prometheus.Registry, opts ...Option) *Server {
	cfg = cfg.withDefaults()
	s := &Server{
		cfg:        cfg,
		translator: t,
		gatherer:   reg,
		log:        logging.For("server"),
		requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests labelled by route and status.",
		}, []string{"route", "status"}),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = NewIPRateLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.trace)
	r.Use(s.count)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/providers", s.handleProviders)

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware)
		}
		r.Post("/translate", s.handleTranslate)
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/", s.handleListItems)
		r.Get("/{key}", s.handleGetItem)
		r.Put("/{key}", s.handleUpdateItem)
		r.Delete("/{key}", s.handleDeleteItem)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  2 * s.cfg.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server.listen", "addr", s.cfg.Addr)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	srv.SetKeepAlivesEnabled(false)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Error("server.shutdown_failed", "err", err)
		return err
	}
	s.log.Info("server.stopped")
	return nil
}

// --- middleware ---

type traceKey struct{}

func (s *Server) trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderTraceID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderTraceID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), traceKey{}, id)))
	})
}

func traceID(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}

// --- responses ---

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("server.encode_failed", "err", err)
	}
}

// StatusFor maps a pipeline error to an HTTP status.
func StatusFor(err error) int {
	switch types.ErrorCodeOf(err) {
	case types.CodeConfiguration:
		return http.StatusBadRequest
	case types.CodeContentExtraction, types.CodePDFParse:
		return http.StatusUnprocessableEntity
	case types.CodeURLFetch:
		return http.StatusBadGateway
	}
	switch {
	case errors.Is(err, library.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, library.ErrVersionConflict):
		return http.StatusPreconditionFailed
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	code := string(types.ErrorCodeOf(err))
	if code == "" {
		code = http.StatusText(status)
	}
	if status >= 500 {
		s.log.Error("server.request_failed", "trace_id", traceID(r.Context()), "path", r.URL.Path, "err", err)
	} else {
		s.log.Info("server.request_rejected", "trace_id", traceID(r.Context()), "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Code: code})
}
