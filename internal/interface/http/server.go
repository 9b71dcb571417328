// Package http implements the REST API of the school journal.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/school-journal/journal/config"
	"github.com/school-journal/journal/internal/application/command"
	"github.com/school-journal/journal/internal/application/query"
	"github.com/school-journal/journal/internal/interface/http/handlers"
	"github.com/school-journal/journal/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host - address to bind (default: "0.0.0.0").
	Host string

	// Port - port to listen on (default: 8000).
	Port int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// MaxHeaderBytes - maximum size of request headers.
	MaxHeaderBytes int

	// MaxBodyBytes - maximum size of request bodies (0 = unlimited).
	MaxBodyBytes int64

	// AllowedOrigins - allowed origins for CORS. Empty disables CORS.
	AllowedOrigins []string

	// EnableMetrics - expose Prometheus metrics on /metrics.
	EnableMetrics bool
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8000,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
		MaxBodyBytes:   1 << 20,
		AllowedOrigins: []string{"*"},
		EnableMetrics:  true,
	}
}

// ConfigFrom builds the server configuration from the application config.
func ConfigFrom(cfg *config.Config) Config {
	c := DefaultConfig()
	c.Host = cfg.HTTP.Host
	c.Port = cfg.HTTP.Port
	c.ReadTimeout = cfg.HTTP.ReadTimeout
	c.WriteTimeout = cfg.HTTP.WriteTimeout
	c.IdleTimeout = cfg.HTTP.IdleTimeout
	c.MaxBodyBytes = cfg.HTTP.MaxBodyBytes
	c.AllowedOrigins = cfg.HTTP.CORSOrigins
	c.EnableMetrics = cfg.Observability.MetricsEnabled
	return c
}

// Address returns the server address string.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies contains all dependencies required by HTTP handlers.
type Dependencies struct {
	// Command Handlers (CQRS Write Side)
	RegisterTeacher *command.RegisterTeacherHandler
	Login           *command.LoginHandler
	Students        *command.StudentHandler
	Subjects        *command.SubjectHandler
	Grades          *command.GradeHandler

	// Query Handlers (CQRS Read Side)
	CurrentTeacher *query.GetCurrentTeacherHandler
	Journal        *query.JournalReader
	StudentStats   *query.GetStudentStatsHandler
	ExportGrades   *query.ExportGradesHandler

	// Features toggles optional behavior at request time.
	Features *config.FeatureFlags

	// HealthChecker backs /health and /ready. Optional.
	HealthChecker handlers.HealthChecker

	Logger  *slog.Logger
	Name    string
	Version string
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server represents the HTTP server.
type Server struct {
	config     Config
	deps       Dependencies
	httpServer *http.Server
	router     *http.ServeMux
	handler    http.Handler
	log        *slog.Logger
	metrics    *Metrics

	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// NewServer creates a new HTTP server with the given configuration and dependencies.
func NewServer(cfg Config, deps Dependencies) *Server {
	s := &Server{
		config: cfg,
		deps:   deps,
		router: http.NewServeMux(),
		log:    deps.Logger,
	}

	if s.log == nil {
		s.log = logger.Discard()
	}
	s.log = s.log.With(logger.Component("http"))

	if s.deps.Name == "" {
		s.deps.Name = "school-journal"
	}

	if cfg.EnableMetrics {
		s.metrics = NewMetrics("journal")
	}

	s.setupRoutes()
	s.handler = s.buildMiddlewareChain(s.router)

	s.httpServer = &http.Server{
		Addr:           cfg.Address(),
		Handler:        s.handler,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

// handle registers h for the pattern with and without a trailing slash.
// path must not end in "/".
func (s *Server) handle(method, path string, h http.HandlerFunc) {
	s.router.HandleFunc(method+" "+path, h)
	s.router.HandleFunc(method+" "+path+"/{$}", h)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Health & Status Endpoints
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /{$}", s.handleRoot)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /live", s.handleLive)

	if s.metrics != nil {
		s.router.Handle("GET /metrics", s.metrics.Handler())
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Authentication
	// ─────────────────────────────────────────────────────────────────────────
	s.handle("POST", "/register", noCache(s.handleRegister))
	s.handle("POST", "/token", noCache(s.handleToken))
	s.handle("GET", "/teachers/me", noCache(s.requireTeacher(s.handleCurrentTeacher)))
	s.handle("POST", "/teachers/register", s.whenEnabled(config.FeatureAPITeacherRoutes, noCache(s.handleRegister)))
	s.handle("POST", "/teachers/login", s.whenEnabled(config.FeatureAPITeacherRoutes, noCache(s.handleToken)))

	// ─────────────────────────────────────────────────────────────────────────
	// Students
	// ─────────────────────────────────────────────────────────────────────────
	s.handle("POST", "/students", s.protect(s.handleCreateStudent))
	s.handle("GET", "/students", s.protect(s.handleListStudents))
	s.handle("GET", "/students/{id}", s.protect(s.handleGetStudent))
	s.handle("PUT", "/students/{id}", s.protect(s.handleUpdateStudent))
	s.handle("DELETE", "/students/{id}", s.protect(s.handleDeleteStudent))
	s.handle("GET", "/students/{id}/stats", s.protect(s.handleStudentStats))

	// ─────────────────────────────────────────────────────────────────────────
	// Subjects
	// ─────────────────────────────────────────────────────────────────────────
	s.handle("POST", "/subjects", s.protect(s.handleCreateSubject))
	s.handle("GET", "/subjects", s.protect(s.handleListSubjects))
	s.handle("GET", "/subjects/{id}", s.protect(s.handleGetSubject))
	s.handle("PUT", "/subjects/{id}", s.protect(s.handleUpdateSubject))
	s.handle("DELETE", "/subjects/{id}", s.protect(s.handleDeleteSubject))

	// ─────────────────────────────────────────────────────────────────────────
	// Grades
	// ─────────────────────────────────────────────────────────────────────────
	s.handle("POST", "/grades", s.protect(s.handleCreateGrade))
	s.handle("GET", "/grades", s.protect(s.handleListGrades))
	s.handle("GET", "/grades/export", s.whenEnabled(config.FeatureGradesExport, s.protect(s.handleExportGrades)))
	s.handle("GET", "/grades/{id}", s.protect(s.handleGetGrade))
	s.handle("PUT", "/grades/{id}", s.protect(s.handleUpdateGrade))
	s.handle("DELETE", "/grades/{id}", s.protect(s.handleDeleteGrade))
}

// whenEnabled answers 404 while the feature flag is off.
func (s *Server) whenEnabled(feature string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.deps.Features.IsEnabled(feature) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Not Found")
			return
		}
		next(w, r)
	}
}

func noCache(next http.HandlerFunc) http.HandlerFunc {
	return handlers.NoCacheMiddleware(next).ServeHTTP
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE CHAIN
// ══════════════════════════════════════════════════════════════════════════════

// buildMiddlewareChain wraps the router with all middleware, outermost first.
func (s *Server) buildMiddlewareChain(router http.Handler) http.Handler {
	chain := []handlers.MiddlewareFunc{
		s.requestIDMiddleware,
		s.observeMiddleware,
		s.recoveryMiddleware,
	}
	if len(s.config.AllowedOrigins) > 0 {
		chain = append(chain, s.corsMiddleware)
	}
	chain = append(chain,
		handlers.SecurityHeadersMiddleware,
		handlers.RequestSizeLimitMiddleware(s.config.MaxBodyBytes),
	)

	return handlers.ChainHandler(captureRoute(router), chain...)
}

// requestIDMiddleware propagates or generates X-Request-ID and attaches a
// request-scoped logger to the context.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := logger.WithContext(r.Context(), s.log.With(logger.RequestID(requestID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// observeMiddleware writes the access log and records metrics.
func (s *Server) observeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		if s.metrics != nil {
			s.metrics.begin()
			// Deferred: an aborted handler re-panics past this middleware.
			defer s.metrics.end()
		}

		next.ServeHTTP(rw, r)

		elapsed := time.Since(start)
		route := rw.route
		if route == "" {
			route = "unmatched"
		}

		if s.metrics != nil {
			s.metrics.observe(r.Method, route, rw.statusCode, elapsed)
		}

		logger.FromContext(r.Context()).Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("route", route),
			slog.Int("status", rw.statusCode),
			logger.Latency(elapsed),
			slog.String("ip", clientIP(r)),
		)
	})
}

// recoveryMiddleware recovers from panics and returns 500.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.FromContext(r.Context()).Error("panic recovered",
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
					slog.String("path", r.URL.Path),
				)
				writeJSONError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware adds CORS headers.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	allowAll := slices.Contains(s.config.AllowedOrigins, "*")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && (allowAll || slices.Contains(s.config.AllowedOrigins, origin)) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")
			w.Header().Set("Access-Control-Max-Age", "86400")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// captureRoute records the matched ServeMux pattern on the response writer.
// It must wrap the mux directly: the mux sets r.Pattern on the request it receives.
func captureRoute(mux http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)
		if rw, ok := w.(*responseWriter); ok {
			rw.route = r.Pattern
		}
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.log.Info("starting HTTP server", slog.String("address", s.config.Address()))

	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Uptime returns the server uptime.
func (s *Server) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startedAt)
}

// Address returns the server address.
func (s *Server) Address() string {
	return s.config.Address()
}
