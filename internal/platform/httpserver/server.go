package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	taskcomments "taskboard/contexts/crm/task-comments-service"
	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
	httptransport "taskboard/contexts/crm/task-comments-service/transport/http"
	"taskboard/internal/platform/metrics"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "taskboard/internal/platform/httpserver/docs"
)

const (
	maxBodyBytes           = 1 << 20
	defaultShutdownTimeout = 10 * time.Second
	healthTimeout          = 2 * time.Second
	credentialsMessage     = "could not validate credentials"
)

// HealthCheck reports whether a dependency the API relies on is reachable.
type HealthCheck func(ctx context.Context) error

// Options carries the process-level settings the server needs.
type Options struct {
	Addr            string
	Version         string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	Health          HealthCheck
	Metrics         *metrics.Metrics
}

type Server struct {
	mux     *http.ServeMux
	handler http.Handler
	logger  *slog.Logger
	opts    Options
	tasks   taskcomments.Module
}

func New(tasks taskcomments.Module, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		opts:   opts,
		tasks:  tasks,
	}
	s.registerRoutes()
	s.handler = opts.Metrics.Middleware(corsMiddleware(opts.AllowedOrigins, s.mux))
	return s
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.opts.Addr,
	)

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info("http server stopped",
		"event", "http_server_stopped",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	return <-errCh
}

func (s *Server) registerRoutes() {
	s.mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("GET /metrics", s.opts.Metrics.Handler())
	s.mux.HandleFunc("GET /{$}", s.handleBanner)
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /users", s.handleRegister)
	s.mux.HandleFunc("POST /users/{$}", s.handleRegister)
	s.mux.HandleFunc("POST /auth/login", s.handleLogin)
	s.mux.HandleFunc("POST /users/login", s.handleLogin)
	s.mux.HandleFunc("POST /auth/refresh", s.handleRefresh)
	s.mux.HandleFunc("POST /users/refresh", s.handleRefresh)

	s.mux.HandleFunc("GET /users", s.authenticated(s.handleListUsers))
	s.mux.HandleFunc("GET /users/{$}", s.authenticated(s.handleListUsers))
	s.mux.HandleFunc("GET /users/{user_id}", s.authenticated(s.handleGetUser))
	s.mux.HandleFunc("PATCH /users/{user_id}", s.authenticated(s.handleUpdateUser))
	s.mux.HandleFunc("DELETE /users/{user_id}", s.authenticated(s.handleDeleteUser))

	s.mux.HandleFunc("POST /tasks", s.authenticated(s.handleCreateTask))
	s.mux.HandleFunc("POST /tasks/{$}", s.authenticated(s.handleCreateTask))
	s.mux.HandleFunc("GET /tasks", s.authenticated(s.handleListTasks))
	s.mux.HandleFunc("GET /tasks/{$}", s.authenticated(s.handleListTasks))
	s.mux.HandleFunc("GET /tasks/{task_id}", s.authenticated(s.handleGetTask))
	s.mux.HandleFunc("PATCH /tasks/{task_id}", s.authenticated(s.handleUpdateTask))
	s.mux.HandleFunc("DELETE /tasks/{task_id}", s.authenticated(s.handleDeleteTask))

	s.mux.HandleFunc("POST /comments", s.authenticated(s.handleCreateComment))
	s.mux.HandleFunc("POST /comments/{$}", s.authenticated(s.handleCreateComment))
	s.mux.HandleFunc("GET /comments", s.authenticated(s.handleListComments))
	s.mux.HandleFunc("GET /comments/{$}", s.authenticated(s.handleListComments))
	s.mux.HandleFunc("GET /comments/{comment_id}", s.authenticated(s.handleGetComment))
	s.mux.HandleFunc("PATCH /comments/{comment_id}", s.authenticated(s.handleUpdateComment))
	s.mux.HandleFunc("DELETE /comments/{comment_id}", s.authenticated(s.handleDeleteComment))
}

func (s *Server) handleBanner(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, httptransport.BannerResponse{
		Message: "Task and Comment API",
		Version: s.opts.Version,
		Docs:    "/swagger/index.html",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := s.opts.Health(ctx); err != nil {
			s.logger.Warn("health check failed",
				"event", "http_health_check_failed",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"error", err.Error(),
			)
			writeJSON(w, http.StatusServiceUnavailable, httptransport.HealthResponse{Status: "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, httptransport.HealthResponse{Status: "healthy"})
}

type identityHandler func(w http.ResponseWriter, r *http.Request, actor entities.Identity)

// authenticated resolves the bearer token to the caller before next runs.
func (s *Server) authenticated(next identityHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeUnauthorized(w)
			return
		}
		actor, err := s.tasks.Handler.AuthenticateHandler(r.Context(), token)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		next(w, r, actor)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// decodeJSON writes the 422 response itself and reports whether decoding
// succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(target); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_json", "request body must be valid JSON")
		return false
	}
	// The body must hold exactly one JSON value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusUnprocessableEntity, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *domainerrors.ValidationError
	switch {
	case errors.As(err, &validation):
		fields := make([]httptransport.FieldErrorResponse, 0, len(validation.Fields))
		for _, field := range validation.Fields {
			fields = append(fields, httptransport.FieldErrorResponse{Field: field.Field, Message: field.Message})
		}
		writeJSON(w, http.StatusUnprocessableEntity, httptransport.ErrorResponse{
			Code:    "validation_error",
			Message: "request validation failed",
			Fields:  fields,
		})
	case errors.Is(err, domainerrors.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "incorrect email or password")
	case errors.Is(err, domainerrors.ErrUnauthorized):
		writeUnauthorized(w)
	case errors.Is(err, domainerrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domainerrors.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domainerrors.ErrConflict):
		writeError(w, http.StatusBadRequest, "email_taken", err.Error())
	default:
		s.logger.Error("request failed",
			"event", "http_request_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "unauthorized", credentialsMessage)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, httptransport.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
