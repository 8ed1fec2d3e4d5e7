// ABOUTME: HTTP server assembly: routes, access rules, and lifecycle
// ABOUTME: Every request flows through request-id, logging, authentication, and enforcement

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/workhardslave/memberd/internal/auth"
	"github.com/workhardslave/memberd/internal/i18n"
	"github.com/workhardslave/memberd/internal/store"
)

// Options carries everything the server needs to run.
type Options struct {
	Addr   string
	Store  store.Store
	Tokens *auth.TokenService
	Bundle *i18n.Bundle
	Logger *slog.Logger

	// Metrics is optional; nil disables recording.
	Metrics *auth.Metrics
	// MetricsAddr, when set, serves the Prometheus endpoint on its own
	// listener so it stays off the public address.
	MetricsAddr string
	MetricsPath string
}

// Server is the memberd HTTP API.
type Server struct {
	store   store.Store
	tokens  *auth.TokenService
	bundle  *i18n.Bundle
	logger  *slog.Logger
	metrics *auth.Metrics

	httpServer    *http.Server
	metricsServer *http.Server
}

// New assembles the server and its middleware chain.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "server")
	}

	s := &Server{
		store:   opts.Store,
		tokens:  opts.Tokens,
		bundle:  opts.Bundle,
		logger:  logger,
		metrics: opts.Metrics,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	authn := auth.Middleware(s.tokens, auth.NewResolver(s.store), s.metrics, logger, s.handleAuthError)
	authz := auth.Enforce(accessPolicy(), s.metrics, s.handleDenial)
	handler := s.withRequestLog(authn(authz(mux)))

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if opts.MetricsAddr != "" {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		metricsMux := http.NewServeMux()
		metricsMux.Handle(path, promhttp.Handler())
		s.metricsServer = &http.Server{
			Addr:              opts.MetricsAddr,
			Handler:           metricsMux,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return s
}

// accessPolicy declares the route access rules. The sign and demo routes
// are open, the user collection is admin-only, and everything else needs
// the baseline user role.
func accessPolicy() *auth.Policy {
	return auth.NewPolicy(auth.Role(store.RoleUser),
		auth.Rule{Pattern: "/*/signin", Require: auth.Public()},
		auth.Rule{Pattern: "/*/signup", Require: auth.Public()},
		auth.Rule{Pattern: "/helloworld/**", Method: http.MethodGet, Require: auth.Public()},
		auth.Rule{Pattern: "/exception/**", Method: http.MethodGet, Require: auth.Public()},
		auth.Rule{Pattern: "/healthz", Method: http.MethodGet, Require: auth.Public()},
		auth.Rule{Pattern: "/*/users", Require: auth.Role(store.RoleAdmin)},
	)
}

// registerRoutes registers all API routes on the given mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/signin", s.handleSignin)
	mux.HandleFunc("POST /v1/signup", s.handleSignup)

	mux.HandleFunc("GET /v1/users", s.handleListUsers)
	mux.HandleFunc("GET /v1/users/{id}", s.handleGetUser)
	mux.HandleFunc("PUT /v1/users/{id}", s.handleUpdateUser)
	mux.HandleFunc("DELETE /v1/users/{id}", s.handleDeleteUser)

	mux.HandleFunc("GET /helloworld/string", s.handleHelloString)
	mux.HandleFunc("GET /helloworld/json", s.handleHelloJSON)
	mux.HandleFunc("GET /exception/entrypoint", s.handleExceptionEntryPoint)
	mux.HandleFunc("GET /exception/accessdenied", s.handleExceptionAccessDenied)

	mux.HandleFunc("GET /healthz", s.handleHealthz)
}

// handleHealthz handles GET /healthz requests.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// Handler returns the fully wired request handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the server and blocks until the context is canceled.
// Returns nil on graceful shutdown, or an error if a listener fails.
func (s *Server) Run(ctx context.Context) error {
	httpLn, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	errCh := make(chan error, 2)

	go func() {
		s.logger.Info("HTTP server listening", "addr", httpLn.Addr().String())
		if err := s.httpServer.Serve(httpLn); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	if s.metricsServer != nil {
		metricsLn, err := net.Listen("tcp", s.metricsServer.Addr)
		if err != nil {
			_ = httpLn.Close()
			return fmt.Errorf("listening on metrics address: %w", err)
		}
		go func() {
			s.logger.Info("metrics server listening", "addr", metricsLn.Addr().String())
			if err := s.metricsServer.Serve(metricsLn); err != nil && err != http.ErrServerClosed {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	var serverErr error
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		s.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := s.gracefulShutdown()
	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is already canceled.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops the listeners and releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	var firstErr error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		firstErr = fmt.Errorf("HTTP shutdown: %w", err)
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("metrics shutdown: %w", err)
		}
	}
	return firstErr
}
