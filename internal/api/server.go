package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	mw "github.com/tphakala/dasdcalc/internal/api/middleware"
	v1 "github.com/tphakala/dasdcalc/internal/api/v1"
	"github.com/tphakala/dasdcalc/internal/conf"
	"github.com/tphakala/dasdcalc/internal/history"
	"github.com/tphakala/dasdcalc/internal/logger"
	"github.com/tphakala/dasdcalc/internal/observability"
)

// Server is the HTTP server for the dasdcalc API.
type Server struct {
	echo     *echo.Echo
	config   *Config
	settings *conf.Settings
	log      logger.Logger

	history       *history.Store
	metrics       *observability.Metrics
	volumeReader  v1.VolumeReader
	apiController *v1.Controller

	mu       sync.Mutex
	listener net.Listener
	done     chan struct{}
	serveErr error
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithMetrics serves m on /metrics and counts requests in it.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithHistory uses store instead of creating one from the settings.
func WithHistory(store *history.Store) ServerOption {
	return func(s *Server) {
		s.history = store
	}
}

// WithVolumeReader replaces the host volume reader.
func WithVolumeReader(r v1.VolumeReader) ServerOption {
	return func(s *Server) {
		s.volumeReader = r
	}
}

// New creates a new HTTP server with the given settings and options.
func New(settings *conf.Settings, opts ...ServerOption) (*Server, error) {
	config := ConfigFromSettings(settings)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}

	s := &Server{
		config:   config,
		settings: settings,
		log:      GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.history == nil && config.History {
		s.history = history.New(history.Options{
			Retention:  settings.History.Retention,
			MaxEntries: settings.History.MaxEntries,
		})
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Server.ReadTimeout = config.ReadTimeout
	s.echo.Server.WriteTimeout = config.WriteTimeout
	s.echo.Server.IdleTimeout = config.IdleTimeout

	s.setupMiddleware()

	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}

	s.log.Info("HTTP server initialized",
		logger.String("address", config.Listen),
		logger.Bool("metrics", s.metrics != nil),
		logger.Bool("history", s.history != nil))

	return s, nil
}

// setupMiddleware configures the Echo middleware stack.
func (s *Server) setupMiddleware() {
	// Recovery middleware - should be first
	s.echo.Use(echomw.Recover())
	s.echo.Use(mw.NewRequestID())

	if s.config.Debug {
		s.echo.Use(mw.NewRequestLogger(s.log))
	}

	securityConfig := mw.DefaultSecurityConfig()
	securityConfig.AllowedOrigins = s.config.AllowedOrigins

	s.echo.Use(mw.NewCORS(securityConfig))
	s.echo.Use(mw.NewBodyLimit(s.config.BodyLimit))
	s.echo.Use(mw.NewSecureHeaders(securityConfig))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() error {
	var opts []v1.Option
	if s.history != nil {
		opts = append(opts, v1.WithHistory(s.history))
	}
	if s.metrics != nil {
		opts = append(opts, v1.WithMetrics(s.metrics))
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}
	if s.volumeReader != nil {
		opts = append(opts, v1.WithVolumeReader(s.volumeReader))
	}

	apiController, err := v1.New(s.echo, s.settings, opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize API v1: %w", err)
	}
	s.apiController = apiController

	s.echo.GET("/health", apiController.HealthCheck)
	return nil
}

// Start listens on the configured address and serves requests in the
// background. It returns once the listener is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Listen, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.echo.Listener = ln

	go func() {
		defer close(s.done)
		if err := s.echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.Error(err))
			s.mu.Lock()
			s.serveErr = err
			s.mu.Unlock()
		}
	}()

	s.log.Info("Starting HTTP server", logger.String("address", ln.Addr().String()))
	return nil
}

// Run starts the server and blocks until ctx is cancelled, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		s.log.Info("Shutdown signal received, initiating graceful shutdown")
	case <-s.done:
	}

	return s.Shutdown()
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if s.apiController != nil {
		s.apiController.Shutdown()
	}

	if err := s.echo.Shutdown(ctx); err != nil {
		s.log.Error("Error during server shutdown", logger.Error(err))
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}

	s.log.Info("Server shutdown complete")

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serveErr
}

// APIController returns the v1 API controller.
func (s *Server) APIController() *v1.Controller {
	return s.apiController
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
