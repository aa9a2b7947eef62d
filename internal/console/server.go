package console

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/tsanders-rh/ocpconsole/internal/auth"
	"github.com/tsanders-rh/ocpconsole/internal/config"
	consolemiddleware "github.com/tsanders-rh/ocpconsole/internal/console/middleware"
	"github.com/tsanders-rh/ocpconsole/internal/form"
	"github.com/tsanders-rh/ocpconsole/internal/newcluster"
)

// Pinger is a dependency checked by the readiness probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the console's HTTP server
type Server struct {
	echo      *echo.Echo
	config    *config.Config
	page      *newcluster.Page
	validator *form.Validator
	auth      *auth.Auth
	checks    map[string]Pinger
	log       *logrus.Entry
}

// NewServer creates the console server. accessLog receives one JSON line per
// request; checks are pinged by the readiness probe.
func NewServer(
	cfg *config.Config,
	page *newcluster.Page,
	validator *form.Validator,
	checks map[string]Pinger,
	accessLog io.Writer,
	log *logrus.Entry,
) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Disable Echo's default logger, we use logrus and the access log middleware
	e.Logger.SetOutput(io.Discard)

	renderer, err := NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	e.Renderer = renderer

	s := &Server{
		echo:      e,
		config:    cfg,
		page:      page,
		validator: validator,
		checks:    checks,
		log:       log,
	}

	if cfg.Auth.Enabled {
		s.auth = auth.NewAuth(cfg.Auth.JWTSecret)
	}

	s.setupMiddleware(accessLog)
	s.setupRoutes()

	return s, nil
}

// setupMiddleware configures middleware stack
func (s *Server) setupMiddleware(accessLog io.Writer) {
	s.echo.Use(middleware.Recover())
	s.echo.Use(consolemiddleware.RequestID())
	s.echo.Use(consolemiddleware.Logger(accessLog))

	if s.config.Server.RateLimitRequests > 0 {
		s.echo.Use(consolemiddleware.RateLimit(s.config.Server.RateLimitRequests, s.config.Server.RateLimitDuration))
	}

	if s.config.Server.MaxBodySize != "" {
		s.echo.Use(middleware.BodyLimit(s.config.Server.MaxBodySize))
	}

	if s.config.Server.RequestTimeout > 0 {
		s.echo.Use(middleware.ContextTimeout(s.config.Server.RequestTimeout))
	}
}

// setupRoutes configures the console routes
func (s *Server) setupRoutes() {
	// Health check (no auth required)
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readyCheck)

	var session echo.MiddlewareFunc
	if s.auth != nil {
		session = auth.RequireSession(s.auth, s.config.Auth.LoginURL)
	} else {
		session = auth.Anonymous()
	}

	pageMiddleware := []echo.MiddlewareFunc{session}
	if s.config.Server.EnableCSRF {
		pageMiddleware = append(pageMiddleware, middleware.CSRFWithConfig(middleware.CSRFConfig{
			TokenLookup:    "form:_csrf,header:X-CSRF-Token",
			CookieName:     "_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteStrictMode,
		}))
	}

	handler := NewNewClusterHandler(s.page, s.validator)
	clusters := s.echo.Group(s.config.BasePath+"/clusters", pageMiddleware...)
	clusters.GET("/~new", handler.Show)
	clusters.POST("/~new", handler.Submit)
	clusters.GET("/~new/cancel", handler.Cancel)
	clusters.POST("/~new/validate", handler.Validate)
}

// healthCheck returns basic health status
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// readyCheck checks the API and the pull-secret store are reachable
func (s *Server) readyCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	for name, p := range s.checks {
		if err := p.Ping(ctx); err != nil {
			s.log.WithError(err).WithField("dependency", name).Warn("readiness check failed")
			return ErrorServiceUnavailable(c, name+" unavailable")
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.log.Infof("Starting console on %s", addr)
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance for testing
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
