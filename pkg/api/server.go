// Package api exposes the dispatch services over HTTP with gin.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roadside/pkg/logger"
	"roadside/service"
)

// HealthChecker is satisfied by storage.IStorage.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Options struct {
	CookieSecure    bool
	ShutdownTimeout time.Duration
}

type Server struct {
	svc    service.IServiceManager
	health HealthChecker
	log    logger.ILogger
	opts   Options
	router *gin.Engine
}

func NewServer(svc service.IServiceManager, health HealthChecker, log logger.ILogger, opts Options) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		svc:    svc,
		health: health,
		log:    log,
		opts:   opts,
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.session())

	r.GET("/healthz", s.healthz)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", s.register)
		authGroup.POST("/login", s.login)
		authGroup.POST("/logout", s.logout)
	}

	secured := r.Group("")
	secured.Use(s.requireActor())
	{
		secured.GET("/me", s.me)
		secured.GET("/problem-types", s.problemTypes)

		secured.POST("/assistance-requests", s.createRequest)
		secured.GET("/assistance-requests", s.listRequests)
		secured.GET("/assistance-requests/:id", s.getRequest)
		secured.PATCH("/assistance-requests/:id", s.patchRequest)

		actions := secured.Group("/requests/:id")
		actions.Match([]string{http.MethodGet, http.MethodPost}, "/assign", s.assignFromForm)
		actions.Match([]string{http.MethodGet, http.MethodPost}, "/assign/:mechanicId", s.assignFromPath)
		actions.Match([]string{http.MethodGet, http.MethodPost}, "/start", s.start)
		actions.Match([]string{http.MethodGet, http.MethodPost}, "/complete", s.complete)
		actions.Match([]string{http.MethodGet, http.MethodPost}, "/cancel", s.cancel)

		secured.GET("/mechanics", s.listMechanics)
		secured.GET("/mechanics/:id", s.getMechanic)
		secured.Match([]string{http.MethodGet, http.MethodPost}, "/mechanics/:id/toggle-status", s.toggleMechanic)

		secured.GET("/reports", s.report)
	}

	return r
}

// Run serves on addr until ctx is cancelled, then drains in-flight
// requests for at most ShutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Error("http server shutdown", logger.Error(err))
		return err
	}
	return <-errCh
}

func (s *Server) healthz(c *gin.Context) {
	if err := s.health.Ping(c.Request.Context()); err != nil {
		s.log.Error("health check failed", logger.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
