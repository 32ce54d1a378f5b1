package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"roadside/pkg/apperr"
	"roadside/pkg/logger"
	"roadside/pkg/models"
)

const (
	SessionCookie = "roadside_session"

	actorKey      = "actor"
	sessionErrKey = "session_error"
)

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", time.Since(start)),
		}
		if actor, ok := actorFrom(c); ok {
			fields = append(fields, logger.String("actor_id", actor.ID))
		}
		s.log.Info("http request", fields...)
	}
}

func sessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// session resolves the caller when a token is present. Public routes
// ignore a bad token; requireActor reports it.
func (s *Server) session() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.Next()
			return
		}
		actor, err := s.svc.Auth().Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Set(sessionErrKey, err)
			c.Next()
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

func (s *Server) requireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := actorFrom(c); ok {
			c.Next()
			return
		}
		err := fmt.Errorf("%w: authentication required", apperr.ErrUnauthenticated)
		if v, ok := c.Get(sessionErrKey); ok {
			err = v.(error)
		}
		s.fail(c, err)
		c.Abort()
	}
}

func actorFrom(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

func mustActor(c *gin.Context) models.Actor {
	actor, ok := actorFrom(c)
	if !ok {
		panic(fmt.Sprintf("%s reached without requireActor", c.FullPath()))
	}
	return actor
}
