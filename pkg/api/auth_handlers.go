package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roadside/pkg/models"
)

func (s *Server) setSession(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", s.opts.CookieSecure, true)
}

func (s *Server) register(c *gin.Context) {
	var in models.NewUser
	if err := c.ShouldBind(&in); err != nil {
		s.fail(c, badBody(err))
		return
	}
	user, err := s.svc.Auth().Register(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *Server) login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBind(&creds); err != nil {
		s.fail(c, badBody(err))
		return
	}
	user, token, err := s.svc.Auth().Login(c.Request.Context(), creds)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.setSession(c, token, int(s.svc.Auth().SessionTTL().Seconds()))
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (s *Server) logout(c *gin.Context) {
	s.setSession(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (s *Server) me(c *gin.Context) {
	user, err := s.svc.User().Profile(c.Request.Context(), mustActor(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
