package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roadside/pkg/lifecycle"
	"roadside/pkg/models"
)

func (s *Server) problemTypes(c *gin.Context) {
	list, err := s.svc.Request().ProblemTypes(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) createRequest(c *gin.Context) {
	var in models.NewAssistanceRequest
	if err := c.ShouldBind(&in); err != nil {
		s.fail(c, badBody(err))
		return
	}
	req, err := s.svc.Request().Create(c.Request.Context(), mustActor(c), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":           "assistance request created",
		"assistanceRequest": req,
	})
}

func (s *Server) listRequests(c *gin.Context) {
	status := models.RequestStatus(c.Query("status"))
	list, err := s.svc.Request().List(c.Request.Context(), mustActor(c), status)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getRequest(c *gin.Context) {
	req, err := s.svc.Request().Get(c.Request.Context(), mustActor(c), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) patchRequest(c *gin.Context) {
	var in models.RequestPatch
	if err := c.ShouldBind(&in); err != nil {
		s.fail(c, badBody(err))
		return
	}
	req, err := s.svc.Request().Patch(c.Request.Context(), mustActor(c), c.Param("id"), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// formValue reads key from a POSTed form, falling back to the query string
// for the GET links of the dashboard.
func formValue(c *gin.Context, key string) string {
	if v := c.PostForm(key); v != "" {
		return v
	}
	return c.Query(key)
}

func (s *Server) assignFromForm(c *gin.Context) {
	s.assign(c, formValue(c, "mechanicId"), false)
}

func (s *Server) assignFromPath(c *gin.Context) {
	s.assign(c, c.Param("mechanicId"), true)
}

func (s *Server) assign(c *gin.Context, mechanicID string, fromPath bool) {
	actor := mustActor(c)
	id := c.Param("id")
	if _, err := s.svc.Request().Assign(c.Request.Context(), actor, id, mechanicID); err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, afterAssign(actor, id, fromPath))
}

func (s *Server) perform(c *gin.Context, action lifecycle.Action) {
	actor := mustActor(c)
	id := c.Param("id")
	if _, err := s.svc.Request().Perform(c.Request.Context(), actor, id, action); err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, afterAction(actor, id, action))
}

func (s *Server) start(c *gin.Context)    { s.perform(c, lifecycle.ActionStart) }
func (s *Server) complete(c *gin.Context) { s.perform(c, lifecycle.ActionComplete) }
func (s *Server) cancel(c *gin.Context)   { s.perform(c, lifecycle.ActionCancel) }
