package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listMechanics(c *gin.Context) {
	list, err := s.svc.User().ListMechanics(c.Request.Context(), mustActor(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getMechanic(c *gin.Context) {
	detail, err := s.svc.User().GetMechanic(c.Request.Context(), mustActor(c), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) toggleMechanic(c *gin.Context) {
	if _, err := s.svc.User().ToggleStatus(c.Request.Context(), mustActor(c), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, afterToggle())
}

func (s *Server) report(c *gin.Context) {
	report, err := s.svc.Report().Summary(c.Request.Context(), mustActor(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
