package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roadside/pkg/apperr"
	"roadside/pkg/logger"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrInvalidTransition),
		errors.Is(err, apperr.ErrAlreadyAssigned),
		errors.Is(err, apperr.ErrMechanicUnavailable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	body := errorBody{Code: apperr.Code(err), Message: err.Error()}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Error(err),
		)
		body.Message = "internal server error"
	}
	c.JSON(status, body)
}

func badBody(err error) error {
	return apperr.Validation("body", "cannot be decoded: %v", err)
}
