package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peliculas/peliculas/internal/apperr"
)

// envelope is the uniform response body for every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: status < http.StatusBadRequest, Message: message})
}

// respondError maps the error taxonomy onto HTTP statuses: NotFound and
// InvalidArgument are client errors, Unavailable is a server error carrying
// no partial data.
func respondError(c *gin.Context, err error) {
	switch {
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, envelope{Success: false, Message: err.Error()})
	case apperr.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
	case apperr.IsUnavailable(err):
		c.JSON(http.StatusServiceUnavailable, envelope{
			Success: false,
			Message: "The service is temporarily unavailable. Please try again later.",
		})
	default:
		c.JSON(http.StatusInternalServerError, envelope{
			Success: false,
			Message: "Something has gone wrong on the server side. Please try again later.",
		})
	}
}
