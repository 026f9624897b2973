package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aretw0/cardforge/pkg/core"
)

// APIResponse is the envelope of every JSON answer.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, APIResponse{Success: true, Message: message, Data: data})
}

func fail(c *gin.Context, status int, message string, err error) {
	resp := APIResponse{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	c.AbortWithStatusJSON(status, resp)
}

// failFor maps the error taxonomy to a status code.
func failFor(c *gin.Context, message string, err error) {
	fail(c, statusFor(err), message, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrValidationRejected), errors.Is(err, core.ErrImportFormatInvalid):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrServiceUnavailable), errors.Is(err, core.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrServiceError):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
