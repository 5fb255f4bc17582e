package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"animedrop/internal/logging"
	"animedrop/internal/microservices/http-api/dto"
	"animedrop/internal/microservices/http-api/service"
	"animedrop/internal/shared"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 5 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// respond writes the {message, data} envelope.
func respond[T any](c *gin.Context, status int, message string, data T) {
	c.JSON(status, shared.Envelope[T]{Message: message, Data: data})
}

// respondMessage writes the envelope with null data.
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, shared.Envelope[any]{Message: message})
}

// respondError maps a service error kind to its status. Unexpected errors are
// logged with the request id and never echoed to the client.
func respondError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, shared.ErrorBody{Message: "Internal server error"})
		return
	}
	c.JSON(status, shared.ErrorBody{Message: err.Error()})
}

// respondBindError renders a gin binding failure as a 400.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, shared.ErrorBody{Message: dto.BindingMessage(err)})
}
