package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
	"github.com/polkiloo/bookmart/internal/server/http/dto"
)

// remoteError is a non-2xx answer of the storefront API.
type remoteError interface {
	StatusCode() int
	UserMessage() string
}

// respondError maps err to a status code and JSON body.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		validation *domainErrors.ValidationError
		remote     remoteError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: validation.Message, Field: validation.Field})
	case errors.Is(err, domainErrors.ErrEmptySelection):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid username or password"})
	case errors.Is(err, domainErrors.ErrNoSession), errors.Is(err, domainErrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "sign in required"})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, domainErrors.ErrRegistrationNotStarted):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.As(err, &remote) && remote.StatusCode() >= 400 && remote.StatusCode() < 500:
		respondRemoteRejection(c, remote)
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, dto.ErrorResponse{Error: "storefront timed out"})
	default:
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "storefront request failed"})
	}
}

// respondRemoteRejection passes a client error of the API through. Conflicts
// keep their status, every other 4xx becomes 400.
func respondRemoteRejection(c *gin.Context, remote remoteError) {
	status := http.StatusBadRequest
	if remote.StatusCode() == http.StatusConflict {
		status = http.StatusConflict
	}
	message := remote.UserMessage()
	if message == "" {
		message = "request rejected by storefront"
	}
	c.JSON(status, dto.ErrorResponse{Error: message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: message})
}
