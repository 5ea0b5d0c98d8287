package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storeapi/backend/internal/model"
	"github.com/storeapi/backend/internal/service"
	"github.com/storeapi/backend/internal/token"
)

// writeAuthError maps service and token errors to a status and detail.
// expected names the token kind the caller asked for.
func writeAuthError(c *gin.Context, err error, expected token.Kind) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeUnauthorized(c, "Incorrect email or password")
	case errors.Is(err, service.ErrUserNotConfirmed):
		writeUnauthorized(c, "User is not confirmed")
	case errors.Is(err, token.ErrTokenExpired):
		writeUnauthorized(c, "Token has expired")
	case errors.Is(err, token.ErrWrongTokenType):
		writeUnauthorized(c, fmt.Sprintf("Token has incorrect type, expected '%s'", expected))
	case errors.Is(err, token.ErrMissingSubject):
		writeUnauthorized(c, "Token is missing 'sub' field")
	case errors.Is(err, token.ErrInvalidToken):
		writeUnauthorized(c, "Invalid token")
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Detail: "Email already registered"})
	case errors.Is(err, service.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Detail: "Username already taken"})
	case errors.Is(err, service.ErrInvalidInput):
		writeInvalidInput(c)
	default:
		writeInternal(c, err)
	}
}

func writePostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{Detail: "Post not found"})
	case errors.Is(err, service.ErrInvalidInput):
		writeInvalidInput(c)
	default:
		writeInternal(c, err)
	}
}

func writeUnauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Detail: detail})
}

func writeInvalidInput(c *gin.Context) {
	c.JSON(http.StatusUnprocessableEntity, model.ErrorResponse{Detail: "Invalid input"})
}

// writeInternal hides err from the client; the access log picks it up.
func writeInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, model.ErrorResponse{Detail: "Internal server error"})
}
