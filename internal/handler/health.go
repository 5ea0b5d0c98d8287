package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storeapi/backend/internal/model"
)

// Ping godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} model.MessageResponse
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.MessageResponse{Message: "pong"})
}

// Root godoc
// @Summary Welcome message
// @Tags health
// @Produce json
// @Success 200 {object} model.MessageResponse
// @Router / [get]
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Welcome to the Store API!"})
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Ready godoc
// @Summary Readiness check
// @Description Reports whether the database answers a ping.
// @Tags health
// @Produce json
// @Success 200 {object} model.MessageResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /ready [get]
func Ready(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Detail: "Database unavailable"})
			return
		}
		c.JSON(http.StatusOK, model.MessageResponse{Message: "ready"})
	}
}
