package controllers

import (
	"context"
	"net/http"
	"time"

	"food-order/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db  Pinger
	log zerolog.Logger
}

func NewHealthController(db Pinger, logger zerolog.Logger) *HealthController {
	return &HealthController{db: db, log: logger.With().Str("controller", "health").Logger()}
}

// Health godoc
// @Summary Liveness
// @Tags Health
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Router /health [get]
func (ctrl *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Food Order API is running"})
}

// Database godoc
// @Summary Database check
// @Tags Health
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /health/db [get]
func (ctrl *HealthController) Database(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := ctrl.db.Ping(ctx); err != nil {
		ctrl.log.Error().Err(err).Msg("database ping failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Success: false, Error: "Database connection failed"})
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Database connected"})
}
