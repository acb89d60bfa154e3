package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"food-order/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	msgUnauthorized = "Unauthorized"
	msgInternal     = "Something went wrong, please try again"
)

// respondError writes the failure envelope for err. Forbidden and store
// failures never echo the underlying message.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	status, message := http.StatusInternalServerError, msgInternal

	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		status, message = http.StatusBadRequest, publicMessage(err, models.ErrInvalidArgument)
	case errors.Is(err, models.ErrUnauthenticated):
		status, message = http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, models.ErrForbidden):
		status, message = http.StatusForbidden, msgUnauthorized
	case errors.Is(err, models.ErrNotFound):
		status, message = http.StatusNotFound, "Not found"
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("request rejected")
	}
	_ = c.Error(err)
	c.JSON(status, models.ErrorResponse{Success: false, Error: message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Error: message})
}

// publicMessage drops the error-kind prefix so clients see only the detail.
func publicMessage(err, kind error) string {
	msg := err.Error()
	if i := strings.Index(msg, kind.Error()+": "); i >= 0 {
		msg = msg[i+len(kind.Error())+2:]
	}
	if msg == "" {
		return kind.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return v, true
}
