package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"food-order/app"
	"food-order/config"
	"food-order/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	router  http.Handler
	initErr error
	once    sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg, err := config.LoadConfig("")
		if err != nil {
			initErr = err
			return
		}
		logger := config.NewLogger(cfg)

		application, err := app.New(context.Background(), cfg, logger, app.Options{})
		if err != nil {
			initErr = err
			return
		}
		router = application.Router
	})
}

// Handler is the serverless entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		log.Error().Err(initErr).Msg("app initialization failed")
		unavailable(w)
		return
	}
	router.ServeHTTP(w, r)
}

func unavailable(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{
		Success: false,
		Error:   "Service is starting, please try again",
	})
}
