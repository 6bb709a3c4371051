package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"product-catalog/config"
	"product-catalog/models"
	"product-catalog/routes"
)

var (
	app     *routes.App
	initErr error
	once    sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg := config.LoadConfig()
		logger, err := config.NewLogger(cfg)
		if err != nil {
			initErr = err
			return
		}

		app, initErr = routes.NewApp(context.Background(), cfg, logger)
		if initErr != nil {
			logger.Error("Failed to initialize application", zap.Error(initErr))
		}
	})
}

// Handler is the serverless entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(models.ErrorResponse{
			Message: "Service unavailable",
			Error:   initErr.Error(),
		})
		return
	}
	app.Router.ServeHTTP(w, r)
}
