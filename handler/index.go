package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"product-catalog/models"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports 503 when the document store does not answer within
// timeout.
func Health(db Pinger, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, models.HealthResponse{
				Status:   "degraded",
				Database: "unreachable",
				Error:    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, models.HealthResponse{Status: "ok", Database: "ok"})
	}
}
