package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"product-catalog/config"
)

// CORSMiddleware allows the local dev frontend plus every origin listed,
// comma separated, in ORIGIN_URL. "*" opens the API to any origin.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowedOrigins := []string{
		"http://localhost:5173",
		"http://localhost:3000",
	}

	for _, origin := range strings.Split(cfg.OriginURL, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			return cors.New(cors.Config{
				AllowAllOrigins: true,
				AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
				AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
				ExposeHeaders:   []string{"Content-Length"},
			})
		}
		if origin != "" {
			allowedOrigins = append(allowedOrigins, strings.TrimRight(origin, "/"))
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	})
}
