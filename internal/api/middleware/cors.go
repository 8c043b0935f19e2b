package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows any origin. The dev backend only ever serves local clients.
func CORS() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-User-ID"}
	cfg.MaxAge = 12 * time.Hour
	return cors.New(cfg)
}
