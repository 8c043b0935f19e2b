package middleware

import (
	"github.com/gin-gonic/gin"
)

// DefaultUserID is the acting user when the client sends no X-User-ID.
const DefaultUserID = "user1"

// MockAuth resolves the acting user from the X-User-ID header. The dev
// backend performs no credential check; every request is accepted.
func MockAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			userID = DefaultUserID
		}
		c.Set("userID", userID)
		c.Next()
	}
}
