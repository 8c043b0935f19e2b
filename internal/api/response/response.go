// Package response shapes the dev backend's replies. Successful replies are
// raw payloads because the client decodes them straight into typed records;
// only failures carry an envelope.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes the payload as-is.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Error writes the failure envelope.
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"status":  "error",
		"message": msg,
	})
}
