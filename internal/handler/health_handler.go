package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports liveness.
// GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Portfolio API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
