package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var processStart = time.Now()

type healthResponse struct {
	Status    string  `json:"status"`
	Uptime    float64 `json:"uptime"`
	Timestamp string  `json:"timestamp"`
}

// Health is the unscoped liveness probe.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:    "ok",
		Uptime:    time.Since(processStart).Seconds(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
