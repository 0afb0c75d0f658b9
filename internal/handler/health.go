package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/go-boiler/backend/internal/model"
)

var startTime = time.Now()

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} model.Response
// @Router /health [get]
func Health(c *gin.Context) {
	respond(c, http.StatusOK, "Server is healthy", model.HealthData{
		Status:    "UP",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(startTime).Seconds(),
	})
}
