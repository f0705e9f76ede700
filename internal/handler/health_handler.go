package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/utils"
)

var startTime = time.Now()

// HealthHandler provides the health endpoint.
type HealthHandler struct {
	backend string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(backend string) *HealthHandler {
	return &HealthHandler{backend: backend}
}

// GetHealth responds with service status and the configured store backend.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	utils.OK(c, gin.H{
		"status":  "healthy",
		"backend": h.backend,
		"uptime":  int(time.Since(startTime).Seconds()),
	})
}
