package api

import (
	"net/http"

	"github.com/felixgeelhaar/gymstore/pkg/observability"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleReadiness reports component health. Degraded components keep the
// service ready; an unhealthy one does not.
func (s *Server) handleReadiness(c *gin.Context) {
	health := s.container.Health.Check(c.Request.Context())
	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}
