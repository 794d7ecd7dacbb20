package handlers

import (
	"net/http"

	"telecare/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest dependency snapshot; a nil monitor reports ok.
func HealthHandler(monitor *utils.HealthMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if monitor == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		status := monitor.Status()
		if !status.Healthy() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": status})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": status})
	}
}
