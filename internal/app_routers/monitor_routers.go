package approuters

import (
	"github.com/gin-gonic/gin"

	"wanderwise/internal/configuration"
	"wanderwise/internal/middleware"
)

func MonitorRouters(router *gin.Engine, container *configuration.Container) {
	monitor := router.Group("/api/monitor")
	monitor.Use(middleware.RequireAuth(container.AuthService))
	{
		monitor.GET("/stats", container.MonitorHandler.GetHubStats)
	}
}
