package approuters

import (
	"github.com/gin-gonic/gin"

	"wanderwise/internal/configuration"
	"wanderwise/internal/middleware"
	"wanderwise/internal/model"
)

func AgentRouters(router *gin.Engine, container *configuration.Container) {
	agents := router.Group("/api/agents")
	{
		// Listings are public so travelers can browse before signing up.
		agents.GET("", container.AgentHandler.GetAgents)
		agents.GET("/:id", container.AgentHandler.GetAgentByID)
		agents.POST("",
			middleware.RequireAuth(container.AuthService),
			middleware.RequireRole(model.RoleAgent),
			container.AgentHandler.CreateAgentProfile,
		)
	}
}
