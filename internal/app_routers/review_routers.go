package approuters

import (
	"github.com/gin-gonic/gin"

	"wanderwise/internal/configuration"
	"wanderwise/internal/middleware"
	"wanderwise/internal/model"
)

func ReviewRouters(router *gin.Engine, container *configuration.Container) {
	reviews := router.Group("/api/reviews")
	{
		reviews.POST("",
			middleware.RequireAuth(container.AuthService),
			middleware.RequireRole(model.RoleTraveler),
			container.ReviewHandler.CreateReview,
		)
		// Public alongside the agent listings.
		reviews.GET("/agent/:agentId", container.ReviewHandler.GetAgentReviews)
	}
}
