package approuters

import (
	"github.com/gin-gonic/gin"

	"wanderwise/internal/configuration"
	"wanderwise/internal/middleware"
	"wanderwise/internal/model"
)

func ItineraryRouters(router *gin.Engine, container *configuration.Container) {
	itineraries := router.Group("/api/itineraries")
	itineraries.Use(middleware.RequireAuth(container.AuthService))
	{
		itineraries.POST("", middleware.RequireRole(model.RoleAgent), container.ItineraryHandler.CreateItinerary)
		itineraries.GET("", container.ItineraryHandler.GetItineraries)
		itineraries.GET("/:id", container.ItineraryHandler.GetItineraryByID)
		itineraries.PATCH("/:id", container.ItineraryHandler.UpdateItinerary)
	}
}
