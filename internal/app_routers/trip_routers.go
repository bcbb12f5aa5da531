package approuters

import (
	"github.com/gin-gonic/gin"

	"wanderwise/internal/configuration"
	"wanderwise/internal/middleware"
	"wanderwise/internal/model"
)

func TripRouters(router *gin.Engine, container *configuration.Container) {
	trips := router.Group("/api/trip-preferences")
	trips.Use(middleware.RequireAuth(container.AuthService))
	{
		trips.POST("", middleware.RequireRole(model.RoleTraveler), container.TripHandler.CreateTripPreference)
		trips.GET("", container.TripHandler.GetTripPreferences)
	}
}
