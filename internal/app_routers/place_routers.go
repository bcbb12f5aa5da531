package approuters

import (
	"github.com/gin-gonic/gin"

	"wanderwise/internal/configuration"
	"wanderwise/internal/middleware"
)

func PlaceRouters(router *gin.Engine, container *configuration.Container) {
	places := router.Group("/api/places")
	places.Use(middleware.RequireAuth(container.AuthService))
	{
		places.GET("/search", container.PlaceHandler.SearchPlaces)
	}
}
