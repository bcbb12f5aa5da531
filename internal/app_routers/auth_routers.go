package approuters

import (
	"github.com/gin-gonic/gin"

	"wanderwise/internal/configuration"
	"wanderwise/internal/middleware"
)

func AuthRouters(router *gin.Engine, container *configuration.Container) {
	api := router.Group("/api")
	{
		api.POST("/register", container.AuthHandler.Register)
		api.POST("/login", container.AuthHandler.Login)
		api.GET("/user", middleware.RequireAuth(container.AuthService), container.AuthHandler.GetCurrentUser)
	}
}
