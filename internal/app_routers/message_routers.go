package approuters

import (
	"github.com/gin-gonic/gin"

	"wanderwise/internal/configuration"
	"wanderwise/internal/middleware"
)

func MessageRouters(router *gin.Engine, container *configuration.Container) {
	messages := router.Group("/api/messages")
	messages.Use(middleware.RequireAuth(container.AuthService))
	{
		messages.POST("", container.MessageHandler.SendMessage)
		messages.GET("", container.MessageHandler.GetMessages)
	}

	conversations := router.Group("/api/conversations")
	conversations.Use(middleware.RequireAuth(container.AuthService))
	{
		conversations.GET("", container.MessageHandler.ListConversations)
		conversations.GET("/:counterpartId", container.MessageHandler.GetConversation)
		conversations.POST("/:counterpartId/read", container.MessageHandler.MarkConversationRead)
	}
}
