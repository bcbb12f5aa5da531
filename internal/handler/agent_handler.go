package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wanderwise/internal/middleware"
	"wanderwise/internal/model"
	"wanderwise/internal/repo"
)

type AgentHandler interface {
	GetAgents(c *gin.Context)
	GetAgentByID(c *gin.Context)
	CreateAgentProfile(c *gin.Context)
}

type agentHandler struct {
	agents repo.AgentRepository
}

func NewAgentHandler(agents repo.AgentRepository) AgentHandler {
	return &agentHandler{agents: agents}
}

func (h *agentHandler) GetAgents(c *gin.Context) {
	agents, err := h.agents.GetAgents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch agents"})
		return
	}
	c.JSON(http.StatusOK, agents)
}

func (h *agentHandler) GetAgentByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid agent id"})
		return
	}

	agent, err := h.agents.GetAgentByUserID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Agent not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch agent"})
		return
	}
	c.JSON(http.StatusOK, agent)
}

func (h *agentHandler) CreateAgentProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var profile model.AgentProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid agent profile data"})
		return
	}
	profile.UserID = user.ID

	created, err := h.agents.CreateAgentProfile(c.Request.Context(), &profile)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid agent profile data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create agent profile"})
		return
	}
	c.JSON(http.StatusCreated, created)
}
