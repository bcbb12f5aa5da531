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

type ItineraryHandler interface {
	CreateItinerary(c *gin.Context)
	GetItineraries(c *gin.Context)
	GetItineraryByID(c *gin.Context)
	UpdateItinerary(c *gin.Context)
}

type itineraryHandler struct {
	itineraries repo.ItineraryRepository
}

func NewItineraryHandler(itineraries repo.ItineraryRepository) ItineraryHandler {
	return &itineraryHandler{itineraries: itineraries}
}

func (h *itineraryHandler) CreateItinerary(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var it model.Itinerary
	if err := c.ShouldBindJSON(&it); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid itinerary data"})
		return
	}
	it.AgentID = user.ID
	if it.Status == "" {
		it.Status = model.ItineraryDraft
	}

	created, err := h.itineraries.CreateItinerary(c.Request.Context(), &it)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid itinerary data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create itinerary"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *itineraryHandler) GetItineraries(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var (
		its []model.Itinerary
		err error
	)
	switch user.Role {
	case model.RoleTraveler:
		its, err = h.itineraries.GetItinerariesByTravelerID(c.Request.Context(), user.ID)
	case model.RoleAgent:
		its, err = h.itineraries.GetItinerariesByAgentID(c.Request.Context(), user.ID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch itineraries"})
		return
	}
	c.JSON(http.StatusOK, its)
}

func (h *itineraryHandler) GetItineraryByID(c *gin.Context) {
	user := middleware.CurrentUser(c)

	it, ok := h.fetch(c)
	if !ok {
		return
	}

	// Only the two parties on the itinerary may read it.
	if (user.Role == model.RoleTraveler && it.TravelerID != user.ID) ||
		(user.Role == model.RoleAgent && it.AgentID != user.ID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
		return
	}

	c.JSON(http.StatusOK, it)
}

func (h *itineraryHandler) UpdateItinerary(c *gin.Context) {
	user := middleware.CurrentUser(c)

	it, ok := h.fetch(c)
	if !ok {
		return
	}

	// Only the authoring agent can update.
	if user.Role != model.RoleAgent || it.AgentID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
		return
	}

	var patch repo.ItineraryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid itinerary data"})
		return
	}

	updated, err := h.itineraries.UpdateItinerary(c.Request.Context(), it.ID, patch)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid itinerary data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update itinerary"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *itineraryHandler) fetch(c *gin.Context) (*model.Itinerary, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid itinerary id"})
		return nil, false
	}

	it, err := h.itineraries.GetItineraryByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Itinerary not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch itinerary"})
		return nil, false
	}
	return it, true
}
