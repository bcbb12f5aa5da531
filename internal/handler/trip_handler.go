package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderwise/internal/middleware"
	"wanderwise/internal/model"
	"wanderwise/internal/repo"
)

type TripHandler interface {
	CreateTripPreference(c *gin.Context)
	GetTripPreferences(c *gin.Context)
}

type tripHandler struct {
	trips repo.TripRepository
}

func NewTripHandler(trips repo.TripRepository) TripHandler {
	return &tripHandler{trips: trips}
}

func (h *tripHandler) CreateTripPreference(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var pref model.TripPreference
	if err := c.ShouldBindJSON(&pref); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid trip preference data"})
		return
	}
	pref.TravelerID = user.ID

	created, err := h.trips.CreateTripPreference(c.Request.Context(), &pref)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid trip preference data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create trip preference"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetTripPreferences is role-scoped: travelers see their own requests,
// agents browse all of them looking for work.
func (h *tripHandler) GetTripPreferences(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var (
		prefs []model.TripPreference
		err   error
	)
	switch user.Role {
	case model.RoleTraveler:
		prefs, err = h.trips.GetTripPreferencesByTravelerID(c.Request.Context(), user.ID)
	case model.RoleAgent:
		prefs, err = h.trips.GetAllTripPreferences(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch trip preferences"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}
