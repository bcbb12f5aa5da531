package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderwise/internal/places"
	"wanderwise/internal/service"
)

type PlaceHandler interface {
	SearchPlaces(c *gin.Context)
}

type placeHandler struct {
	places service.PlaceService
}

func NewPlaceHandler(svc service.PlaceService) PlaceHandler {
	return &placeHandler{places: svc}
}

func (h *placeHandler) SearchPlaces(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		city = c.Query("q")
	}
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "City name is required",
		})
		return
	}

	info, err := h.places.SearchCity(c.Request.Context(), city)
	if err != nil {
		if errors.Is(err, places.ErrCityNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "No places found for the specified location",
				"data":    nil,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to search places",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    info,
	})
}
