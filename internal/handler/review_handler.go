package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wanderwise/internal/middleware"
	"wanderwise/internal/model"
	"wanderwise/internal/repo"
	"wanderwise/internal/service"
)

type ReviewHandler interface {
	CreateReview(c *gin.Context)
	GetAgentReviews(c *gin.Context)
}

type reviewHandler struct {
	reviews service.ReviewService
}

func NewReviewHandler(reviews service.ReviewService) ReviewHandler {
	return &reviewHandler{reviews: reviews}
}

func (h *reviewHandler) CreateReview(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var review model.Review
	if err := c.ShouldBindJSON(&review); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid review data"})
		return
	}
	review.TravelerID = user.ID

	created, err := h.reviews.CreateReview(c.Request.Context(), &review)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotReviewable):
			c.JSON(http.StatusForbidden, gin.H{"message": "You can only review agents you've worked with"})
		case errors.Is(err, repo.ErrInvalidArgument):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid review data"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create review"})
		}
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *reviewHandler) GetAgentReviews(c *gin.Context) {
	agentID, err := strconv.ParseInt(c.Param("agentId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid agent id"})
		return
	}

	reviews, err := h.reviews.GetReviewsByAgentID(c.Request.Context(), agentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}
