package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Eventhood/Eventhood-backend/internal/models"
)

type RatingStore interface {
	CreateRating(ctx context.Context, userRated, ratedBy primitive.ObjectID, rating int) (models.Rating, error)
	RatingsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedRating, error)
	DeleteRating(ctx context.Context, id primitive.ObjectID) error
}

type RatingHandler struct {
	Store RatingStore
}

type ratingData struct {
	UserRated string `json:"userRated" binding:"required"`
	RatedBy   string `json:"ratedBy" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
}

type createRatingReq struct {
	RatingData *ratingData `json:"ratingData" binding:"required"`
}

func (h *RatingHandler) Create(c *gin.Context) {
	var req createRatingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ratingData is required"})
		return
	}

	userRated, err := primitive.ObjectIDFromHex(req.RatingData.UserRated)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userRated id"})
		return
	}
	ratedBy, err := primitive.ObjectIDFromHex(req.RatingData.RatedBy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ratedBy id"})
		return
	}

	created, err := h.Store.CreateRating(c.Request.Context(), userRated, ratedBy, req.RatingData.Rating)
	if err != nil {
		storeErr(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "The rating was saved successfully.", "data": created})
}

// ListForUser returns the ratings the target user has received.
func (h *RatingHandler) ListForUser(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	ratings, err := h.Store.RatingsForUser(c.Request.Context(), id)
	if err != nil {
		storeErr(c, err, "")
		return
	}
	if len(ratings) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "The user has not received any ratings."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ratings were found successfully.", "data": ratings})
}

func (h *RatingHandler) Delete(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteRating(c.Request.Context(), id); err != nil {
		storeErr(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The rating was removed successfully."})
}
