package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Eventhood/Eventhood-backend/internal/models"
	"github.com/Eventhood/Eventhood-backend/internal/store"
)

type FollowStore interface {
	CreateFollow(ctx context.Context, followedBy, following primitive.ObjectID) (models.Follow, error)
	Following(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedFollow, error)
	Followers(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedFollow, error)
	DeleteFollow(ctx context.Context, id primitive.ObjectID) error
	UserByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

type FollowHandler struct {
	Store    FollowStore
	Verifier TokenVerifier
}

type followData struct {
	FollowedBy string `json:"followedBy" binding:"required"`
	Following  string `json:"following" binding:"required"`
}

type createFollowReq struct {
	FollowData *followData `json:"followData" binding:"required"`
}

// Create registers a follow. The bearer token's subject must be the user
// doing the following.
func (h *FollowHandler) Create(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	subject, err := h.Verifier.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid bearer token"})
		return
	}

	var req createFollowReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "followData is required"})
		return
	}

	followedBy, err := primitive.ObjectIDFromHex(req.FollowData.FollowedBy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid followedBy id"})
		return
	}
	following, err := primitive.ObjectIDFromHex(req.FollowData.Following)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid following id"})
		return
	}

	owner, err := h.Store.UserByID(c.Request.Context(), followedBy)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No user was found with the given followedBy id."})
			return
		}
		storeErr(c, err, "")
		return
	}
	if owner.UUID != subject {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "you do not have permission to follow on behalf of this user"})
		return
	}

	created, err := h.Store.CreateFollow(c.Request.Context(), followedBy, following)
	if err != nil {
		storeErr(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "The follow was saved successfully.", "data": created})
}

func (h *FollowHandler) Following(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	follows, err := h.Store.Following(c.Request.Context(), id)
	if err != nil {
		storeErr(c, err, "")
		return
	}
	if len(follows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "The user is not following anyone."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Follows were found successfully.", "data": follows})
}

func (h *FollowHandler) Followers(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	follows, err := h.Store.Followers(c.Request.Context(), id)
	if err != nil {
		storeErr(c, err, "")
		return
	}
	if len(follows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "The user has no followers."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Follows were found successfully.", "data": follows})
}

func (h *FollowHandler) Delete(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteFollow(c.Request.Context(), id); err != nil {
		storeErr(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The follow was removed successfully."})
}
