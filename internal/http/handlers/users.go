package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Eventhood/Eventhood-backend/internal/mail"
	"github.com/Eventhood/Eventhood-backend/internal/models"
	"github.com/Eventhood/Eventhood-backend/internal/store"
)

type UserStore interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	UserByUUID(ctx context.Context, uuid string) (models.User, error)
	UserHandles(ctx context.Context) ([]models.UserHandle, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, update store.UserUpdate) (models.User, error)
}

type UserHandler struct {
	Store    UserStore
	Verifier TokenVerifier
	Mailer   Mailer
	Log      zerolog.Logger
}

type userData struct {
	UUID            string    `json:"uuid" binding:"required"`
	DisplayName     string    `json:"displayName" binding:"required"`
	AccountHandle   string    `json:"accountHandle" binding:"required"`
	PhotoURL        string    `json:"photoURL" binding:"required"`
	Email           string    `json:"email" binding:"required,email"`
	CreationTime    time.Time `json:"creationTime" binding:"required"`
	IsAdministrator *bool     `json:"isAdministrator"`
}

type createUserReq struct {
	UserData *userData `json:"userData" binding:"required"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userData is required"})
		return
	}

	u := models.User{
		UUID:          req.UserData.UUID,
		DisplayName:   req.UserData.DisplayName,
		AccountHandle: req.UserData.AccountHandle,
		PhotoURL:      req.UserData.PhotoURL,
		Email:         req.UserData.Email,
		CreationTime:  req.UserData.CreationTime,
	}
	if req.UserData.IsAdministrator != nil {
		u.IsAdministrator = *req.UserData.IsAdministrator
	}

	created, err := h.Store.CreateUser(c.Request.Context(), u)
	if err != nil {
		storeErr(c, err, "")
		return
	}

	notify(h.Log, h.Mailer, mail.TemplateWelcome, created.Email, map[string]string{
		"displayName": created.DisplayName,
	})

	c.JSON(http.StatusCreated, gin.H{"message": "The user was saved successfully.", "data": created})
}

// GetByUUID returns one user by their external-auth id. The bearer token's
// subject must match the requested uuid.
func (h *UserHandler) GetByUUID(c *gin.Context) {
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
	if subject != c.Param("uuid") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "you do not have permission to access this user"})
		return
	}

	u, err := h.Store.UserByUUID(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		storeErr(c, err, "No user was found with the given uuid.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The user was found successfully.", "data": u})
}

func (h *UserHandler) List(c *gin.Context) {
	handles, err := h.Store.UserHandles(c.Request.Context())
	if err != nil {
		storeErr(c, err, "")
		return
	}
	if len(handles) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No users were found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Users were found successfully.", "data": handles})
}

type updateUserReq struct {
	UserData *store.UserUpdate `json:"userData" binding:"required"`
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}

	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userData is required"})
		return
	}

	updated, err := h.Store.UpdateUser(c.Request.Context(), id, *req.UserData)
	if err != nil {
		storeErr(c, err, "No user was found with the given id.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The user was updated successfully.", "data": updated})
}
