package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Eventhood/Eventhood-backend/internal/mail"
	"github.com/Eventhood/Eventhood-backend/internal/models"
)

type RegistrationStore interface {
	CreateEventRegistration(ctx context.Context, event, user primitive.ObjectID) (models.EventRegistration, error)
	EventRegistration(ctx context.Context, id primitive.ObjectID) (models.PopulatedEventRegistration, error)
	EventRegistrationsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedEventRegistration, error)
	UserByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

type RegistrationHandler struct {
	Store  RegistrationStore
	Mailer Mailer
	Log    zerolog.Logger
}

type registrationData struct {
	Event string `json:"event" binding:"required"`
	User  string `json:"user" binding:"required"`
}

type createRegistrationReq struct {
	RegistrationData *registrationData `json:"registrationData" binding:"required"`
}

// Create signs a user up for an event, then looks the registration back up in
// populated form to mail the attendee the event details.
func (h *RegistrationHandler) Create(c *gin.Context) {
	var req createRegistrationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "registrationData is required"})
		return
	}

	event, err := primitive.ObjectIDFromHex(req.RegistrationData.Event)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}
	user, err := primitive.ObjectIDFromHex(req.RegistrationData.User)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	created, err := h.Store.CreateEventRegistration(c.Request.Context(), event, user)
	if err != nil {
		storeErr(c, err, "")
		return
	}

	h.sendConfirmation(c, created, user)

	c.JSON(http.StatusCreated, gin.H{"message": "The event registration was saved successfully.", "data": created})
}

func (h *RegistrationHandler) sendConfirmation(c *gin.Context, created models.EventRegistration, userID primitive.ObjectID) {
	populated, err := h.Store.EventRegistration(c.Request.Context(), created.ID)
	if err != nil || populated.Event == nil {
		h.Log.Warn().Err(err).Msg("could not look up registration for notification")
		return
	}
	attendee, err := h.Store.UserByID(c.Request.Context(), userID)
	if err != nil {
		h.Log.Warn().Err(err).Msg("could not look up attendee for notification")
		return
	}

	notify(h.Log, h.Mailer, mail.TemplateRegistration, attendee.Email, map[string]string{
		"displayName": attendee.DisplayName,
		"eventName":   populated.Event.Name,
		"startTime":   populated.Event.StartTime.String(),
	})
}

func (h *RegistrationHandler) Get(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	registration, err := h.Store.EventRegistration(c.Request.Context(), id)
	if err != nil {
		storeErr(c, err, "No event registration was found with the given id.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The event registration was found successfully.", "data": registration})
}

func (h *RegistrationHandler) ListByUser(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	registrations, err := h.Store.EventRegistrationsByUser(c.Request.Context(), id)
	if err != nil {
		storeErr(c, err, "")
		return
	}
	if len(registrations) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No event registrations were found for the given user."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event registrations were found successfully.", "data": registrations})
}
