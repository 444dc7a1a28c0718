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

type ContactStore interface {
	CreateContactRequest(ctx context.Context, user, topic primitive.ObjectID, message string) (models.ContactRequest, error)
	ContactRequests(ctx context.Context) ([]models.PopulatedContactRequest, error)
	ContactRequest(ctx context.Context, id primitive.ObjectID) (models.PopulatedContactRequest, error)
	ContactRequestsByUser(ctx context.Context, userID primitive.ObjectID, open, claimed *bool) ([]models.PopulatedContactRequest, error)
	CreateContactTopic(ctx context.Context, name string) (models.ContactTopic, error)
	ContactTopics(ctx context.Context) ([]models.ContactTopic, error)
	ContactTopicByID(ctx context.Context, id primitive.ObjectID) (models.ContactTopic, error)
	UserByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

type ContactHandler struct {
	Store  ContactStore
	Mailer Mailer
	Log    zerolog.Logger
}

type contactRequestData struct {
	User    string `json:"user" binding:"required"`
	Topic   string `json:"topic" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type createContactRequestReq struct {
	ContactRequestData *contactRequestData `json:"contactRequestData" binding:"required"`
}

// CreateRequest opens a support request and sends the requester a
// confirmation mail.
func (h *ContactHandler) CreateRequest(c *gin.Context) {
	var req createContactRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contactRequestData is required"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.ContactRequestData.User)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	topicID, err := primitive.ObjectIDFromHex(req.ContactRequestData.Topic)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic id"})
		return
	}

	created, err := h.Store.CreateContactRequest(c.Request.Context(), userID, topicID, req.ContactRequestData.Message)
	if err != nil {
		storeErr(c, err, "")
		return
	}

	if user, err := h.Store.UserByID(c.Request.Context(), userID); err == nil {
		notify(h.Log, h.Mailer, mail.TemplateContactRequest, user.Email, map[string]string{
			"displayName": user.DisplayName,
			"message":     created.Message,
		})
	} else {
		h.Log.Warn().Err(err).Msg("could not look up requester for notification")
	}

	c.JSON(http.StatusCreated, gin.H{"message": "The contact request was saved successfully.", "data": created})
}

func (h *ContactHandler) ListRequests(c *gin.Context) {
	requests, err := h.Store.ContactRequests(c.Request.Context())
	if err != nil {
		storeErr(c, err, "")
		return
	}
	if len(requests) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No contact requests were found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact requests were found successfully.", "data": requests})
}

func (h *ContactHandler) GetRequest(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	request, err := h.Store.ContactRequest(c.Request.Context(), id)
	if err != nil {
		storeErr(c, err, "No contact request was found with the given id.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The contact request was found successfully.", "data": request})
}

// ListRequestsByUser filters one user's requests. includeClosed and
// includeClaimed, when present and parseable as booleans, constrain the
// request's open state and claimed state respectively.
func (h *ContactHandler) ListRequestsByUser(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}

	open := boolQuery(c, "includeClosed")
	claimed := boolQuery(c, "includeClaimed")

	requests, err := h.Store.ContactRequestsByUser(c.Request.Context(), id, open, claimed)
	if err != nil {
		storeErr(c, err, "")
		return
	}
	if len(requests) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No contact requests were found for the given user."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact requests were found successfully.", "data": requests})
}

type topicData struct {
	Name string `json:"name" binding:"required"`
}

type createTopicReq struct {
	TopicData *topicData `json:"topicData" binding:"required"`
}

func (h *ContactHandler) CreateTopic(c *gin.Context) {
	var req createTopicReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topicData is required"})
		return
	}

	created, err := h.Store.CreateContactTopic(c.Request.Context(), req.TopicData.Name)
	if err != nil {
		storeErr(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "The support topic was saved successfully.", "data": created})
}

func (h *ContactHandler) ListTopics(c *gin.Context) {
	topics, err := h.Store.ContactTopics(c.Request.Context())
	if err != nil {
		storeErr(c, err, "")
		return
	}
	if len(topics) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No support topics were found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Support topics were found successfully.", "data": topics})
}

func (h *ContactHandler) GetTopic(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	topic, err := h.Store.ContactTopicByID(c.Request.Context(), id)
	if err != nil {
		storeErr(c, err, "No support topic was found with the given id.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The support topic was found successfully.", "data": topic})
}
