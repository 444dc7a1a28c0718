package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Eventhood/Eventhood-backend/internal/models"
)

type FAQStore interface {
	CreateFAQTopic(ctx context.Context, name string) (models.FAQTopic, error)
	FAQTopics(ctx context.Context) ([]models.FAQTopic, error)
	DeleteFAQTopic(ctx context.Context, id primitive.ObjectID) error
	CreateFAQQuestion(ctx context.Context, topic primitive.ObjectID, question, answer string) (models.FAQQuestion, error)
	FAQQuestions(ctx context.Context) ([]models.PopulatedFAQQuestion, error)
	DeleteFAQQuestion(ctx context.Context, id primitive.ObjectID) error
}

type FAQHandler struct {
	Store FAQStore
}

type faqTopicData struct {
	Name string `json:"name" binding:"required"`
}

type createFAQTopicReq struct {
	FAQTopicData *faqTopicData `json:"faqTopicData" binding:"required"`
}

func (h *FAQHandler) CreateTopic(c *gin.Context) {
	var req createFAQTopicReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "faqTopicData is required"})
		return
	}

	created, err := h.Store.CreateFAQTopic(c.Request.Context(), req.FAQTopicData.Name)
	if err != nil {
		storeErr(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "The FAQ topic was saved successfully.", "data": created})
}

func (h *FAQHandler) ListTopics(c *gin.Context) {
	topics, err := h.Store.FAQTopics(c.Request.Context())
	if err != nil {
		storeErr(c, err, "")
		return
	}
	if len(topics) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No FAQ topics were found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FAQ topics were found successfully.", "data": topics})
}

func (h *FAQHandler) DeleteTopic(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteFAQTopic(c.Request.Context(), id); err != nil {
		storeErr(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The FAQ topic was removed successfully."})
}

type faqQuestionData struct {
	Topic    string `json:"topic" binding:"required"`
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

type createFAQQuestionReq struct {
	FAQQuestionData *faqQuestionData `json:"faqQuestionData" binding:"required"`
}

func (h *FAQHandler) CreateQuestion(c *gin.Context) {
	var req createFAQQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "faqQuestionData is required"})
		return
	}

	topic, err := primitive.ObjectIDFromHex(req.FAQQuestionData.Topic)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic id"})
		return
	}

	created, err := h.Store.CreateFAQQuestion(c.Request.Context(), topic, req.FAQQuestionData.Question, req.FAQQuestionData.Answer)
	if err != nil {
		storeErr(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "The FAQ question was saved successfully.", "data": created})
}

func (h *FAQHandler) ListQuestions(c *gin.Context) {
	questions, err := h.Store.FAQQuestions(c.Request.Context())
	if err != nil {
		storeErr(c, err, "")
		return
	}
	if len(questions) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No FAQ questions were found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FAQ questions were found successfully.", "data": questions})
}

func (h *FAQHandler) DeleteQuestion(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteFAQQuestion(c.Request.Context(), id); err != nil {
		storeErr(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The FAQ question was removed successfully."})
}
