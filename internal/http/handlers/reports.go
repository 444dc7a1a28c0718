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

type ReportStore interface {
	CreateEventReport(ctx context.Context, event, reportedBy, topic primitive.ObjectID, reason string) (models.EventReport, error)
	EventReports(ctx context.Context) ([]models.PopulatedEventReport, error)
	CreateReportTopic(ctx context.Context, name string) (models.ReportTopic, error)
	ReportTopics(ctx context.Context) ([]models.ReportTopic, error)
	UserByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

type ReportHandler struct {
	Store  ReportStore
	Mailer Mailer
	Log    zerolog.Logger
}

type reportData struct {
	Event      string `json:"event" binding:"required"`
	ReportedBy string `json:"reportedBy" binding:"required"`
	Topic      string `json:"topic" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

type createReportReq struct {
	ReportData *reportData `json:"reportData" binding:"required"`
}

// Create files a report and sends the reporter a confirmation mail.
func (h *ReportHandler) Create(c *gin.Context) {
	var req createReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reportData is required"})
		return
	}

	event, err := primitive.ObjectIDFromHex(req.ReportData.Event)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}
	reportedBy, err := primitive.ObjectIDFromHex(req.ReportData.ReportedBy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reportedBy id"})
		return
	}
	topic, err := primitive.ObjectIDFromHex(req.ReportData.Topic)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic id"})
		return
	}

	created, err := h.Store.CreateEventReport(c.Request.Context(), event, reportedBy, topic, req.ReportData.Reason)
	if err != nil {
		storeErr(c, err, "")
		return
	}

	if user, err := h.Store.UserByID(c.Request.Context(), reportedBy); err == nil {
		notify(h.Log, h.Mailer, mail.TemplateEventReport, user.Email, map[string]string{
			"displayName": user.DisplayName,
			"reason":      created.Reason,
		})
	} else {
		h.Log.Warn().Err(err).Msg("could not look up reporter for notification")
	}

	c.JSON(http.StatusCreated, gin.H{"message": "The event report was saved successfully.", "data": created})
}

func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.Store.EventReports(c.Request.Context())
	if err != nil {
		storeErr(c, err, "")
		return
	}
	if len(reports) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No event reports were found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event reports were found successfully.", "data": reports})
}

func (h *ReportHandler) CreateTopic(c *gin.Context) {
	var req createTopicReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topicData is required"})
		return
	}

	created, err := h.Store.CreateReportTopic(c.Request.Context(), req.TopicData.Name)
	if err != nil {
		storeErr(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "The report topic was saved successfully.", "data": created})
}

func (h *ReportHandler) ListTopics(c *gin.Context) {
	topics, err := h.Store.ReportTopics(c.Request.Context())
	if err != nil {
		storeErr(c, err, "")
		return
	}
	if len(topics) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No report topics were found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report topics were found successfully.", "data": topics})
}
