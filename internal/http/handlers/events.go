package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Eventhood/Eventhood-backend/internal/geocode"
	"github.com/Eventhood/Eventhood-backend/internal/models"
	"github.com/Eventhood/Eventhood-backend/internal/store"
)

type EventStore interface {
	CreateEvent(ctx context.Context, e models.Event) (models.Event, error)
	Events(ctx context.Context) ([]models.PopulatedEvent, error)
	Event(ctx context.Context, id primitive.ObjectID) (models.PopulatedEvent, error)
	EventsByHost(ctx context.Context, hostID primitive.ObjectID) ([]models.PopulatedEvent, error)
	UpdateEvent(ctx context.Context, id primitive.ObjectID, update store.EventUpdate) (models.Event, error)
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error
	CountEventRegistrations(ctx context.Context, eventID primitive.ObjectID) (int64, error)
	CreateEventCategory(ctx context.Context, name, header string) (models.EventCategory, error)
	EventCategories(ctx context.Context) ([]models.EventCategory, error)
	EventCategoryByID(ctx context.Context, id primitive.ObjectID) (models.EventCategory, error)
}

type EventHandler struct {
	Store    EventStore
	Geocoder Geocoder
}

type eventData struct {
	Host            string    `json:"host" binding:"required"`
	Name            string    `json:"name" binding:"required"`
	Location        string    `json:"location" binding:"required"`
	Category        string    `json:"category" binding:"required"`
	MaxParticipants *int      `json:"maxParticipants"`
	Description     string    `json:"description" binding:"required"`
	StartTime       time.Time `json:"startTime" binding:"required"`
}

type createEventReq struct {
	EventData *eventData `json:"eventData" binding:"required"`
}

// geocodeErr maps a geocoder failure onto the response contract: an
// unresolvable address is the client's fault, anything else is upstream.
func geocodeErr(c *gin.Context, err error) {
	if errors.Is(err, geocode.ErrNoResult) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "the event location could not be resolved"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "there was a problem resolving the event location"})
}

// Create geocodes the free-text location and persists the event. Nothing is
// stored when geocoding fails.
func (h *EventHandler) Create(c *gin.Context) {
	var req createEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventData is required"})
		return
	}

	host, err := primitive.ObjectIDFromHex(req.EventData.Host)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid host id"})
		return
	}
	category, err := primitive.ObjectIDFromHex(req.EventData.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	location, err := h.Geocoder.Resolve(c.Request.Context(), req.EventData.Location)
	if err != nil {
		geocodeErr(c, err)
		return
	}

	e := models.Event{
		Host:        host,
		Name:        req.EventData.Name,
		Location:    location,
		Category:    category,
		Description: req.EventData.Description,
		StartTime:   req.EventData.StartTime,
	}
	if req.EventData.MaxParticipants != nil {
		e.MaxParticipants = *req.EventData.MaxParticipants
	}

	created, err := h.Store.CreateEvent(c.Request.Context(), e)
	if err != nil {
		storeErr(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "The event was saved successfully.", "data": created})
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.Store.Events(c.Request.Context())
	if err != nil {
		storeErr(c, err, "")
		return
	}
	if len(events) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No events were found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Events were found successfully.", "data": events})
}

// Get returns one populated event. Capacity-limited events also carry the
// current registration count.
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	event, err := h.Store.Event(c.Request.Context(), id)
	if err != nil {
		storeErr(c, err, "No event was found with the given id.")
		return
	}

	if event.MaxParticipants >= 1 {
		count, err := h.Store.CountEventRegistrations(c.Request.Context(), id)
		if err != nil {
			storeErr(c, err, "")
			return
		}
		event.CurrentlyRegistered = &count
	}

	c.JSON(http.StatusOK, gin.H{"message": "The event was found successfully.", "data": event})
}

func (h *EventHandler) ListByHost(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	events, err := h.Store.EventsByHost(c.Request.Context(), id)
	if err != nil {
		storeErr(c, err, "")
		return
	}
	if len(events) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No events were found for the given user."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Events were found successfully.", "data": events})
}

type eventUpdateData struct {
	Name            *string    `json:"name"`
	Location        *string    `json:"location"`
	Category        *string    `json:"category"`
	MaxParticipants *int       `json:"maxParticipants"`
	Description     *string    `json:"description"`
	StartTime       *time.Time `json:"startTime"`
}

type updateEventReq struct {
	EventData *eventUpdateData `json:"eventData" binding:"required"`
}

// Update merges the provided fields. A new free-text location is geocoded
// before anything is written.
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}

	var req updateEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventData is required"})
		return
	}

	update := store.EventUpdate{
		Name:            req.EventData.Name,
		MaxParticipants: req.EventData.MaxParticipants,
		Description:     req.EventData.Description,
		StartTime:       req.EventData.StartTime,
	}

	if req.EventData.Category != nil {
		category, err := primitive.ObjectIDFromHex(*req.EventData.Category)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
			return
		}
		update.Category = &category
	}

	if req.EventData.Location != nil {
		location, err := h.Geocoder.Resolve(c.Request.Context(), *req.EventData.Location)
		if err != nil {
			geocodeErr(c, err)
			return
		}
		update.Location = &location
	}

	updated, err := h.Store.UpdateEvent(c.Request.Context(), id, update)
	if err != nil {
		storeErr(c, err, "No event was found with the given id.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The event was updated successfully.", "data": updated})
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteEvent(c.Request.Context(), id); err != nil {
		storeErr(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The event was removed successfully."})
}

type categoryData struct {
	Name   string `json:"name" binding:"required"`
	Header string `json:"header" binding:"required"`
}

type createCategoryReq struct {
	CategoryData *categoryData `json:"categoryData" binding:"required"`
}

func (h *EventHandler) CreateCategory(c *gin.Context) {
	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "categoryData is required"})
		return
	}

	created, err := h.Store.CreateEventCategory(c.Request.Context(), req.CategoryData.Name, req.CategoryData.Header)
	if err != nil {
		storeErr(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "The event category was saved successfully.", "data": created})
}

func (h *EventHandler) ListCategories(c *gin.Context) {
	categories, err := h.Store.EventCategories(c.Request.Context())
	if err != nil {
		storeErr(c, err, "")
		return
	}
	if len(categories) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No event categories were found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event categories were found successfully.", "data": categories})
}

func (h *EventHandler) GetCategory(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	category, err := h.Store.EventCategoryByID(c.Request.Context(), id)
	if err != nil {
		storeErr(c, err, "No event category was found with the given id.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The event category was found successfully.", "data": category})
}
