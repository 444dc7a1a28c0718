package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Eventhood/Eventhood-backend/internal/geocode"
	"github.com/Eventhood/Eventhood-backend/internal/models"
	"github.com/Eventhood/Eventhood-backend/internal/store"
)

type fakeEventStore struct {
	created []models.Event

	event    models.PopulatedEvent
	eventErr error
	events   []models.PopulatedEvent
	byHost   []models.PopulatedEvent

	updates   []store.EventUpdate
	updated   models.Event
	updateErr error

	deleted []primitive.ObjectID

	count int64

	categories []models.EventCategory
	category   models.EventCategory
}

func (s *fakeEventStore) CreateEvent(_ context.Context, e models.Event) (models.Event, error) {
	e.ID = primitive.NewObjectID()
	s.created = append(s.created, e)
	return e, nil
}

func (s *fakeEventStore) Events(context.Context) ([]models.PopulatedEvent, error) {
	return s.events, nil
}

func (s *fakeEventStore) Event(context.Context, primitive.ObjectID) (models.PopulatedEvent, error) {
	if s.eventErr != nil {
		return models.PopulatedEvent{}, s.eventErr
	}
	return s.event, nil
}

func (s *fakeEventStore) EventsByHost(context.Context, primitive.ObjectID) ([]models.PopulatedEvent, error) {
	return s.byHost, nil
}

func (s *fakeEventStore) UpdateEvent(_ context.Context, _ primitive.ObjectID, update store.EventUpdate) (models.Event, error) {
	if s.updateErr != nil {
		return models.Event{}, s.updateErr
	}
	s.updates = append(s.updates, update)
	return s.updated, nil
}

func (s *fakeEventStore) DeleteEvent(_ context.Context, id primitive.ObjectID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeEventStore) CountEventRegistrations(context.Context, primitive.ObjectID) (int64, error) {
	return s.count, nil
}

func (s *fakeEventStore) CreateEventCategory(_ context.Context, name, header string) (models.EventCategory, error) {
	return models.EventCategory{ID: primitive.NewObjectID(), Name: name, Header: header}, nil
}

func (s *fakeEventStore) EventCategories(context.Context) ([]models.EventCategory, error) {
	return s.categories, nil
}

func (s *fakeEventStore) EventCategoryByID(context.Context, primitive.ObjectID) (models.EventCategory, error) {
	return s.category, nil
}

func eventRouter(h *EventHandler) *gin.Engine {
	r := gin.New()
	r.POST("/api/events", h.Create)
	r.GET("/api/events", h.List)
	r.GET("/api/events/single/:id", h.Get)
	r.GET("/api/events/user/:id", h.ListByHost)
	r.PUT("/api/events/:id", h.Update)
	r.DELETE("/api/events/:id", h.Delete)
	return r
}

func eventBody() string {
	return fmt.Sprintf(`{"eventData":{"host":"%s","name":"Park Meetup","location":"100 Queen St W, Toronto","category":"%s","maxParticipants":10,"description":"A meetup.","startTime":"2026-10-01T18:00:00Z"}}`,
		primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
}

func TestCreateEvent(t *testing.T) {
	t.Run("geocoded location is persisted", func(t *testing.T) {
		st := &fakeEventStore{}
		geo := &fakeGeocoder{loc: models.EventLocation{Lat: 43.65, Lon: -79.38, Address: "100 Queen St W, Toronto, ON"}}
		h := &EventHandler{Store: st, Geocoder: geo}

		w := doJSON(eventRouter(h), "POST", "/api/events", eventBody(), nil)
		requireStatus(t, w, http.StatusCreated)

		if len(st.created) != 1 {
			t.Fatalf("expected one created event, got %d", len(st.created))
		}
		if st.created[0].Location.Address != "100 Queen St W, Toronto, ON" {
			t.Fatalf("expected the geocoded address, got %+v", st.created[0].Location)
		}
	})

	t.Run("unresolvable address", func(t *testing.T) {
		st := &fakeEventStore{}
		geo := &fakeGeocoder{err: geocode.ErrNoResult}
		h := &EventHandler{Store: st, Geocoder: geo}

		w := doJSON(eventRouter(h), "POST", "/api/events", eventBody(), nil)
		requireStatus(t, w, http.StatusBadRequest)
		if len(st.created) != 0 {
			t.Fatal("no event may be persisted when geocoding fails")
		}
	})

	t.Run("geocoder unreachable", func(t *testing.T) {
		st := &fakeEventStore{}
		geo := &fakeGeocoder{err: errors.New("connection refused")}
		h := &EventHandler{Store: st, Geocoder: geo}

		w := doJSON(eventRouter(h), "POST", "/api/events", eventBody(), nil)
		requireStatus(t, w, http.StatusInternalServerError)
		if len(st.created) != 0 {
			t.Fatal("no event may be persisted when the geocoder is down")
		}
	})
}

func TestGetEventRegistrationCount(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("capacity-limited event carries the count", func(t *testing.T) {
		st := &fakeEventStore{
			event: models.PopulatedEvent{ID: id, Name: "Workshop", MaxParticipants: 2},
			count: 1,
		}
		h := &EventHandler{Store: st}

		w := doJSON(eventRouter(h), "GET", "/api/events/single/"+id.Hex(), "", nil)
		requireStatus(t, w, http.StatusOK)

		data := decodeBody(t, w)["data"].(map[string]any)
		if data["currentlyRegistered"] != float64(1) {
			t.Fatalf("expected currentlyRegistered=1, got %v", data["currentlyRegistered"])
		}
	})

	t.Run("unlimited event omits the count", func(t *testing.T) {
		st := &fakeEventStore{
			event: models.PopulatedEvent{ID: id, Name: "Open Picnic", MaxParticipants: 0},
			count: 99,
		}
		h := &EventHandler{Store: st}

		w := doJSON(eventRouter(h), "GET", "/api/events/single/"+id.Hex(), "", nil)
		requireStatus(t, w, http.StatusOK)

		data := decodeBody(t, w)["data"].(map[string]any)
		if _, ok := data["currentlyRegistered"]; ok {
			t.Fatal("currentlyRegistered must be absent for unlimited events")
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		st := &fakeEventStore{eventErr: store.ErrNotFound}
		h := &EventHandler{Store: st}
		w := doJSON(eventRouter(h), "GET", "/api/events/single/"+id.Hex(), "", nil)
		requireStatus(t, w, http.StatusNotFound)
	})
}

func TestUpdateEvent(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("location change is re-geocoded", func(t *testing.T) {
		st := &fakeEventStore{updated: models.Event{ID: id}}
		geo := &fakeGeocoder{loc: models.EventLocation{Lat: 1, Lon: 2, Address: "somewhere"}}
		h := &EventHandler{Store: st, Geocoder: geo}

		w := doJSON(eventRouter(h), "PUT", "/api/events/"+id.Hex(), `{"eventData":{"location":"somewhere new"}}`, nil)
		requireStatus(t, w, http.StatusOK)

		if !geo.called {
			t.Fatal("expected the geocoder to be called")
		}
		if len(st.updates) != 1 || st.updates[0].Location == nil || st.updates[0].Location.Address != "somewhere" {
			t.Fatalf("expected a geocoded location in the update, got %+v", st.updates)
		}
	})

	t.Run("non-location change skips the geocoder", func(t *testing.T) {
		st := &fakeEventStore{updated: models.Event{ID: id}}
		geo := &fakeGeocoder{}
		h := &EventHandler{Store: st, Geocoder: geo}

		w := doJSON(eventRouter(h), "PUT", "/api/events/"+id.Hex(), `{"eventData":{"name":"Renamed"}}`, nil)
		requireStatus(t, w, http.StatusOK)

		if geo.called {
			t.Fatal("the geocoder must not run when the location is untouched")
		}
		if len(st.updates) != 1 || st.updates[0].Name == nil || *st.updates[0].Name != "Renamed" {
			t.Fatalf("unexpected update %+v", st.updates)
		}
	})
}

func TestDeleteEventIdempotent(t *testing.T) {
	st := &fakeEventStore{}
	h := &EventHandler{Store: st}

	w := doJSON(eventRouter(h), "DELETE", "/api/events/"+primitive.NewObjectID().Hex(), "", nil)
	requireStatus(t, w, http.StatusOK)
}

func TestListEventsEmpty(t *testing.T) {
	h := &EventHandler{Store: &fakeEventStore{}}
	w := doJSON(eventRouter(h), "GET", "/api/events", "", nil)
	requireStatus(t, w, http.StatusNotFound)
}
