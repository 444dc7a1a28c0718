package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Eventhood/Eventhood-backend/internal/mail"
	"github.com/Eventhood/Eventhood-backend/internal/models"
	"github.com/Eventhood/Eventhood-backend/internal/store"
)

type fakeRegistrationStore struct {
	users map[primitive.ObjectID]models.User

	created []models.EventRegistration

	populated    models.PopulatedEventRegistration
	populatedErr error

	byUser []models.PopulatedEventRegistration
}

func (s *fakeRegistrationStore) CreateEventRegistration(_ context.Context, event, user primitive.ObjectID) (models.EventRegistration, error) {
	r := models.EventRegistration{
		ID:         primitive.NewObjectID(),
		Event:      event,
		User:       user,
		Registered: time.Now().UTC(),
	}
	s.created = append(s.created, r)
	return r, nil
}

func (s *fakeRegistrationStore) EventRegistration(context.Context, primitive.ObjectID) (models.PopulatedEventRegistration, error) {
	if s.populatedErr != nil {
		return models.PopulatedEventRegistration{}, s.populatedErr
	}
	return s.populated, nil
}

func (s *fakeRegistrationStore) EventRegistrationsByUser(context.Context, primitive.ObjectID) ([]models.PopulatedEventRegistration, error) {
	return s.byUser, nil
}

func (s *fakeRegistrationStore) UserByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func registrationRouter(h *RegistrationHandler) *gin.Engine {
	r := gin.New()
	r.POST("/api/eventregistrations", h.Create)
	r.GET("/api/eventregistrations/user/:id", h.ListByUser)
	r.GET("/api/eventregistrations/:id", h.Get)
	return r
}

func TestCreateRegistrationNotifiesWithEventDetails(t *testing.T) {
	userID := primitive.NewObjectID()
	start := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
	st := &fakeRegistrationStore{
		users: map[primitive.ObjectID]models.User{
			userID: {ID: userID, DisplayName: "Pat", Email: "pat@example.com"},
		},
		populated: models.PopulatedEventRegistration{
			ID:    primitive.NewObjectID(),
			Event: &models.EventSummary{Name: "Park Meetup", StartTime: start},
		},
	}
	mailer := newFakeMailer()
	h := &RegistrationHandler{Store: st, Mailer: mailer, Log: zerolog.Nop()}

	body := fmt.Sprintf(`{"registrationData":{"event":"%s","user":"%s"}}`,
		primitive.NewObjectID().Hex(), userID.Hex())
	w := doJSON(registrationRouter(h), "POST", "/api/eventregistrations", body, nil)
	requireStatus(t, w, http.StatusCreated)

	call := mailer.waitForSend(t)
	if call.Template != mail.TemplateRegistration || call.To != "pat@example.com" {
		t.Fatalf("unexpected notification %+v", call)
	}
	if call.Variables["eventName"] != "Park Meetup" {
		t.Fatalf("expected event details in the notification, got %v", call.Variables)
	}
}

func TestCreateRegistrationSurvivesLookupFailure(t *testing.T) {
	st := &fakeRegistrationStore{populatedErr: store.ErrNotFound}
	mailer := newFakeMailer()
	h := &RegistrationHandler{Store: st, Mailer: mailer, Log: zerolog.Nop()}

	body := fmt.Sprintf(`{"registrationData":{"event":"%s","user":"%s"}}`,
		primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
	w := doJSON(registrationRouter(h), "POST", "/api/eventregistrations", body, nil)
	requireStatus(t, w, http.StatusCreated)
	mailer.assertNoSend(t)
}

func TestGetRegistrationsByUser(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		h := &RegistrationHandler{Store: &fakeRegistrationStore{}, Log: zerolog.Nop()}
		w := doJSON(registrationRouter(h), "GET", "/api/eventregistrations/user/"+primitive.NewObjectID().Hex(), "", nil)
		requireStatus(t, w, http.StatusNotFound)
	})

	t.Run("populated", func(t *testing.T) {
		st := &fakeRegistrationStore{byUser: []models.PopulatedEventRegistration{
			{ID: primitive.NewObjectID(), Event: &models.EventSummary{Name: "Park Meetup"}},
		}}
		h := &RegistrationHandler{Store: st, Log: zerolog.Nop()}
		w := doJSON(registrationRouter(h), "GET", "/api/eventregistrations/user/"+primitive.NewObjectID().Hex(), "", nil)
		requireStatus(t, w, http.StatusOK)

		data := decodeBody(t, w)["data"].([]any)
		entry := data[0].(map[string]any)
		if entry["event"].(map[string]any)["name"] != "Park Meetup" {
			t.Fatalf("unexpected registration %v", entry)
		}
	})
}
