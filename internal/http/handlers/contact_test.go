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

type byUserCall struct {
	open    *bool
	claimed *bool
}

type fakeContactStore struct {
	users map[primitive.ObjectID]models.User

	created   []models.ContactRequest
	createErr error

	all    []models.PopulatedContactRequest
	single models.PopulatedContactRequest

	byUser      []models.PopulatedContactRequest
	byUserCalls []byUserCall

	topics []models.ContactTopic
	topic  models.ContactTopic
}

func (s *fakeContactStore) CreateContactRequest(_ context.Context, user, topic primitive.ObjectID, message string) (models.ContactRequest, error) {
	if s.createErr != nil {
		return models.ContactRequest{}, s.createErr
	}
	cr := models.ContactRequest{
		ID:          primitive.NewObjectID(),
		User:        user,
		Topic:       topic,
		Message:     message,
		RequestDate: time.Now().UTC(),
		RequestOpen: true,
	}
	s.created = append(s.created, cr)
	return cr, nil
}

func (s *fakeContactStore) ContactRequests(context.Context) ([]models.PopulatedContactRequest, error) {
	return s.all, nil
}

func (s *fakeContactStore) ContactRequest(context.Context, primitive.ObjectID) (models.PopulatedContactRequest, error) {
	return s.single, nil
}

func (s *fakeContactStore) ContactRequestsByUser(_ context.Context, _ primitive.ObjectID, open, claimed *bool) ([]models.PopulatedContactRequest, error) {
	s.byUserCalls = append(s.byUserCalls, byUserCall{open: open, claimed: claimed})
	return s.byUser, nil
}

func (s *fakeContactStore) CreateContactTopic(_ context.Context, name string) (models.ContactTopic, error) {
	return models.ContactTopic{ID: primitive.NewObjectID(), Name: name}, nil
}

func (s *fakeContactStore) ContactTopics(context.Context) ([]models.ContactTopic, error) {
	return s.topics, nil
}

func (s *fakeContactStore) ContactTopicByID(context.Context, primitive.ObjectID) (models.ContactTopic, error) {
	return s.topic, nil
}

func (s *fakeContactStore) UserByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func contactRouter(h *ContactHandler) *gin.Engine {
	r := gin.New()
	r.POST("/api/contactrequests", h.CreateRequest)
	r.GET("/api/contactrequests", h.ListRequests)
	r.GET("/api/contactrequests/single/:id", h.GetRequest)
	r.GET("/api/contactrequests/user/:id", h.ListRequestsByUser)
	r.POST("/api/supporttopics", h.CreateTopic)
	r.GET("/api/supporttopics", h.ListTopics)
	r.GET("/api/supporttopics/:id", h.GetTopic)
	return r
}

func TestCreateContactRequestNotifies(t *testing.T) {
	userID := primitive.NewObjectID()
	st := &fakeContactStore{users: map[primitive.ObjectID]models.User{
		userID: {ID: userID, DisplayName: "Pat", Email: "pat@example.com"},
	}}
	mailer := newFakeMailer()
	h := &ContactHandler{Store: st, Mailer: mailer, Log: zerolog.Nop()}

	body := fmt.Sprintf(`{"contactRequestData":{"user":"%s","topic":"%s","message":"Please help."}}`,
		userID.Hex(), primitive.NewObjectID().Hex())
	w := doJSON(contactRouter(h), "POST", "/api/contactrequests", body, nil)
	requireStatus(t, w, http.StatusCreated)

	if len(st.created) != 1 || !st.created[0].RequestOpen {
		t.Fatalf("expected one open request, got %+v", st.created)
	}

	call := mailer.waitForSend(t)
	if call.Template != mail.TemplateContactRequest || call.To != "pat@example.com" {
		t.Fatalf("unexpected notification %+v", call)
	}
}

func TestCreateContactRequestUnknownUserStillSucceeds(t *testing.T) {
	st := &fakeContactStore{users: map[primitive.ObjectID]models.User{}}
	mailer := newFakeMailer()
	h := &ContactHandler{Store: st, Mailer: mailer, Log: zerolog.Nop()}

	body := fmt.Sprintf(`{"contactRequestData":{"user":"%s","topic":"%s","message":"Please help."}}`,
		primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
	w := doJSON(contactRouter(h), "POST", "/api/contactrequests", body, nil)
	requireStatus(t, w, http.StatusCreated)
	mailer.assertNoSend(t)
}

func TestListContactRequestsByUserFilters(t *testing.T) {
	userID := primitive.NewObjectID()
	request := models.PopulatedContactRequest{ID: primitive.NewObjectID(), Message: "hi"}

	t.Run("no params leaves both unconstrained", func(t *testing.T) {
		st := &fakeContactStore{byUser: []models.PopulatedContactRequest{request, request}}
		h := &ContactHandler{Store: st, Log: zerolog.Nop()}

		w := doJSON(contactRouter(h), "GET", "/api/contactrequests/user/"+userID.Hex(), "", nil)
		requireStatus(t, w, http.StatusOK)

		call := st.byUserCalls[0]
		if call.open != nil || call.claimed != nil {
			t.Fatalf("expected nil flags, got %+v", call)
		}
		if len(decodeBody(t, w)["data"].([]any)) != 2 {
			t.Fatal("expected both requests back")
		}
	})

	t.Run("explicit params constrain the filter", func(t *testing.T) {
		st := &fakeContactStore{byUser: []models.PopulatedContactRequest{request}}
		h := &ContactHandler{Store: st, Log: zerolog.Nop()}

		w := doJSON(contactRouter(h), "GET", "/api/contactrequests/user/"+userID.Hex()+"?includeClosed=false&includeClaimed=true", "", nil)
		requireStatus(t, w, http.StatusOK)

		call := st.byUserCalls[0]
		if call.open == nil || *call.open != false {
			t.Fatalf("expected open=false, got %+v", call.open)
		}
		if call.claimed == nil || *call.claimed != true {
			t.Fatalf("expected claimed=true, got %+v", call.claimed)
		}
	})

	t.Run("unparseable params are ignored", func(t *testing.T) {
		st := &fakeContactStore{byUser: []models.PopulatedContactRequest{request}}
		h := &ContactHandler{Store: st, Log: zerolog.Nop()}

		w := doJSON(contactRouter(h), "GET", "/api/contactrequests/user/"+userID.Hex()+"?includeClosed=maybe", "", nil)
		requireStatus(t, w, http.StatusOK)

		if st.byUserCalls[0].open != nil {
			t.Fatal("an unparseable flag must not constrain the filter")
		}
	})

	t.Run("no matches", func(t *testing.T) {
		st := &fakeContactStore{}
		h := &ContactHandler{Store: st, Log: zerolog.Nop()}
		w := doJSON(contactRouter(h), "GET", "/api/contactrequests/user/"+userID.Hex(), "", nil)
		requireStatus(t, w, http.StatusNotFound)
	})
}

func TestCreateSupportTopic(t *testing.T) {
	h := &ContactHandler{Store: &fakeContactStore{}, Log: zerolog.Nop()}
	w := doJSON(contactRouter(h), "POST", "/api/supporttopics", `{"topicData":{"name":"Billing"}}`, nil)
	requireStatus(t, w, http.StatusCreated)

	data := decodeBody(t, w)["data"].(map[string]any)
	if data["name"] != "Billing" {
		t.Fatalf("unexpected topic %v", data)
	}
}
