package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Eventhood/Eventhood-backend/internal/models"
)

// CreateContactRequest opens a new support request. New requests start open
// and unclaimed.
func (s *Store) CreateContactRequest(ctx context.Context, user, topic primitive.ObjectID, message string) (models.ContactRequest, error) {
	cr := models.ContactRequest{
		User:        user,
		Topic:       topic,
		Message:     message,
		RequestDate: time.Now().UTC(),
		RequestOpen: true,
	}
	res, err := s.contactRequests.InsertOne(ctx, cr)
	if err != nil {
		return models.ContactRequest{}, wrapWrite(err, "contact request")
	}
	cr.ID = res.InsertedID.(primitive.ObjectID)
	return cr, nil
}

// ContactRequests lists every request, newest first, populated.
func (s *Store) ContactRequests(ctx context.Context) ([]models.PopulatedContactRequest, error) {
	return s.populatedContactRequests(ctx, bson.M{})
}

// ContactRequest fetches a single populated request by id.
func (s *Store) ContactRequest(ctx context.Context, id primitive.ObjectID) (models.PopulatedContactRequest, error) {
	out, err := s.populatedContactRequests(ctx, bson.M{"_id": id})
	if err != nil {
		return models.PopulatedContactRequest{}, err
	}
	if len(out) == 0 {
		return models.PopulatedContactRequest{}, ErrNotFound
	}
	return out[0], nil
}

// contactRequestUserFilter builds the listing filter for one user's
// requests. A nil flag leaves the corresponding field unconstrained.
func contactRequestUserFilter(userID primitive.ObjectID, open, claimed *bool) bson.M {
	filter := bson.M{"user": userID}
	if open != nil {
		filter["requestOpen"] = *open
	}
	if claimed != nil {
		filter["handlingStaff.claimed"] = *claimed
	}
	return filter
}

// ContactRequestsByUser lists one user's requests, optionally constrained to
// an open/closed state and a claimed/unclaimed state.
func (s *Store) ContactRequestsByUser(ctx context.Context, userID primitive.ObjectID, open, claimed *bool) ([]models.PopulatedContactRequest, error) {
	return s.populatedContactRequests(ctx, contactRequestUserFilter(userID, open, claimed))
}

func (s *Store) populatedContactRequests(ctx context.Context, filter bson.M) ([]models.PopulatedContactRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "requestDate", Value: -1}})
	cur, err := s.contactRequests.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing contact requests: %w", err)
	}
	defer cur.Close(ctx)

	var requests []models.ContactRequest
	if err := cur.All(ctx, &requests); err != nil {
		return nil, err
	}

	userIDs := make([]primitive.ObjectID, 0, len(requests))
	topicIDs := make([]primitive.ObjectID, 0, len(requests))
	for _, r := range requests {
		userIDs = append(userIDs, r.User)
		topicIDs = append(topicIDs, r.Topic)
	}

	refs, err := s.userRefs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	topics, err := s.contactTopicsByID(ctx, topicIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.PopulatedContactRequest, 0, len(requests))
	for _, r := range requests {
		p := models.PopulatedContactRequest{
			ID:            r.ID,
			Message:       r.Message,
			RequestDate:   r.RequestDate,
			RequestOpen:   r.RequestOpen,
			HandlingStaff: r.HandlingStaff,
		}
		if ref, ok := refs[r.User]; ok {
			p.User = &ref
		}
		if t, ok := topics[r.Topic]; ok {
			p.Topic = &t
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) contactTopicsByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.ContactTopic, error) {
	topics := make(map[primitive.ObjectID]models.ContactTopic, len(ids))
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return topics, nil
	}

	cur, err := s.contactTopics.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("populating contact topics: %w", err)
	}
	defer cur.Close(ctx)

	var docs []models.ContactTopic
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, t := range docs {
		topics[t.ID] = t
	}
	return topics, nil
}

// CreateContactTopic adds a support topic. Topic names are unique.
func (s *Store) CreateContactTopic(ctx context.Context, name string) (models.ContactTopic, error) {
	t := models.ContactTopic{Name: name}
	res, err := s.contactTopics.InsertOne(ctx, t)
	if err != nil {
		return models.ContactTopic{}, wrapWrite(err, "support topic")
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return t, nil
}

// ContactTopics lists all support topics sorted by name.
func (s *Store) ContactTopics(ctx context.Context) ([]models.ContactTopic, error) {
	cur, err := s.contactTopics.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("listing support topics: %w", err)
	}
	defer cur.Close(ctx)

	topics := []models.ContactTopic{}
	if err := cur.All(ctx, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// ContactTopicByID fetches one support topic.
func (s *Store) ContactTopicByID(ctx context.Context, id primitive.ObjectID) (models.ContactTopic, error) {
	var t models.ContactTopic
	err := s.contactTopics.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ContactTopic{}, ErrNotFound
	}
	if err != nil {
		return models.ContactTopic{}, fmt.Errorf("finding support topic: %w", err)
	}
	return t, nil
}
