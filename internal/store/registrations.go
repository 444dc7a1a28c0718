package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Eventhood/Eventhood-backend/internal/models"
)

// CreateEventRegistration signs a user up for an event. When the
// unique-registrations option is on, re-registering surfaces ErrDuplicate.
func (s *Store) CreateEventRegistration(ctx context.Context, event, user primitive.ObjectID) (models.EventRegistration, error) {
	r := models.EventRegistration{
		Event:      event,
		User:       user,
		Registered: time.Now().UTC(),
	}
	res, err := s.registrations.InsertOne(ctx, r)
	if err != nil {
		return models.EventRegistration{}, wrapWrite(err, "event registration")
	}
	r.ID = res.InsertedID.(primitive.ObjectID)
	return r, nil
}

// EventRegistration fetches a single populated registration by id.
func (s *Store) EventRegistration(ctx context.Context, id primitive.ObjectID) (models.PopulatedEventRegistration, error) {
	out, err := s.populatedRegistrations(ctx, bson.M{"_id": id})
	if err != nil {
		return models.PopulatedEventRegistration{}, err
	}
	if len(out) == 0 {
		return models.PopulatedEventRegistration{}, ErrNotFound
	}
	return out[0], nil
}

// EventRegistrationsByUser lists a user's registrations, most recent first.
func (s *Store) EventRegistrationsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedEventRegistration, error) {
	return s.populatedRegistrations(ctx, bson.M{"user": userID})
}

// CountEventRegistrations reports how many registrations reference an event.
// Used for the capacity check on event detail reads.
func (s *Store) CountEventRegistrations(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	n, err := s.registrations.CountDocuments(ctx, bson.M{"event": eventID})
	if err != nil {
		return 0, fmt.Errorf("counting registrations: %w", err)
	}
	return n, nil
}

func (s *Store) populatedRegistrations(ctx context.Context, filter bson.M) ([]models.PopulatedEventRegistration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "registered", Value: -1}})
	cur, err := s.registrations.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing registrations: %w", err)
	}
	defer cur.Close(ctx)

	var regs []models.EventRegistration
	if err := cur.All(ctx, &regs); err != nil {
		return nil, err
	}

	eventIDs := make([]primitive.ObjectID, 0, len(regs))
	userIDs := make([]primitive.ObjectID, 0, len(regs))
	for _, r := range regs {
		eventIDs = append(eventIDs, r.Event)
		userIDs = append(userIDs, r.User)
	}

	events, err := s.eventSummaries(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	refs, err := s.userRefs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.PopulatedEventRegistration, 0, len(regs))
	for _, r := range regs {
		p := models.PopulatedEventRegistration{ID: r.ID, Registered: r.Registered}
		if e, ok := events[r.Event]; ok {
			p.Event = &e
		}
		if ref, ok := refs[r.User]; ok {
			p.User = &ref
		}
		out = append(out, p)
	}
	return out, nil
}
