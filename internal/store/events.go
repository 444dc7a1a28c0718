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

// CreateEvent inserts an event. The location must already be geocoded; the
// store never sees free-text addresses.
func (s *Store) CreateEvent(ctx context.Context, e models.Event) (models.Event, error) {
	if e.MaxParticipants < 0 {
		return models.Event{}, fmt.Errorf("%w: maxParticipants must not be negative", ErrValidation)
	}
	res, err := s.events.InsertOne(ctx, e)
	if err != nil {
		return models.Event{}, wrapWrite(err, "event")
	}
	e.ID = res.InsertedID.(primitive.ObjectID)
	return e, nil
}

// Events lists every event, soonest first, populated.
func (s *Store) Events(ctx context.Context) ([]models.PopulatedEvent, error) {
	return s.populatedEvents(ctx, bson.M{})
}

// EventsByHost lists the events hosted by one user, soonest first.
func (s *Store) EventsByHost(ctx context.Context, hostID primitive.ObjectID) ([]models.PopulatedEvent, error) {
	return s.populatedEvents(ctx, bson.M{"host": hostID})
}

// Event fetches a single populated event by id.
func (s *Store) Event(ctx context.Context, id primitive.ObjectID) (models.PopulatedEvent, error) {
	out, err := s.populatedEvents(ctx, bson.M{"_id": id})
	if err != nil {
		return models.PopulatedEvent{}, err
	}
	if len(out) == 0 {
		return models.PopulatedEvent{}, ErrNotFound
	}
	return out[0], nil
}

func (s *Store) populatedEvents(ctx context.Context, filter bson.M) ([]models.PopulatedEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cur, err := s.events.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}

	hostIDs := make([]primitive.ObjectID, 0, len(events))
	categoryIDs := make([]primitive.ObjectID, 0, len(events))
	for _, e := range events {
		hostIDs = append(hostIDs, e.Host)
		categoryIDs = append(categoryIDs, e.Category)
	}

	refs, err := s.userRefs(ctx, hostIDs)
	if err != nil {
		return nil, err
	}
	categories, err := s.eventCategoriesByID(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.PopulatedEvent, 0, len(events))
	for _, e := range events {
		p := models.PopulatedEvent{
			ID:              e.ID,
			Name:            e.Name,
			Location:        e.Location,
			MaxParticipants: e.MaxParticipants,
			Description:     e.Description,
			StartTime:       e.StartTime,
		}
		if ref, ok := refs[e.Host]; ok {
			p.Host = &ref
		}
		if c, ok := categories[e.Category]; ok {
			p.Category = &c
		}
		out = append(out, p)
	}
	return out, nil
}

// EventUpdate carries the fields a PUT may change. The handler geocodes the
// free-text location, when present, into Location before calling the store.
type EventUpdate struct {
	Name            *string
	Location        *models.EventLocation
	Category        *primitive.ObjectID
	MaxParticipants *int
	Description     *string
	StartTime       *time.Time
}

func (u EventUpdate) setDoc() bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.MaxParticipants != nil {
		set["maxParticipants"] = *u.MaxParticipants
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.StartTime != nil {
		set["startTime"] = *u.StartTime
	}
	return set
}

// UpdateEvent merges the provided fields into the stored event and returns
// the updated document. ErrNotFound when no event matches the id.
func (s *Store) UpdateEvent(ctx context.Context, id primitive.ObjectID, update EventUpdate) (models.Event, error) {
	if update.MaxParticipants != nil && *update.MaxParticipants < 0 {
		return models.Event{}, fmt.Errorf("%w: maxParticipants must not be negative", ErrValidation)
	}

	set := update.setDoc()
	var e models.Event
	if len(set) == 0 {
		err := s.events.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, ErrNotFound
		}
		return e, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.events.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Event{}, ErrNotFound
	}
	if err != nil {
		return models.Event{}, wrapWrite(err, "event")
	}
	return e, nil
}

// DeleteEvent removes an event by id; deleting a missing event is a no-op.
func (s *Store) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.events, id)
}

// CreateEventCategory adds a category. Category names are unique.
func (s *Store) CreateEventCategory(ctx context.Context, name, header string) (models.EventCategory, error) {
	c := models.EventCategory{Name: name, Header: header}
	res, err := s.eventCategories.InsertOne(ctx, c)
	if err != nil {
		return models.EventCategory{}, wrapWrite(err, "event category")
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return c, nil
}

// EventCategories lists all categories sorted by name.
func (s *Store) EventCategories(ctx context.Context) ([]models.EventCategory, error) {
	cur, err := s.eventCategories.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("listing event categories: %w", err)
	}
	defer cur.Close(ctx)

	categories := []models.EventCategory{}
	if err := cur.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// EventCategoryByID fetches one category.
func (s *Store) EventCategoryByID(ctx context.Context, id primitive.ObjectID) (models.EventCategory, error) {
	var c models.EventCategory
	err := s.eventCategories.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.EventCategory{}, ErrNotFound
	}
	if err != nil {
		return models.EventCategory{}, fmt.Errorf("finding event category: %w", err)
	}
	return c, nil
}

func (s *Store) eventCategoriesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.EventCategory, error) {
	categories := make(map[primitive.ObjectID]models.EventCategory, len(ids))
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return categories, nil
	}

	cur, err := s.eventCategories.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("populating event categories: %w", err)
	}
	defer cur.Close(ctx)

	var docs []models.EventCategory
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, c := range docs {
		categories[c.ID] = c
	}
	return categories, nil
}
