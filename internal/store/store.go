package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Eventhood/Eventhood-backend/internal/models"
)

var (
	// ErrNotFound is returned by single-document reads with no match.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("already exists")
	// ErrValidation is returned when submitted data fails a schema rule.
	ErrValidation = errors.New("invalid data")
)

// Options toggles the uniqueness constraints on relationship pairs. The
// legacy data set contains duplicate follows and registrations, so both are
// opt-in.
type Options struct {
	UniqueFollows       bool
	UniqueRegistrations bool
}

// Store owns every collection access pattern. It is constructed once at
// startup and injected into the handlers.
type Store struct {
	opts Options

	users           *mongo.Collection
	follows         *mongo.Collection
	ratings         *mongo.Collection
	contactRequests *mongo.Collection
	contactTopics   *mongo.Collection
	events          *mongo.Collection
	eventCategories *mongo.Collection
	eventReports    *mongo.Collection
	reportTopics    *mongo.Collection
	faqTopics       *mongo.Collection
	faqQuestions    *mongo.Collection
	registrations   *mongo.Collection
}

func New(db *mongo.Database, opts Options) *Store {
	return &Store{
		opts:            opts,
		users:           db.Collection("users"),
		follows:         db.Collection("follows"),
		ratings:         db.Collection("ratings"),
		contactRequests: db.Collection("contactrequests"),
		contactTopics:   db.Collection("contacttopics"),
		events:          db.Collection("events"),
		eventCategories: db.Collection("eventcategories"),
		eventReports:    db.Collection("eventreports"),
		reportTopics:    db.Collection("reporttopics"),
		faqTopics:       db.Collection("faqtopics"),
		faqQuestions:    db.Collection("faqquestions"),
		registrations:   db.Collection("eventregistrations"),
	}
}

// EnsureIndexes creates the unique indexes the schema relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	byName := mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique}

	indexed := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.users, mongo.IndexModel{Keys: bson.D{{Key: "uuid", Value: 1}}, Options: unique}},
		{s.contactTopics, byName},
		{s.eventCategories, byName},
		{s.reportTopics, byName},
		{s.faqTopics, byName},
		{s.faqQuestions, mongo.IndexModel{Keys: bson.D{{Key: "question", Value: 1}}, Options: unique}},
	}

	if s.opts.UniqueFollows {
		indexed = append(indexed, struct {
			coll  *mongo.Collection
			model mongo.IndexModel
		}{s.follows, mongo.IndexModel{
			Keys:    bson.D{{Key: "followedBy", Value: 1}, {Key: "following", Value: 1}},
			Options: unique,
		}})
	}
	if s.opts.UniqueRegistrations {
		indexed = append(indexed, struct {
			coll  *mongo.Collection
			model mongo.IndexModel
		}{s.registrations, mongo.IndexModel{
			Keys:    bson.D{{Key: "event", Value: 1}, {Key: "user", Value: 1}},
			Options: unique,
		}})
	}

	for _, ix := range indexed {
		if _, err := ix.coll.Indexes().CreateOne(ctx, ix.model); err != nil {
			return fmt.Errorf("create index on %s: %w", ix.coll.Name(), err)
		}
	}
	return nil
}

// wrapWrite maps driver errors from inserts and updates onto the store's
// sentinel errors.
func wrapWrite(err error, what string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: a %s with that data already exists", ErrDuplicate, what)
	}
	return fmt.Errorf("saving %s: %w", what, err)
}

// deleteByID removes at most one document and succeeds even when nothing
// matched.
func deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) error {
	if _, err := coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("deleting from %s: %w", coll.Name(), err)
	}
	return nil
}

// dedupeIDs keeps the first occurrence of each id, preserving order.
func dedupeIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// userRefs fetches the partial user projection for the given ids, keyed by
// id, for read-time population.
func (s *Store) userRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error) {
	refs := make(map[primitive.ObjectID]models.UserRef, len(ids))
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return refs, nil
	}

	proj := bson.M{"displayName": 1, "accountHandle": 1, "photoURL": 1}
	cur, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(proj))
	if err != nil {
		return nil, fmt.Errorf("populating users: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc struct {
			ID            primitive.ObjectID `bson:"_id"`
			DisplayName   string             `bson:"displayName"`
			AccountHandle string             `bson:"accountHandle"`
			PhotoURL      string             `bson:"photoURL"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		refs[doc.ID] = models.UserRef{
			DisplayName:   doc.DisplayName,
			AccountHandle: doc.AccountHandle,
			PhotoURL:      doc.PhotoURL,
		}
	}
	return refs, cur.Err()
}

// eventSummaries fetches the partial event projection for the given ids.
func (s *Store) eventSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.EventSummary, error) {
	sums := make(map[primitive.ObjectID]models.EventSummary, len(ids))
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return sums, nil
	}

	proj := bson.M{"name": 1, "location": 1, "startTime": 1}
	cur, err := s.events.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(proj))
	if err != nil {
		return nil, fmt.Errorf("populating events: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc models.Event
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		sums[doc.ID] = models.EventSummary{
			Name:      doc.Name,
			Location:  doc.Location,
			StartTime: doc.StartTime,
		}
	}
	return sums, cur.Err()
}
