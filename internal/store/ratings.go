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

// CreateRating stores a 1-5 star rating of one user by another. Values
// outside the range fail with ErrValidation before touching the collection.
func (s *Store) CreateRating(ctx context.Context, userRated, ratedBy primitive.ObjectID, rating int) (models.Rating, error) {
	if rating < 1 || rating > 5 {
		return models.Rating{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	r := models.Rating{
		UserRated: userRated,
		RatedBy:   ratedBy,
		Rating:    rating,
		DateRated: time.Now().UTC(),
	}
	res, err := s.ratings.InsertOne(ctx, r)
	if err != nil {
		return models.Rating{}, wrapWrite(err, "rating")
	}
	r.ID = res.InsertedID.(primitive.ObjectID)
	return r, nil
}

// RatingsForUser lists the ratings a user has received, oldest first, with
// the rater populated.
func (s *Store) RatingsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedRating, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dateRated", Value: 1}})
	cur, err := s.ratings.Find(ctx, bson.M{"userRated": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing ratings: %w", err)
	}
	defer cur.Close(ctx)

	var ratings []models.Rating
	if err := cur.All(ctx, &ratings); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(ratings))
	for _, r := range ratings {
		ids = append(ids, r.RatedBy)
	}
	refs, err := s.userRefs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.PopulatedRating, 0, len(ratings))
	for _, r := range ratings {
		p := models.PopulatedRating{ID: r.ID, Rating: r.Rating, DateRated: r.DateRated}
		if ref, ok := refs[r.RatedBy]; ok {
			p.RatedBy = &ref
		}
		out = append(out, p)
	}
	return out, nil
}

// DeleteRating removes a rating by id; deleting a missing rating is a no-op.
func (s *Store) DeleteRating(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.ratings, id)
}
