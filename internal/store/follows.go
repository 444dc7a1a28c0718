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

// CreateFollow records that one user follows another. When the unique-follows
// option is on, re-following surfaces ErrDuplicate.
func (s *Store) CreateFollow(ctx context.Context, followedBy, following primitive.ObjectID) (models.Follow, error) {
	f := models.Follow{
		FollowedBy:   followedBy,
		Following:    following,
		DateFollowed: time.Now().UTC(),
	}
	res, err := s.follows.InsertOne(ctx, f)
	if err != nil {
		return models.Follow{}, wrapWrite(err, "follow")
	}
	f.ID = res.InsertedID.(primitive.ObjectID)
	return f, nil
}

// Following lists everyone the given user follows, oldest first, with the
// followed user populated.
func (s *Store) Following(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedFollow, error) {
	return s.populatedFollows(ctx, bson.M{"followedBy": userID}, "following")
}

// Followers lists everyone following the given user, oldest first, with the
// follower populated.
func (s *Store) Followers(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedFollow, error) {
	return s.populatedFollows(ctx, bson.M{"following": userID}, "followedBy")
}

func (s *Store) populatedFollows(ctx context.Context, filter bson.M, side string) ([]models.PopulatedFollow, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dateFollowed", Value: 1}})
	cur, err := s.follows.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing follows: %w", err)
	}
	defer cur.Close(ctx)

	var follows []models.Follow
	if err := cur.All(ctx, &follows); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(follows))
	for _, f := range follows {
		if side == "following" {
			ids = append(ids, f.Following)
		} else {
			ids = append(ids, f.FollowedBy)
		}
	}
	refs, err := s.userRefs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.PopulatedFollow, 0, len(follows))
	for _, f := range follows {
		p := models.PopulatedFollow{ID: f.ID, DateFollowed: f.DateFollowed}
		if side == "following" {
			if ref, ok := refs[f.Following]; ok {
				p.Following = &ref
			}
		} else {
			if ref, ok := refs[f.FollowedBy]; ok {
				p.FollowedBy = &ref
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// DeleteFollow removes a follow by id; deleting a missing follow is a no-op.
func (s *Store) DeleteFollow(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.follows, id)
}
