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

// CreateUser inserts a new user. The uuid must be unique across the
// collection; violating it returns ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	res, err := s.users.InsertOne(ctx, u)
	if err != nil {
		return models.User{}, wrapWrite(err, "user")
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

// UserByUUID looks a user up by their external-auth id.
func (s *Store) UserByUUID(ctx context.Context, uuid string) (models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"uuid": uuid}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("finding user: %w", err)
	}
	return u, nil
}

// UserByID looks a user up by document id.
func (s *Store) UserByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("finding user: %w", err)
	}
	return u, nil
}

// UserHandles returns the public listing projection, sorted by handle.
func (s *Store) UserHandles(ctx context.Context) ([]models.UserHandle, error) {
	opts := options.Find().
		SetProjection(bson.M{"displayName": 1, "accountHandle": 1, "_id": 0}).
		SetSort(bson.D{{Key: "accountHandle", Value: 1}})

	cur, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer cur.Close(ctx)

	handles := []models.UserHandle{}
	if err := cur.All(ctx, &handles); err != nil {
		return nil, err
	}
	return handles, nil
}

// UserUpdate carries the fields a PUT may change. Nil fields are left
// untouched.
type UserUpdate struct {
	DisplayName     *string `json:"displayName"`
	AccountHandle   *string `json:"accountHandle"`
	PhotoURL        *string `json:"photoURL"`
	Email           *string `json:"email"`
	IsAdministrator *bool   `json:"isAdministrator"`
}

func (u UserUpdate) setDoc() bson.M {
	set := bson.M{}
	if u.DisplayName != nil {
		set["displayName"] = *u.DisplayName
	}
	if u.AccountHandle != nil {
		set["accountHandle"] = *u.AccountHandle
	}
	if u.PhotoURL != nil {
		set["photoURL"] = *u.PhotoURL
	}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.IsAdministrator != nil {
		set["isAdministrator"] = *u.IsAdministrator
	}
	return set
}

// UpdateUser merges the provided fields into the stored user and returns the
// updated document. ErrNotFound when no user matches the id.
func (s *Store) UpdateUser(ctx context.Context, id primitive.ObjectID, update UserUpdate) (models.User, error) {
	set := update.setDoc()
	if len(set) == 0 {
		return s.UserByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, wrapWrite(err, "user")
	}
	return u, nil
}
