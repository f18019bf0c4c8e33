package repository

import (
	"context"
	"fmt"
	"time"

	"wastenot-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// userDocument is the persisted shape of a user profile.
type userDocument struct {
	ID        string    `bson:"_id"`
	Username  string    `bson:"username"`
	Email     string    `bson:"email"`
	FCMToken  string    `bson:"fcmToken,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
}

func (d *userDocument) toModel() *model.UserProfile {
	return &model.UserProfile{
		ID:        d.ID,
		Username:  d.Username,
		Email:     d.Email,
		FCMToken:  d.FCMToken,
		CreatedAt: d.CreatedAt,
	}
}

// CreateUser persists a profile at registration.
func (s *MongoStore) CreateUser(ctx context.Context, u *model.UserProfile) error {
	doc := userDocument{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FCMToken:  u.FCMToken,
		CreatedAt: u.CreatedAt,
	}
	_, err := s.users.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser fetches a profile by identity.
func (s *MongoStore) GetUser(ctx context.Context, id string) (*model.UserProfile, error) {
	var doc userDocument
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.toModel(), nil
}

// GetUserByEmail resolves the email key with a field-equality query.
func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	var doc userDocument
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return doc.toModel(), nil
}

// UpdateUser updates the mutable profile fields.
func (s *MongoStore) UpdateUser(ctx context.Context, id string, username, fcmToken *string) error {
	set := bson.M{}
	if username != nil {
		set["username"] = *username
	}
	if fcmToken != nil {
		set["fcmToken"] = *fcmToken
	}
	if len(set) == 0 {
		return nil
	}

	res, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
