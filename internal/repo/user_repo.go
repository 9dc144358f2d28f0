package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xplorhq/asset-service/internal/domain"
)

const usersColl = "users"

// EnsureUserIndexes creates the unique index on email. The duplicate-email
// check in registration is read-then-write, so this index is what actually
// guarantees one account per email.
func (s *Store) EnsureUserIndexes(ctx context.Context) error {
	_, err := s.DB.Collection(usersColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// FindUserByEmail returns (nil, nil) when no account exists.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.DB.Collection(usersColl).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	u.CreatedAt = time.Now().UTC()
	res, err := s.DB.Collection(usersColl).InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateAccount
	}
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// MarkVerified flips is_verified and clears the pending verification code.
func (s *Store) MarkVerified(ctx context.Context, email string) error {
	_, err := s.DB.Collection(usersColl).UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set":   bson.M{"is_verified": true},
			"$unset": bson.M{"verification_otp": "", "verification_expires": ""},
		})
	return err
}

// SetResetOTP stores (or overwrites) the outstanding password-reset code.
func (s *Store) SetResetOTP(ctx context.Context, email, otp string, expires time.Time) error {
	_, err := s.DB.Collection(usersColl).UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"reset_otp": otp, "reset_expires": expires}})
	return err
}

// ReplacePassword swaps in the new hash and consumes the reset code.
func (s *Store) ReplacePassword(ctx context.Context, email, hash string) error {
	_, err := s.DB.Collection(usersColl).UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set":   bson.M{"hashed_password": hash},
			"$unset": bson.M{"reset_otp": "", "reset_expires": ""},
		})
	return err
}
