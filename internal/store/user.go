package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tickline/tickline/internal/model"
)

// Common errors for user store operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

// CreateUser inserts a new user and assigns its id.
// A duplicate email surfaces as ErrEmailExists via the unique index.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if user.Tokens == nil {
		user.Tokens = []model.Token{}
	}

	res, err := s.users().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	user.ID = id

	return nil
}

// GetUserByEmail retrieves a user by their normalized email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var user model.User
	err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// GetUserByToken retrieves the user whose id matches and whose token list
// contains the exact token value at the "auth" access level.
func (s *Store) GetUserByToken(ctx context.Context, id primitive.ObjectID, token string) (*model.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"_id": id,
		"tokens": bson.M{"$elemMatch": bson.M{
			"access": model.AccessAuth,
			"token":  token,
		}},
	}

	var user model.User
	err := s.users().FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by token: %w", err)
	}

	return &user, nil
}

// AddToken appends a token to the user's token list.
func (s *Store) AddToken(ctx context.Context, id primitive.ObjectID, token model.Token) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.users().UpdateByID(ctx, id, bson.M{"$push": bson.M{"tokens": token}})
	if err != nil {
		return fmt.Errorf("failed to add token: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}

// RemoveToken removes only the entries matching the token value,
// leaving the rest of the token list intact.
func (s *Store) RemoveToken(ctx context.Context, id primitive.ObjectID, token string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.users().UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"tokens": bson.M{"token": token}},
	})
	if err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}
