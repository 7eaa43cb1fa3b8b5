// Package store provides document store access layer.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	todosCollection = "todos"
	usersCollection = "users"
)

// defaultOpTimeout bounds store calls when no explicit timeout is configured.
const defaultOpTimeout = 5 * time.Second

// Store provides document store access methods.
// One Store is created at startup and shared for the process lifetime.
type Store struct {
	client    *mongo.Client
	db        *mongo.Database
	opTimeout time.Duration
}

// New connects to the document store and verifies the connection.
// opTimeout bounds every subsequent store call; zero selects the default.
func New(ctx context.Context, mongoURL, database string, opTimeout time.Duration) (*Store, error) {
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Store{
		client:    client,
		db:        client.Database(database),
		opTimeout: opTimeout,
	}, nil
}

// EnsureIndexes creates the unique email index.
// Safe to call on every startup; index creation is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

// Reset drops both collections. Intended for test setup only.
func (s *Store) Reset(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.todos().Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop todos: %w", err)
	}
	if err := s.users().Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop users: %w", err)
	}
	return nil
}

// Ping checks store connectivity.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

// Close releases the client connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) todos() *mongo.Collection {
	return s.db.Collection(todosCollection)
}

func (s *Store) users() *mongo.Collection {
	return s.db.Collection(usersCollection)
}

// withTimeout bounds a store call so a slow store surfaces as an error
// instead of hanging the request.
func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}
