package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tickline/tickline/internal/model"
)

// ErrTodoNotFound indicates no todo matched the given id.
var ErrTodoNotFound = errors.New("todo not found")

// CreateTodo inserts a new todo and assigns its id.
func (s *Store) CreateTodo(ctx context.Context, todo *model.Todo) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.todos().InsertOne(ctx, todo)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	todo.ID = id

	return nil
}

// ListTodos returns all todos in store-native order.
func (s *Store) ListTodos(ctx context.Context) ([]model.Todo, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cursor, err := s.todos().Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	todos := []model.Todo{}
	if err := cursor.All(ctx, &todos); err != nil {
		return nil, fmt.Errorf("failed to decode todos: %w", err)
	}

	return todos, nil
}

// GetTodo retrieves a todo by id.
func (s *Store) GetTodo(ctx context.Context, id primitive.ObjectID) (*model.Todo, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var todo model.Todo
	err := s.todos().FindOne(ctx, bson.M{"_id": id}).Decode(&todo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return &todo, nil
}

// DeleteTodo atomically removes a todo and returns the deleted document.
func (s *Store) DeleteTodo(ctx context.Context, id primitive.ObjectID) (*model.Todo, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var todo model.Todo
	err := s.todos().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&todo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to delete todo: %w", err)
	}

	return &todo, nil
}

// UpdateTodo atomically applies a patch and returns the post-update document.
func (s *Store) UpdateTodo(ctx context.Context, id primitive.ObjectID, patch model.TodoPatch) (*model.Todo, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	set := bson.M{
		"completed":   patch.Completed,
		"completedAt": patch.CompletedAt,
	}
	if patch.Text != nil {
		set["text"] = *patch.Text
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var todo model.Todo
	err := s.todos().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&todo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return &todo, nil
}
