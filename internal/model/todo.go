// Package model defines domain entities for the application.
package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Todo represents a single todo item.
// CompletedAt is epoch milliseconds and is nil whenever Completed is false.
type Todo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text        string             `bson:"text" json:"text"`
	Completed   bool               `bson:"completed" json:"completed"`
	CompletedAt *int64             `bson:"completedAt" json:"completedAt"`
}

// NewTodo builds a Todo from raw input text.
// The text is trimmed; an empty result is a validation failure.
func NewTodo(text string) (*Todo, error) {
	text, err := NormalizeTodoText(text)
	if err != nil {
		return nil, err
	}

	return &Todo{
		Text:      text,
		Completed: false,
	}, nil
}

// NormalizeTodoText trims raw input text for storage.
// Text that trims to empty is a validation failure; this rule applies to
// creation and to patches alike so whitespace-only text never persists.
func NormalizeTodoText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", newValidationError(map[string]string{
			"text": "text is required",
		})
	}
	return text, nil
}

// TodoPatch describes the fields a PATCH request may change.
// Completed and CompletedAt are always set together per the derivation rule.
type TodoPatch struct {
	Text        *string
	Completed   bool
	CompletedAt *int64
}

// ResolveCompletion applies the completion derivation rule: marking a todo
// completed stamps CompletedAt with the current epoch milliseconds; anything
// else forces the pair back to incomplete/nil regardless of supplied values.
func ResolveCompletion(completed *bool, now time.Time) (bool, *int64) {
	if completed != nil && *completed {
		ms := now.UnixMilli()
		return true, &ms
	}
	return false, nil
}
