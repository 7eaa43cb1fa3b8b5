// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/tickline/tickline/internal/model"
)

// CreateTodoRequest represents the request body for creating a todo.
type CreateTodoRequest struct {
	Text string `json:"text"`
}

// UpdateTodoRequest represents the request body for patching a todo.
// Any other submitted field is silently dropped.
type UpdateTodoRequest struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// ToPatch applies the completion derivation rule and produces the patch to
// persist: completed==true stamps now as epoch milliseconds, anything else
// resets the pair to incomplete/nil regardless of what was supplied.
// Submitted text is trimmed like at creation; whitespace-only text is a
// validation failure.
func (r UpdateTodoRequest) ToPatch(now time.Time) (model.TodoPatch, error) {
	var text *string
	if r.Text != nil {
		trimmed, err := model.NormalizeTodoText(*r.Text)
		if err != nil {
			return model.TodoPatch{}, err
		}
		text = &trimmed
	}

	completed, completedAt := model.ResolveCompletion(r.Completed, now)
	return model.TodoPatch{
		Text:        text,
		Completed:   completed,
		CompletedAt: completedAt,
	}, nil
}

// TodoEnvelope wraps a single todo as {"todo": ...}.
type TodoEnvelope struct {
	Todo *model.Todo `json:"todo"`
}

// TodosEnvelope wraps a list as {"todos": [...]}.
type TodosEnvelope struct {
	Todos []model.Todo `json:"todos"`
}

// DocEnvelope wraps the document returned by delete/update as {"doc": ...}.
type DocEnvelope struct {
	Doc *model.Todo `json:"doc"`
}
