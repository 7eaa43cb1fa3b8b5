package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tickline/tickline/internal/handler/dto"
	"github.com/tickline/tickline/internal/metrics"
	"github.com/tickline/tickline/internal/model"
	"github.com/tickline/tickline/internal/store"
)

// TodoStore is the subset of store operations the todo endpoints need.
type TodoStore interface {
	CreateTodo(ctx context.Context, todo *model.Todo) error
	ListTodos(ctx context.Context) ([]model.Todo, error)
	GetTodo(ctx context.Context, id primitive.ObjectID) (*model.Todo, error)
	DeleteTodo(ctx context.Context, id primitive.ObjectID) (*model.Todo, error)
	UpdateTodo(ctx context.Context, id primitive.ObjectID, patch model.TodoPatch) (*model.Todo, error)
}

// TodoHandler handles HTTP requests for todo operations.
type TodoHandler struct {
	store   TodoStore
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(store TodoStore, logger *slog.Logger, recorder metrics.Recorder) *TodoHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TodoHandler{
		store:   store,
		logger:  logger,
		metrics: recorder,
	}
}

// Create handles POST /todos.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	todo, err := model.NewTodo(req.Text)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if err := h.store.CreateTodo(r.Context(), todo); err != nil {
		h.handleError(w, err)
		return
	}

	h.metrics.IncTodoCreated()
	h.logger.Info("todo_created", "todo_id", todo.ID.Hex())

	writeJSON(w, http.StatusOK, todo)
}

// List handles GET /todos.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	todos, err := h.store.ListTodos(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TodosEnvelope{Todos: todos})
}

// Get handles GET /todos/{id}.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	todo, err := h.store.GetTodo(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TodoEnvelope{Todo: todo})
}

// Delete handles DELETE /todos/{id}.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	doc, err := h.store.DeleteTodo(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.metrics.IncTodoDeleted()
	h.logger.Info("todo_deleted", "todo_id", id.Hex())

	writeJSON(w, http.StatusOK, dto.DocEnvelope{Doc: doc})
}

// Update handles PATCH /todos/{id}.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	patch, err := req.ToPatch(time.Now())
	if err != nil {
		h.handleError(w, err)
		return
	}

	doc, err := h.store.UpdateTodo(r.Context(), id, patch)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.metrics.IncTodoUpdated()
	h.logger.Info("todo_updated", "todo_id", id.Hex(), "completed", doc.Completed)

	writeJSON(w, http.StatusOK, dto.DocEnvelope{Doc: doc})
}

// parseTodoID extracts and validates the id path parameter.
// A malformed id answers exactly like a missing document: 404, empty body.
func parseTodoID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeEmpty(w, http.StatusNotFound)
		return primitive.NilObjectID, false
	}
	return id, true
}

// handleError maps domain errors to HTTP responses.
func (h *TodoHandler) handleError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, store.ErrTodoNotFound):
		writeEmpty(w, http.StatusNotFound)
	default:
		h.logger.Error("internal_error", "error", err)
		writeInternalError(w)
	}
}
