package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tickline/tickline/internal/handler/dto"
	"github.com/tickline/tickline/internal/metrics"
	"github.com/tickline/tickline/internal/model"
	"github.com/tickline/tickline/internal/store"
)

// stubTodoStore is an in-memory TodoStore for handler tests.
type stubTodoStore struct {
	todos map[primitive.ObjectID]*model.Todo
	order []primitive.ObjectID
	err   error // forced error for every operation when set
}

func newStubTodoStore() *stubTodoStore {
	return &stubTodoStore{todos: make(map[primitive.ObjectID]*model.Todo)}
}

func (s *stubTodoStore) CreateTodo(_ context.Context, todo *model.Todo) error {
	if s.err != nil {
		return s.err
	}
	todo.ID = primitive.NewObjectID()
	s.todos[todo.ID] = todo
	s.order = append(s.order, todo.ID)
	return nil
}

func (s *stubTodoStore) ListTodos(_ context.Context) ([]model.Todo, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []model.Todo{}
	for _, id := range s.order {
		out = append(out, *s.todos[id])
	}
	return out, nil
}

func (s *stubTodoStore) GetTodo(_ context.Context, id primitive.ObjectID) (*model.Todo, error) {
	if s.err != nil {
		return nil, s.err
	}
	todo, ok := s.todos[id]
	if !ok {
		return nil, store.ErrTodoNotFound
	}
	return todo, nil
}

func (s *stubTodoStore) DeleteTodo(_ context.Context, id primitive.ObjectID) (*model.Todo, error) {
	if s.err != nil {
		return nil, s.err
	}
	todo, ok := s.todos[id]
	if !ok {
		return nil, store.ErrTodoNotFound
	}
	delete(s.todos, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return todo, nil
}

func (s *stubTodoStore) UpdateTodo(_ context.Context, id primitive.ObjectID, patch model.TodoPatch) (*model.Todo, error) {
	if s.err != nil {
		return nil, s.err
	}
	todo, ok := s.todos[id]
	if !ok {
		return nil, store.ErrTodoNotFound
	}
	if patch.Text != nil {
		todo.Text = *patch.Text
	}
	todo.Completed = patch.Completed
	todo.CompletedAt = patch.CompletedAt
	return todo, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTodoRouter(s *stubTodoStore) http.Handler {
	h := NewTodoHandler(s, testLogger(), metrics.NewNoop())

	r := chi.NewRouter()
	r.Post("/todos", h.Create)
	r.Get("/todos", h.List)
	r.Get("/todos/{id}", h.Get)
	r.Delete("/todos/{id}", h.Delete)
	r.Patch("/todos/{id}", h.Update)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTodoCreate_ThenListContainsIt(t *testing.T) {
	t.Parallel()

	s := newStubTodoStore()
	router := newTodoRouter(s)

	rec := doRequest(t, router, http.MethodPost, "/todos", `{"text":"  walk the dog  "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var created model.Todo
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Text != "walk the dog" {
		t.Errorf("Text = %q, want trimmed %q", created.Text, "walk the dog")
	}
	if created.Completed || created.CompletedAt != nil {
		t.Error("new todo must be incomplete with null completedAt")
	}

	listRec := doRequest(t, router, http.MethodGet, "/todos", "")
	if listRec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", listRec.Code)
	}

	var listed dto.TodosEnvelope
	if err := json.NewDecoder(listRec.Body).Decode(&listed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(listed.Todos) != 1 || listed.Todos[0].Text != "walk the dog" {
		t.Errorf("unexpected list: %+v", listed.Todos)
	}
}

func TestTodoCreate_EmptyBody(t *testing.T) {
	t.Parallel()

	s := newStubTodoStore()
	router := newTodoRouter(s)

	rec := doRequest(t, router, http.MethodPost, "/todos", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if len(s.todos) != 0 {
		t.Error("stored count must not change on failed create")
	}
}

func TestTodoCreate_BlankText(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTodoRouter(newStubTodoStore()), http.MethodPost, "/todos", `{"text":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Fields["text"] == "" {
		t.Errorf("expected a text field detail, got %+v", resp)
	}
}

func TestTodoGet_MalformedID(t *testing.T) {
	t.Parallel()

	router := newTodoRouter(newStubTodoStore())

	// Malformed and absent ids are indistinguishable: 404, empty body.
	for _, path := range []string{"/todos/1234abvc", "/todos/" + primitive.NewObjectID().Hex()} {
		rec := doRequest(t, router, http.MethodGet, path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s: expected status 404, got %d", path, rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("GET %s: expected empty body, got %q", path, rec.Body.String())
		}
	}
}

func TestTodoDelete_ThenGetReturns404(t *testing.T) {
	t.Parallel()

	s := newStubTodoStore()
	router := newTodoRouter(s)

	todo, _ := model.NewTodo("temporary")
	_ = s.CreateTodo(context.Background(), todo)

	rec := doRequest(t, router, http.MethodDelete, "/todos/"+todo.ID.Hex(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp dto.DocEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Doc == nil || resp.Doc.Text != "temporary" {
		t.Errorf("expected the deleted document back, got %+v", resp.Doc)
	}

	getRec := doRequest(t, router, http.MethodGet, "/todos/"+todo.ID.Hex(), "")
	if getRec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 after delete, got %d", getRec.Code)
	}
}

func TestTodoDelete_MalformedID(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTodoRouter(newStubTodoStore()), http.MethodDelete, "/todos/1234abvc", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

func TestTodoUpdate_CompletedTrueStampsTimestamp(t *testing.T) {
	t.Parallel()

	s := newStubTodoStore()
	router := newTodoRouter(s)

	todo, _ := model.NewTodo("finish the report")
	_ = s.CreateTodo(context.Background(), todo)

	rec := doRequest(t, router, http.MethodPatch, "/todos/"+todo.ID.Hex(), `{"completed":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp dto.DocEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Doc.Completed {
		t.Error("expected completed true")
	}
	if resp.Doc.CompletedAt == nil || *resp.Doc.CompletedAt <= 0 {
		t.Errorf("expected a numeric completedAt, got %v", resp.Doc.CompletedAt)
	}
}

func TestTodoUpdate_CompletedFalseClearsTimestamp(t *testing.T) {
	t.Parallel()

	s := newStubTodoStore()
	router := newTodoRouter(s)

	completedAt := int64(333)
	todo := &model.Todo{Text: "second test todo", Completed: true, CompletedAt: &completedAt}
	_ = s.CreateTodo(context.Background(), todo)

	rec := doRequest(t, router, http.MethodPatch, "/todos/"+todo.ID.Hex(), `{"completed":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp dto.DocEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Doc.Completed {
		t.Error("expected completed false")
	}
	if resp.Doc.CompletedAt != nil {
		t.Errorf("expected null completedAt, got %d", *resp.Doc.CompletedAt)
	}
}

func TestTodoUpdate_TrimsText(t *testing.T) {
	t.Parallel()

	s := newStubTodoStore()
	router := newTodoRouter(s)

	todo, _ := model.NewTodo("original")
	_ = s.CreateTodo(context.Background(), todo)

	rec := doRequest(t, router, http.MethodPatch, "/todos/"+todo.ID.Hex(), `{"text":"  walk the dog  "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp dto.DocEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Doc.Text != "walk the dog" {
		t.Errorf("Text = %q, want trimmed %q", resp.Doc.Text, "walk the dog")
	}
	if s.todos[todo.ID].Text != "walk the dog" {
		t.Errorf("persisted Text = %q, want trimmed %q", s.todos[todo.ID].Text, "walk the dog")
	}
}

func TestTodoUpdate_WhitespaceOnlyText(t *testing.T) {
	t.Parallel()

	s := newStubTodoStore()
	router := newTodoRouter(s)

	todo, _ := model.NewTodo("original")
	_ = s.CreateTodo(context.Background(), todo)

	// Whitespace-only text is rejected on update exactly like at creation.
	rec := doRequest(t, router, http.MethodPatch, "/todos/"+todo.ID.Hex(), `{"text":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Fields["text"] == "" {
		t.Errorf("expected a text field detail, got %+v", resp)
	}
	if s.todos[todo.ID].Text != "original" {
		t.Errorf("stored text must not change on failed update, got %q", s.todos[todo.ID].Text)
	}
}

func TestTodoUpdate_UnknownID(t *testing.T) {
	t.Parallel()

	path := "/todos/" + primitive.NewObjectID().Hex()
	rec := doRequest(t, newTodoRouter(newStubTodoStore()), http.MethodPatch, path, `{"completed":true}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

func TestTodoList_StoreErrorRedacted(t *testing.T) {
	t.Parallel()

	s := newStubTodoStore()
	s.err = errors.New("mongo: connection refused to 10.0.0.5:27017")
	router := newTodoRouter(s)

	rec := doRequest(t, router, http.MethodGet, "/todos", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Error("store internals must not leak to the caller")
	}
}
