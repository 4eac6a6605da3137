package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hearthhq/hearth/internal/model"
)

func (e *testEnv) todoHandler() *TodoHandler {
	return NewTodoHandler(e.todos, nil, nil, slog.Default())
}

func decodeTodo(t *testing.T, rec *httptest.ResponseRecorder) model.Todo {
	t.Helper()
	var todo model.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todo); err != nil {
		t.Fatalf("decode todo: %v", err)
	}
	return todo
}

func TestTodoCreate(t *testing.T) {
	e := setupHandlerTest(t)
	ac := e.seedUser(t, "mom", "Home", "admin")

	req := authedRequest(http.MethodPost, "/api/todos", strings.NewReader(`{"title": "  Feed the cat  "}`), ac)
	rec := httptest.NewRecorder()
	e.todoHandler().Create(rec, req)

	checkStatus(t, rec, http.StatusCreated)
	todo := decodeTodo(t, rec)
	if todo.Title != "Feed the cat" {
		t.Errorf("title = %q, want trimmed %q", todo.Title, "Feed the cat")
	}
	if todo.Priority != model.DefaultPriority {
		t.Errorf("priority = %q, want default %q", todo.Priority, model.DefaultPriority)
	}
	if todo.CreatedBy != "mom" {
		t.Errorf("created_by = %q, want %q", todo.CreatedBy, "mom")
	}
	if todo.Completed {
		t.Error("new todo should not be completed")
	}
	if todo.ID == "" {
		t.Error("expected a generated id")
	}
}

func TestTodoCreateEmptyTitle(t *testing.T) {
	e := setupHandlerTest(t)
	ac := e.seedUser(t, "mom", "Home", "admin")

	req := authedRequest(http.MethodPost, "/api/todos", strings.NewReader(`{"title": "   "}`), ac)
	rec := httptest.NewRecorder()
	e.todoHandler().Create(rec, req)

	checkStatus(t, rec, http.StatusBadRequest)
	if msg := decodeError(t, rec); msg != "Title is required" {
		t.Errorf("error = %q, want %q", msg, "Title is required")
	}
}

func TestTodoListScopedToHousehold(t *testing.T) {
	e := setupHandlerTest(t)
	mom := e.seedUser(t, "mom", "Home", "admin")
	other := e.seedUser(t, "neighbor", "Next Door", "admin")

	e.todos.Create(mom.HouseholdID, "Dishes", nil, "999", "mom")
	e.todos.Create(mom.HouseholdID, "Laundry", nil, "999", "mom")
	e.todos.Create(other.HouseholdID, "Mow lawn", nil, "999", "neighbor")

	req := authedRequest(http.MethodGet, "/api/todos", nil, mom)
	rec := httptest.NewRecorder()
	e.todoHandler().List(rec, req)

	checkStatus(t, rec, http.StatusOK)
	var todos []model.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todos); err != nil {
		t.Fatalf("decode todos: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("got %d todos, want 2", len(todos))
	}
	for _, todo := range todos {
		if todo.Title == "Mow lawn" {
			t.Error("todo from another household leaked into the list")
		}
	}
}

func TestTodoListEmpty(t *testing.T) {
	e := setupHandlerTest(t)
	ac := e.seedUser(t, "mom", "Home", "admin")

	req := authedRequest(http.MethodGet, "/api/todos", nil, ac)
	rec := httptest.NewRecorder()
	e.todoHandler().List(rec, req)

	checkStatus(t, rec, http.StatusOK)
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("empty list body = %s, want []", body)
	}
}

func TestTodoUpdatePartial(t *testing.T) {
	e := setupHandlerTest(t)
	ac := e.seedUser(t, "mom", "Home", "admin")
	created, err := e.todos.Create(ac.HouseholdID, "Dishes", nil, "5", "mom")
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}

	req := authedRequest(http.MethodPut, "/api/todos/"+created.ID, strings.NewReader(`{"completed": true}`), ac)
	req.SetPathValue("id", created.ID)
	rec := httptest.NewRecorder()
	e.todoHandler().Update(rec, req)

	checkStatus(t, rec, http.StatusOK)
	todo := decodeTodo(t, rec)
	if !todo.Completed {
		t.Error("completed should be true")
	}
	if todo.Title != "Dishes" || todo.Priority != "5" {
		t.Errorf("absent fields changed: title %q priority %q", todo.Title, todo.Priority)
	}
}

func TestTodoUpdateClearsAssignment(t *testing.T) {
	e := setupHandlerTest(t)
	ac := e.seedUser(t, "mom", "Home", "admin")
	dad := "dad"
	created, _ := e.todos.Create(ac.HouseholdID, "Dishes", &dad, "999", "mom")

	req := authedRequest(http.MethodPut, "/api/todos/"+created.ID, strings.NewReader(`{"assigned_to": ""}`), ac)
	req.SetPathValue("id", created.ID)
	rec := httptest.NewRecorder()
	e.todoHandler().Update(rec, req)

	checkStatus(t, rec, http.StatusOK)
	todo := decodeTodo(t, rec)
	if todo.AssignedTo != nil {
		t.Errorf("assigned_to = %q, want cleared", *todo.AssignedTo)
	}
}

func TestTodoUpdateNotFound(t *testing.T) {
	e := setupHandlerTest(t)
	ac := e.seedUser(t, "mom", "Home", "admin")

	req := authedRequest(http.MethodPut, "/api/todos/nope", strings.NewReader(`{"completed": true}`), ac)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	e.todoHandler().Update(rec, req)

	checkStatus(t, rec, http.StatusNotFound)
	if msg := decodeError(t, rec); msg != "Todo not found" {
		t.Errorf("error = %q, want %q", msg, "Todo not found")
	}
}

func TestTodoUpdateOtherHousehold(t *testing.T) {
	e := setupHandlerTest(t)
	mom := e.seedUser(t, "mom", "Home", "admin")
	other := e.seedUser(t, "neighbor", "Next Door", "admin")
	created, _ := e.todos.Create(other.HouseholdID, "Mow lawn", nil, "999", "neighbor")

	req := authedRequest(http.MethodPut, "/api/todos/"+created.ID, strings.NewReader(`{"completed": true}`), mom)
	req.SetPathValue("id", created.ID)
	rec := httptest.NewRecorder()
	e.todoHandler().Update(rec, req)

	// Ids outside the caller's household read as missing
	checkStatus(t, rec, http.StatusNotFound)

	unchanged, _ := e.todos.GetByID(other.HouseholdID, created.ID)
	if unchanged.Completed {
		t.Error("todo in another household was modified")
	}
}

func TestTodoDelete(t *testing.T) {
	e := setupHandlerTest(t)
	ac := e.seedUser(t, "mom", "Home", "admin")
	created, _ := e.todos.Create(ac.HouseholdID, "Dishes", nil, "999", "mom")

	req := authedRequest(http.MethodDelete, "/api/todos/"+created.ID, nil, ac)
	req.SetPathValue("id", created.ID)
	rec := httptest.NewRecorder()
	e.todoHandler().Delete(rec, req)

	checkStatus(t, rec, http.StatusNoContent)

	gone, err := e.todos.GetByID(ac.HouseholdID, created.ID)
	if err != nil {
		t.Fatalf("get todo: %v", err)
	}
	if gone != nil {
		t.Error("todo still exists after delete")
	}
}

func TestTodoDeleteNotFound(t *testing.T) {
	e := setupHandlerTest(t)
	ac := e.seedUser(t, "mom", "Home", "admin")

	req := authedRequest(http.MethodDelete, "/api/todos/nope", nil, ac)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	e.todoHandler().Delete(rec, req)

	checkStatus(t, rec, http.StatusNotFound)
}
