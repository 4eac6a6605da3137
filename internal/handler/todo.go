package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/push"
	"github.com/hearthhq/hearth/internal/store"
	"github.com/hearthhq/hearth/internal/websocket"
)

type TodoHandler struct {
	todos    *store.TodoStore
	hub      *websocket.Hub
	notifier *push.Scheduler
	logger   *slog.Logger
}

func NewTodoHandler(ts *store.TodoStore, hub *websocket.Hub, notifier *push.Scheduler, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{todos: ts, hub: hub, notifier: notifier, logger: logger}
}

func (h *TodoHandler) broadcast(householdID int64, ev websocket.Event) {
	if h.hub != nil {
		h.hub.BroadcastToRoom(householdID, ev)
	}
}

// List handles GET /api/todos
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	todos, err := h.todos.List(auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("list todos", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list todos"})
		return
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	writeJSON(w, http.StatusOK, todos)
}

type createTodoRequest struct {
	Title      string  `json:"title"`
	AssignedTo *string `json:"assigned_to"`
	Priority   string  `json:"priority"`
}

// Create handles POST /api/todos
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Title is required"})
		return
	}
	if req.Priority == "" {
		req.Priority = model.DefaultPriority
	}

	todo, err := h.todos.Create(ac.HouseholdID, req.Title, req.AssignedTo, req.Priority, ac.Username)
	if err != nil {
		h.logger.Error("create todo", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create todo"})
		return
	}

	h.broadcast(ac.HouseholdID, websocket.NewEvent(websocket.EventTodoCreated, map[string]any{"todo": todo}))

	if h.notifier != nil && todo.AssignedTo != nil && *todo.AssignedTo != "" {
		h.notifier.SendTodoAssigned(ac.HouseholdID, ac.UserID, todo.Title, *todo.AssignedTo)
	}

	writeJSON(w, http.StatusCreated, todo)
}

type updateTodoRequest struct {
	Title      *string `json:"title"`
	Completed  *bool   `json:"completed"`
	Priority   *string `json:"priority"`
	AssignedTo *string `json:"assigned_to"`
}

// Update handles PUT /api/todos/{id}. Absent fields keep their stored
// values; an explicit empty assigned_to clears the assignment.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	id := r.PathValue("id")

	existing, err := h.todos.GetByID(ac.HouseholdID, id)
	if err != nil {
		h.logger.Error("get todo", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get todo"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Todo not found"})
		return
	}

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	title := existing.Title
	if req.Title != nil {
		title = *req.Title
	}
	completed := existing.Completed
	if req.Completed != nil {
		completed = *req.Completed
	}
	priority := existing.Priority
	if req.Priority != nil {
		priority = *req.Priority
	}
	assignedTo := existing.AssignedTo
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			assignedTo = nil
		} else {
			assignedTo = req.AssignedTo
		}
	}

	updated, err := h.todos.Update(ac.HouseholdID, id, title, completed, priority, assignedTo)
	if err != nil {
		h.logger.Error("update todo", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update todo"})
		return
	}

	h.broadcast(ac.HouseholdID, websocket.NewEvent(websocket.EventTodoUpdated, map[string]any{"todo": updated}))

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/todos/{id}
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	id := r.PathValue("id")

	existing, err := h.todos.GetByID(ac.HouseholdID, id)
	if err != nil {
		h.logger.Error("get todo", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get todo"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Todo not found"})
		return
	}

	if err := h.todos.Delete(ac.HouseholdID, id); err != nil {
		h.logger.Error("delete todo", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete todo"})
		return
	}

	h.broadcast(ac.HouseholdID, websocket.NewEvent(websocket.EventTodoDeleted, map[string]any{"id": id}))

	w.WriteHeader(http.StatusNoContent)
}
