package handler

import (
	"log/slog"
	"net/http"

	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/store"
)

type UserHandler struct {
	users  *store.UserStore
	logger *slog.Logger
}

func NewUserHandler(us *store.UserStore, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: us, logger: logger}
}

// List handles GET /api/users. Password hashes never serialize; the model
// hides them.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListByHousehold(auth.HouseholdID(r.Context()))
	if err != nil {
		h.logger.Error("list users", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list users"})
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}
