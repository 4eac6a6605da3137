package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/store"
)

type PreferencesHandler struct {
	prefs  *store.PreferencesStore
	logger *slog.Logger
}

func NewPreferencesHandler(ps *store.PreferencesStore, logger *slog.Logger) *PreferencesHandler {
	return &PreferencesHandler{prefs: ps, logger: logger}
}

// Get handles GET /api/user-preferences. A user who never saved reads as
// all flags false.
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.prefs.Get(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("get preferences", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get preferences"})
		return
	}
	if p == nil {
		p = &model.UserPreferences{}
	}
	writeJSON(w, http.StatusOK, p)
}

// Update handles POST /api/user-preferences
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p model.UserPreferences
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	p.UserID = auth.UserID(r.Context())
	if _, err := h.prefs.Upsert(p); err != nil {
		h.logger.Error("save preferences", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save preferences"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Preferences updated successfully"})
}
