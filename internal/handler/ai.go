package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hearthhq/hearth/internal/ai"
	"github.com/hearthhq/hearth/internal/model"
)

type AIHandler struct {
	ai     *ai.Service
	logger *slog.Logger
}

func NewAIHandler(svc *ai.Service, logger *slog.Logger) *AIHandler {
	return &AIHandler{ai: svc, logger: logger}
}

type prioritizeRequest struct {
	Todos       []ai.TodoInput         `json:"todos"`
	Preferences *model.UserPreferences `json:"preferences"`
	Prompt      string                 `json:"prompt"`
}

// Prioritize handles POST /api/ai/prioritize. The service falls back to
// keyword rules when the LLM is unreachable, so this always returns 200
// with a ranked array.
func (h *AIHandler) Prioritize(w http.ResponseWriter, r *http.Request) {
	var req prioritizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	ranked := h.ai.Prioritize(r.Context(), req.Todos, req.Preferences, req.Prompt)
	if ranked == nil {
		ranked = []ai.RankedTodo{}
	}
	writeJSON(w, http.StatusOK, ranked)
}

type insightsRequest struct {
	Todos       []ai.TodoInput         `json:"todos"`
	Preferences *model.UserPreferences `json:"preferences"`
}

// Insights handles POST /api/ai/insights
func (h *AIHandler) Insights(w http.ResponseWriter, r *http.Request) {
	var req insightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	insights := h.ai.Insights(r.Context(), req.Todos, req.Preferences)
	writeJSON(w, http.StatusOK, map[string]string{"insights": insights})
}
