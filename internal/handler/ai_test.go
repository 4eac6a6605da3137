package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hearthhq/hearth/internal/ai"
	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/config"
)

// aiTestHandler wires a service with no API key, so every request takes the
// keyword fallback path. The live LLM paths are covered in the ai package.
func aiTestHandler() *AIHandler {
	svc := ai.NewService(config.AIConfig{}, slog.Default())
	return NewAIHandler(svc, slog.Default())
}

func TestPrioritizeFallback(t *testing.T) {
	h := aiTestHandler()

	body := `{
		"todos": [
			{"id": "1", "title": "File taxes", "completed": false},
			{"id": "2", "title": "Feed the cat", "completed": false}
		],
		"preferences": {"pet_care": true}
	}`
	req := authedRequest(http.MethodPost, "/api/ai/prioritize", strings.NewReader(body), auth.AuthContext{UserID: 1})
	rec := httptest.NewRecorder()
	h.Prioritize(rec, req)

	checkStatus(t, rec, http.StatusOK)

	var ranked []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &ranked); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("got %d todos, want 2", len(ranked))
	}

	// Pet care match sorts first with priority 1
	if ranked[0]["title"] != "Feed the cat" {
		t.Errorf("first todo = %q, want %q", ranked[0]["title"], "Feed the cat")
	}
	if ranked[0]["aiPriority"] != float64(1) {
		t.Errorf("aiPriority = %v, want 1", ranked[0]["aiPriority"])
	}
	if ranked[0]["aiReason"] != "Pet care preference match" {
		t.Errorf("aiReason = %q", ranked[0]["aiReason"])
	}
}

func TestPrioritizeEmptyTodos(t *testing.T) {
	h := aiTestHandler()

	req := authedRequest(http.MethodPost, "/api/ai/prioritize", strings.NewReader(`{"todos": []}`), auth.AuthContext{UserID: 1})
	rec := httptest.NewRecorder()
	h.Prioritize(rec, req)

	checkStatus(t, rec, http.StatusOK)
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}

func TestPrioritizeInvalidJSON(t *testing.T) {
	h := aiTestHandler()

	req := authedRequest(http.MethodPost, "/api/ai/prioritize", strings.NewReader(`{not json`), auth.AuthContext{UserID: 1})
	rec := httptest.NewRecorder()
	h.Prioritize(rec, req)

	checkStatus(t, rec, http.StatusBadRequest)
}

func TestInsightsFallback(t *testing.T) {
	h := aiTestHandler()

	body := `{"todos": [{"id": "1", "title": "Dishes", "completed": true}]}`
	req := authedRequest(http.MethodPost, "/api/ai/insights", strings.NewReader(body), auth.AuthContext{UserID: 1})
	rec := httptest.NewRecorder()
	h.Insights(rec, req)

	checkStatus(t, rec, http.StatusOK)

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := "AI insights are temporarily unavailable. Keep up the great work on your tasks!"
	if resp["insights"] != want {
		t.Errorf("insights = %q, want fallback text", resp["insights"])
	}
}
