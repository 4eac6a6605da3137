package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/store"
)

// HandleWebSocket returns an HTTP handler that authenticates the connection
// token, upgrades to WebSocket, and runs the client until it disconnects.
// Browsers cannot set headers on WebSocket requests, so the token travels in
// the query string.
func HandleWebSocket(hub *Hub, todos *store.TodoStore, issuer *auth.TokenIssuer, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			writeWSError(w, http.StatusUnauthorized, "Token required")
			return
		}
		claims, err := issuer.Validate(token)
		if err != nil {
			writeWSError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // Allow connections from any origin (household LAN)
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}
		defer conn.CloseNow()

		client := NewClient(hub, conn, todos, claims.UserID, claims.Subject, claims.HouseholdID, logger)
		client.Run(r.Context())
	}
}

func writeWSError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
