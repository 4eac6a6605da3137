package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/store"
)

// RequireAuth validates the Bearer token and populates AuthContext. The user
// is re-read on every request so role changes and deletions take effect
// without waiting for the token to expire.
func RequireAuth(issuer *auth.TokenIssuer, users *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeAuthError(w, http.StatusUnauthorized, "Authorization required")
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeAuthError(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			claims, err := issuer.Validate(token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := users.GetByID(claims.UserID)
			if err != nil || user == nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ac := auth.AuthContext{
				UserID:      user.ID,
				Username:    user.Username,
				HouseholdID: user.HouseholdID,
				Role:        user.Role,
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin checks that the authenticated user has the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			writeAuthError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
