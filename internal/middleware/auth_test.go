package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/database"
	"github.com/hearthhq/hearth/internal/store"
)

func setupAuthMiddlewareDB(t *testing.T) (*auth.TokenIssuer, *store.UserStore, *sql.DB) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	issuer := auth.NewTokenIssuer("test-secret", 30*time.Minute)
	return issuer, store.NewUserStore(db), db
}

func TestRequireAuthNoHeader(t *testing.T) {
	issuer, us, _ := setupAuthMiddlewareDB(t)

	handler := RequireAuth(issuer, us)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/todos", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected error message in body")
	}
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	issuer, us, _ := setupAuthMiddlewareDB(t)

	handler := RequireAuth(issuer, us)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/todos", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	issuer, us, _ := setupAuthMiddlewareDB(t)

	handler := RequireAuth(issuer, us)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	issuer, us, db := setupAuthMiddlewareDB(t)

	result, err := db.Exec("INSERT INTO households (name) VALUES ('Test')")
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	hid, _ := result.LastInsertId()
	u, err := us.Create("mom", "pw", hid, "admin")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := issuer.Generate(u.ID, u.Username, u.HouseholdID, u.Role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var gotAC auth.AuthContext
	handler := RequireAuth(issuer, us)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, ok := auth.FromContext(r.Context())
		if !ok {
			t.Fatal("expected AuthContext in request context")
		}
		gotAC = ac
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotAC.UserID != u.ID {
		t.Errorf("UserID = %d, want %d", gotAC.UserID, u.ID)
	}
	if gotAC.Username != "mom" {
		t.Errorf("Username = %q, want %q", gotAC.Username, "mom")
	}
	if gotAC.HouseholdID != hid {
		t.Errorf("HouseholdID = %d, want %d", gotAC.HouseholdID, hid)
	}
	if gotAC.Role != "admin" {
		t.Errorf("Role = %q, want %q", gotAC.Role, "admin")
	}
}

func TestRequireAuthDeletedUser(t *testing.T) {
	issuer, us, db := setupAuthMiddlewareDB(t)

	result, _ := db.Exec("INSERT INTO households (name) VALUES ('Test')")
	hid, _ := result.LastInsertId()
	u, err := us.Create("mom", "pw", hid, "admin")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := issuer.Generate(u.ID, u.Username, u.HouseholdID, u.Role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if err := us.Delete(u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	handler := RequireAuth(issuer, us)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAdminAllowed(t *testing.T) {
	ctx := auth.WithAuth(context.Background(), auth.AuthContext{Role: "admin"})
	req := httptest.NewRequest("GET", "/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRequireAdminForbidden(t *testing.T) {
	ctx := auth.WithAuth(context.Background(), auth.AuthContext{Role: "member"})
	req := httptest.NewRequest("GET", "/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
