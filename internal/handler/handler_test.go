package handler

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/database"
	"github.com/hearthhq/hearth/internal/store"
)

type testEnv struct {
	db         *sql.DB
	users      *store.UserStore
	households *store.HouseholdStore
	todos      *store.TodoStore
	prefs      *store.PreferencesStore
	pushStore  *store.PushStore
	issuer     *auth.TokenIssuer
}

func setupHandlerTest(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &testEnv{
		db:         db,
		users:      store.NewUserStore(db),
		households: store.NewHouseholdStore(db),
		todos:      store.NewTodoStore(db),
		prefs:      store.NewPreferencesStore(db),
		pushStore:  store.NewPushStore(db),
		issuer:     auth.NewTokenIssuer("test-secret", 30*time.Minute),
	}
}

// seedUser creates a household and a user in it, returning the auth context
// a request from that user would carry.
func (e *testEnv) seedUser(t *testing.T, username, householdName, role string) auth.AuthContext {
	t.Helper()

	household, err := e.households.GetOrCreateByName(householdName)
	if err != nil {
		t.Fatalf("create household: %v", err)
	}

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := e.users.Create(username, hash, household.ID, role)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	return auth.AuthContext{
		UserID:      user.ID,
		Username:    user.Username,
		HouseholdID: user.HouseholdID,
		Role:        user.Role,
	}
}

// authedRequest builds a request that already passed the auth middleware.
func authedRequest(method, target string, body io.Reader, ac auth.AuthContext) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(auth.WithAuth(req.Context(), ac))
}

func checkStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}
