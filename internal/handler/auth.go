package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/store"
)

type AuthHandler struct {
	users      *store.UserStore
	households *store.HouseholdStore
	issuer     *auth.TokenIssuer
	logger     *slog.Logger
}

func NewAuthHandler(us *store.UserStore, hs *store.HouseholdStore, issuer *auth.TokenIssuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: us, households: hs, issuer: issuer, logger: logger}
}

type registerRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	HouseholdID   *int64 `json:"household_id"`
	HouseholdName string `json:"household_name"`
}

type registerResponse struct {
	Token       string `json:"token"`
	Username    string `json:"username"`
	HouseholdID int64  `json:"household_id"`
	IsAdmin     bool   `json:"is_admin"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username and password required"})
		return
	}

	existing, err := h.users.GetByUsername(req.Username)
	if err != nil {
		h.logger.Error("register lookup", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username already exists"})
		return
	}

	household, err := h.resolveHousehold(req)
	if err != nil {
		h.logger.Error("resolve household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if household == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Household not found"})
		return
	}

	// First user into a household runs it
	count, err := h.users.CountByHousehold(household.ID)
	if err != nil {
		h.logger.Error("count household members", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	role := model.RoleMember
	if count == 0 {
		role = model.RoleAdmin
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	user, err := h.users.Create(req.Username, hash, household.ID, role)
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	token, err := h.issuer.Generate(user.ID, user.Username, user.HouseholdID, user.Role)
	if err != nil {
		h.logger.Error("generate token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, registerResponse{
		Token:       token,
		Username:    user.Username,
		HouseholdID: user.HouseholdID,
		IsAdmin:     user.Role == model.RoleAdmin,
	})
}

// resolveHousehold picks the household a new user lands in: an existing one
// by id, one found or created by name, or a fresh one named after the user.
func (h *AuthHandler) resolveHousehold(req registerRequest) (*model.Household, error) {
	name := strings.TrimSpace(req.HouseholdName)
	switch {
	case req.HouseholdID != nil:
		return h.households.GetByID(*req.HouseholdID)
	case name != "":
		return h.households.GetOrCreateByName(name)
	default:
		return h.households.GetOrCreateByName(req.Username + "'s Household")
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token       string `json:"token"`
	Username    string `json:"username"`
	HouseholdID int64  `json:"household_id"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username and password required"})
		return
	}

	user, err := h.users.GetByUsername(req.Username)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	// Same response for unknown user and wrong password so accounts
	// cannot be probed.
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
		return
	}

	token, err := h.issuer.Generate(user.ID, user.Username, user.HouseholdID, user.Role)
	if err != nil {
		h.logger.Error("generate token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:       token,
		Username:    user.Username,
		HouseholdID: user.HouseholdID,
	})
}
