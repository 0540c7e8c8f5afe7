package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkelsey/devportal/internal/api/middleware"
	"github.com/mkelsey/devportal/internal/api/response"
	"github.com/mkelsey/devportal/internal/model"
	"github.com/mkelsey/devportal/internal/services/account"
)

// AuthHandler handles the /auth endpoints
type AuthHandler struct {
	accounts *account.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts *account.Service) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type registerRequest struct {
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authPayload is the success payload for register and login
type authPayload struct {
	User  *model.Identity `json:"user"`
	Token string          `json:"token"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		response.Message(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if req.Username == "" {
		response.Message(w, http.StatusBadRequest, "username is required")
		return
	}

	identity, token, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		writeAccountError(w, err)
		return
	}

	response.Data(w, http.StatusCreated, authPayload{User: identity, Token: token})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		response.Message(w, http.StatusBadRequest, "email and password are required")
		return
	}

	identity, token, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAccountError(w, err)
		return
	}

	response.Data(w, http.StatusOK, authPayload{User: identity, Token: token})
}

// Logout handles POST /auth/logout. Tokens are stateless, so there is
// nothing to revoke server-side; the handler exists so clients have a
// uniform invalidation call.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	response.NoContent(w)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	response.Data(w, http.StatusOK, identity)
}

// UpdateProfile handles PUT /auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var update model.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.accounts.UpdateProfile(r.Context(), identity.ID, update)
	if err != nil {
		writeAccountError(w, err)
		return
	}

	response.Data(w, http.StatusOK, updated)
}

// writeAccountError maps service errors onto the failure envelope
func writeAccountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		response.Message(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, model.ErrEmailExists):
		response.Message(w, http.StatusConflict, "email already registered")
	case errors.Is(err, model.ErrInvalidRole):
		response.Message(w, http.StatusBadRequest, "invalid role")
	case errors.Is(err, model.ErrAccountNotFound):
		response.Message(w, http.StatusNotFound, "account not found")
	default:
		response.Message(w, http.StatusInternalServerError, "internal error")
	}
}
