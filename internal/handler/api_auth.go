package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/blogpost/internal/domain"
	"github.com/msomdec/blogpost/internal/service"
)

// APIAuthHandler issues and revokes bearer tokens for the JSON API.
type APIAuthHandler struct {
	auth *service.AuthService
}

// NewAPIAuthHandler creates a new APIAuthHandler.
func NewAPIAuthHandler(auth *service.AuthService) *APIAuthHandler {
	return &APIAuthHandler{auth: auth}
}

// HandleRegister creates an account and returns a token for it.
// POST /api/register
// Request:  {"name":"...","email":"...","password":"...","password_confirmation":"..."}
// Response: 201 {"success":true,"data":{"user":{...},"token":"...","tokenType":"Bearer"}}
func (h *APIAuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                 string `json:"name"`
		Email                string `json:"email"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid request body.")
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		apiError(w, err, "api register user")
		return
	}

	token, err := h.auth.IssueAPIToken(r.Context(), user)
	if err != nil {
		apiError(w, err, "issue api token")
		return
	}

	writeData(w, http.StatusCreated, AuthDTO{User: toUserDTO(user), Token: token, TokenType: "Bearer"})
}

// HandleLogin exchanges credentials for a bearer token.
// POST /api/login
// Request:  {"email":"...","password":"..."}
// Response: {"success":true,"data":{"user":{...},"token":"...","tokenType":"Bearer"}}
func (h *APIAuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid request body.")
		return
	}

	user, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeMessage(w, http.StatusUnauthorized, false, "Invalid credentials.")
			return
		}
		apiError(w, err, "api login")
		return
	}

	token, err := h.auth.IssueAPIToken(r.Context(), user)
	if err != nil {
		apiError(w, err, "issue api token")
		return
	}

	writeData(w, http.StatusOK, AuthDTO{User: toUserDTO(user), Token: token, TokenType: "Bearer"})
}

// HandleLogout revokes the token used for this request.
// POST /api/logout
func (h *APIAuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.RevokeAPIToken(r.Context(), apiTokenIDFromContext(r.Context())); err != nil {
		apiError(w, err, "api logout")
		return
	}
	slog.Info("api token revoked", "user_id", UserFromContext(r.Context()).ID)
	writeMessage(w, http.StatusOK, true, "Logged out successfully")
}

// HandleUser returns the token's user.
// GET /api/user
func (h *APIAuthHandler) HandleUser(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, toUserDTO(UserFromContext(r.Context())))
}
