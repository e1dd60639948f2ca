package handlers

import (
	"net/http"

	"online-store-platform/internal/middleware"
	"online-store-platform/internal/models"
	"online-store-platform/internal/services"
)

// SessionHandler handles registration, login and password resets
type SessionHandler struct {
	users *services.UserService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(users *services.UserService) *SessionHandler {
	return &SessionHandler{users: users}
}

// Register handles POST /api/sessions/register
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreateRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Register(&req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/sessions/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, token, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user, "token": token})
}

// Current handles GET /api/sessions/current
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, models.ErrUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/sessions/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// ForgotPassword handles POST /api/sessions/forgot-password. It reports
// success whether or not the email is registered.
func (h *SessionHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.RequestPasswordReset(req.Email); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// ResetPassword handles POST /api/sessions/reset-password
func (h *SessionHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.ResetPassword(req.Token, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
