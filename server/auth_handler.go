package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"tuneshelf/logger"
	"tuneshelf/store"
)

// RegisterRequest represents the signup request body.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler handles signup requests.
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateAccount) {
			writeError(w, http.StatusConflict, "User already exists with this email. Please login instead.")
			return
		}
		logger.Error("register failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// A fresh account starts with an empty library; prime the view.
	if _, err := h.library.LoadForOwner(r.Context(), user.Email); err != nil {
		logger.Error("failed to load library after signup", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    user.Public(),
	})
}

// LoginHandler handles login requests.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			logger.Warn("login rejected", logger.String("email", req.Email))
			writeError(w, http.StatusUnauthorized, "Invalid email or password. Please try again.")
			return
		}
		logger.Error("login failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if _, err := h.library.LoadForOwner(r.Context(), user.Email); err != nil {
		logger.Error("failed to load library after login", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Info("login succeeded", logger.String("email", user.Email))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user.Public(),
	})
}

// LogoutHandler clears the session. Logging out twice is harmless.
func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.SignOut(r.Context()); err != nil {
		logger.Error("logout failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// SessionHandler reports the signed-in account, if any. This is the
// restore-on-startup path the UI calls first.
func (h *APIHandler) SessionHandler(w http.ResponseWriter, r *http.Request) {
	user := h.accounts.Current()
	if user == nil {
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user.Public()})
}
