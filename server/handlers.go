package server

import (
	"encoding/json"
	"net/http"

	"tuneshelf/logger"
	"tuneshelf/model"
	"tuneshelf/store"
)

// APIHandler carries the two stores every handler works against.
type APIHandler struct {
	accounts *store.AccountStore
	library  *store.LibraryStore
}

// NewAPIHandler creates an APIHandler over the given stores.
func NewAPIHandler(accounts *store.AccountStore, library *store.LibraryStore) *APIHandler {
	return &APIHandler{accounts: accounts, library: library}
}

// RequireAccount wraps a handler that needs a signed-in account. The
// account store gates all library access: with no current account the
// request is rejected before the handler runs.
func (h *APIHandler) RequireAccount(next func(w http.ResponseWriter, r *http.Request, user model.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := h.accounts.Current()
		if user == nil {
			writeError(w, http.StatusUnauthorized, "You must be logged in.")
			return
		}
		next(w, r, *user)
	}
}

// HealthHandler reports liveness.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}
