// Package http serves the edge service protocol: credential actions on the
// base path and uploaded assets.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Protocol actions carried in the "action" query parameter.
const (
	ActionCheck  = "auth-check"
	ActionSetup  = "auth-setup"
	ActionVerify = "auth-verify"
)

// AuthService defines the credential operations required by AuthHandler.
type AuthService interface {
	// IsSetup reports whether the admin password has been set.
	IsSetup(context.Context) (bool, error)
	// Setup stores the admin password, replacing any previous one.
	Setup(context.Context, string) error
	// Verify reports whether the password matches.
	Verify(context.Context, string) (bool, error)
}

// AuthHandler handles the auth-* actions.
type AuthHandler struct {
	// AuthService performs the underlying credential operations.
	AuthService AuthService
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// PasswordRequest is the JSON body of auth-setup and auth-verify.
type PasswordRequest struct {
	Password string `json:"password"`
}

func (h *AuthHandler) log() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// Dispatch routes a request on the base path by its action parameter.
func (h *AuthHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	switch {
	case r.Method == http.MethodGet && action == ActionCheck:
		h.Check(w, r)
	case r.Method == http.MethodPost && action == ActionSetup:
		h.Setup(w, r)
	case r.Method == http.MethodPost && action == ActionVerify:
		h.Verify(w, r)
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
	}
}

// Check responds with {"isSetup": bool}.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ok, err := h.AuthService.IsSetup(r.Context())
	if err != nil {
		h.log().Error("credential check failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isSetup": ok})
}

// Setup stores the posted password and responds with {"success": true}.
func (h *AuthHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req PasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]bool{"success": false})
		return
	}
	if err := h.AuthService.Setup(r.Context(), req.Password); err != nil {
		h.log().Error("credential setup failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]bool{"success": false})
		return
	}
	h.log().Info("admin credential set")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Verify responds with {"success": bool} for the posted password.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req PasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]bool{"success": false})
		return
	}
	ok, err := h.AuthService.Verify(r.Context(), req.Password)
	if err != nil {
		h.log().Error("credential verify failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]bool{"success": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": ok})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
