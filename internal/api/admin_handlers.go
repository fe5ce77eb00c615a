/**
 * @description
 * HTTP handlers for the privileged admin surface. The role check lives in
 * the service layer; these handlers only parse and respond, so a future
 * transport (CLI, internal RPC) inherits the same trust boundary.
 */
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/app"
)

// AdminHandler holds the dependencies for admin-related handlers.
type AdminHandler struct {
	admin *app.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *app.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// GrantRequest defines the expected JSON body for a premium grant.
type GrantRequest struct {
	Email  string `json:"email"`
	Months int    `json:"months"`
	Amount int64  `json:"amount"`
	Notes  string `json:"notes"`
}

// GrantPremium extends a user's premium access.
func (h *AdminHandler) GrantPremium(w http.ResponseWriter, r *http.Request) {
	adminID := GetUserID(r.Context())
	if adminID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req GrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.admin.GrantPremium(r.Context(), adminID, req.Email, req.Months, req.Amount, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// RevokeRequest defines the expected JSON body for a revocation.
type RevokeRequest struct {
	Email string `json:"email"`
	Notes string `json:"notes"`
}

// RevokePremium drops a user's premium access immediately.
func (h *AdminHandler) RevokePremium(w http.ResponseWriter, r *http.Request) {
	adminID := GetUserID(r.Context())
	if adminID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req RevokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.admin.RevokePremium(r.Context(), adminID, req.Email, req.Notes); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

// ListUsers returns every user with email and derived access tier.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	adminID := GetUserID(r.Context())
	if adminID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	users, err := h.admin.ListUsers(r.Context(), adminID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// DeleteUser removes an account entirely.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	adminID := GetUserID(r.Context())
	if adminID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	targetID := chi.URLParam(r, "id")

	if err := h.admin.DeleteUser(r.Context(), adminID, targetID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
