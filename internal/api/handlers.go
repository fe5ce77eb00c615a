/**
 * @description
 * This file defines the HTTP handlers for profiles, subscription state,
 * and referrals. Handlers are responsible for parsing requests, calling
 * the appropriate service method, and writing the response.
 *
 * @dependencies
 * - Standard Go libraries for HTTP, JSON, etc.
 * - The service's internal packages for app logic.
 */
package api

import (
	"encoding/json"
	"net/http"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/app"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
)

// ProfileHandler holds the dependencies for profile-related handlers.
type ProfileHandler struct {
	profiles *app.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *app.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile returns the caller's profile, creating it on first touch.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := h.profiles.GetOrCreate(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// CompleteOnboarding finishes the questionnaire and returns the profile
// with its derived daily targets.
func (h *ProfileHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req domain.OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.profiles.CompleteOnboarding(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// SubscriptionHandler exposes the resolved subscription state.
type SubscriptionHandler struct {
	resolver *app.SubscriptionResolver
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(resolver *app.SubscriptionResolver) *SubscriptionHandler {
	return &SubscriptionHandler{resolver: resolver}
}

// GetSubscription returns the caller's derived access tier.
func (h *SubscriptionHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	state, err := h.resolver.Resolve(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// ReferralHandler redeems referral codes.
type ReferralHandler struct {
	referrals *app.ReferralService
}

// NewReferralHandler creates a new ReferralHandler.
func NewReferralHandler(referrals *app.ReferralService) *ReferralHandler {
	return &ReferralHandler{referrals: referrals}
}

// RedeemRequest defines the expected JSON body for a redemption.
type RedeemRequest struct {
	Code string `json:"code"`
}

// Redeem applies a referral code to the caller's account.
func (h *ReferralHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.referrals.Redeem(r.Context(), userID, req.Code); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "redeemed"})
}
