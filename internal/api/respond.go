/**
 * @description
 * Shared response helpers: JSON writing and the mapping from service-layer
 * sentinel errors to HTTP status codes. Keeping the mapping in one place
 * means a new sentinel only needs one new case.
 */
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/aigateway"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/app"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/nutrition"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/storage"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/store"
)

// writeJSON is a helper to write JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// writeError maps a service error onto an HTTP status and a JSON body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, aigateway.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, aigateway.ErrCreditsExhausted):
		status = http.StatusPaymentRequired
	case errors.Is(err, store.ErrAccountNotFound),
		errors.Is(err, store.ErrProfileNotFound),
		errors.Is(err, store.ErrMealScanNotFound),
		errors.Is(err, store.ErrConversationNotFound),
		errors.Is(err, store.ErrReferralCodeInvalid):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrAlreadyReferred):
		status = http.StatusConflict
	case errors.Is(err, app.ErrNotAdmin):
		status = http.StatusForbidden
	case errors.Is(err, app.ErrUnreadableImage),
		errors.Is(err, app.ErrInvalidAIResponse):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, app.ErrNoImage),
		errors.Is(err, app.ErrNoAudio),
		errors.Is(err, app.ErrUnsupportedAudio),
		errors.Is(err, app.ErrInvalidMealType),
		errors.Is(err, app.ErrNoFoods),
		errors.Is(err, app.ErrInvalidDate),
		errors.Is(err, app.ErrInvalidDietRequest),
		errors.Is(err, app.ErrInvalidMonths),
		errors.Is(err, app.ErrInvalidOnboarding),
		errors.Is(err, app.ErrEmptyMessage),
		errors.Is(err, app.ErrSelfDelete),
		errors.Is(err, app.ErrSelfReferral),
		errors.Is(err, nutrition.ErrNegativeGrams),
		errors.Is(err, storage.ErrUnsupportedImage):
		status = http.StatusBadRequest
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
