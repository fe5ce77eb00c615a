/**
 * @description
 * HTTP handler for photo-based food scanning. The scan endpoint is the
 * most expensive call in the API, so it sits behind both the subscription
 * gate (router-level) and a per-user fixed-window rate limit.
 */
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/app"
)

// ScanHandler holds the dependencies for the scan endpoint.
type ScanHandler struct {
	scans        *app.ScanService
	limiter      app.RateLimiter
	limitPerHour int
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(scans *app.ScanService, limiter app.RateLimiter, limitPerHour int) *ScanHandler {
	return &ScanHandler{scans: scans, limiter: limiter, limitPerHour: limitPerHour}
}

// ScanRequest defines the expected JSON body for a scan.
type ScanRequest struct {
	Image string `json:"image"`
}

// Scan analyzes a food photo and returns the recognized foods with
// locally recomputed totals.
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if h.limiter != nil {
		count, retryAfter, err := h.limiter.ConsumeRateLimit(r.Context(), "scan", userID, h.limitPerHour, time.Hour)
		if err == nil && h.limitPerHour > 0 && count > h.limitPerHour {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "scan limit reached, try again later"})
			return
		}
	}

	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.scans.Analyze(r.Context(), req.Image)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
