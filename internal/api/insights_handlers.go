/**
 * @description
 * HTTP handlers for the secondary model features (body-fat estimate,
 * voice-note transcription, diet generation) plus saved diets and
 * progress photos.
 */
package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/app"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/storage"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/store"
)

// InsightsHandler holds the dependencies for insight-related handlers.
type InsightsHandler struct {
	insights *app.InsightsService
	repo     store.Repository
	uploader storage.Uploader
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(insights *app.InsightsService, repo store.Repository, uploader storage.Uploader) *InsightsHandler {
	return &InsightsHandler{insights: insights, repo: repo, uploader: uploader}
}

// BodyFatRequest defines the expected JSON body for a body-fat estimate.
// The subject block is optional and sharpens the model's estimate.
type BodyFatRequest struct {
	Image   string              `json:"image"`
	Subject *app.BodyFatContext `json:"subject,omitempty"`
}

// EstimateBodyFat analyzes a physique photo.
func (h *InsightsHandler) EstimateBodyFat(w http.ResponseWriter, r *http.Request) {
	var req BodyFatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	estimate, err := h.insights.EstimateBodyFat(r.Context(), req.Image, req.Subject)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}

// TranscribeRequest defines the expected JSON body for transcription.
type TranscribeRequest struct {
	Audio  string `json:"audio"`
	Format string `json:"format"`
}

// Transcribe turns a recorded voice note into text.
func (h *InsightsHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req TranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	text, err := h.insights.TranscribeAudio(r.Context(), req.Audio, req.Format)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// GenerateDiet produces a meal plan hitting the caller's targets.
func (h *InsightsHandler) GenerateDiet(w http.ResponseWriter, r *http.Request) {
	var req app.DietRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.insights.GenerateDiet(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]json.RawMessage{"plan": plan})
}

// SaveDietRequest defines the expected JSON body for keeping a plan.
type SaveDietRequest struct {
	Name string          `json:"name"`
	Plan json.RawMessage `json:"plan"`
}

// SaveDiet persists a generated plan.
func (h *InsightsHandler) SaveDiet(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SaveDietRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	diet, err := h.insights.SaveDiet(r.Context(), userID, req.Name, req.Plan)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, diet)
}

// ListDiets returns the caller's saved plans.
func (h *InsightsHandler) ListDiets(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	diets, err := h.insights.ListDiets(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, diets)
}

// UploadPhotoRequest defines the expected JSON body for a progress photo.
type UploadPhotoRequest struct {
	Image       string  `json:"image"` // base64, no data-URL prefix
	ContentType string  `json:"content_type"`
	Note        *string `json:"note,omitempty"`
}

// UploadProgressPhoto stores the image and records its URL.
func (h *InsightsHandler) UploadProgressPhoto(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if h.uploader == nil {
		http.Error(w, "Photo uploads are not configured", http.StatusServiceUnavailable)
		return
	}

	var req UploadPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(req.Image))
	if err != nil || len(data) == 0 {
		http.Error(w, "Invalid image payload", http.StatusBadRequest)
		return
	}

	url, err := h.uploader.UploadImage(r.Context(), userID, data, req.ContentType)
	if err != nil {
		writeError(w, err)
		return
	}

	photo, err := h.repo.SaveProgressPhoto(r.Context(), &domain.ProgressPhoto{
		UserID:   userID,
		PhotoURL: url,
		Note:     req.Note,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

// ListProgressPhotos returns the caller's photos, newest first.
func (h *InsightsHandler) ListProgressPhotos(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	photos, err := h.repo.ListProgressPhotos(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}
