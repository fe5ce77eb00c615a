/**
 * @description
 * HTTP handlers for the meal-logging surface: confirming scans into the
 * daily log, deleting logged meals, reading a day back, and rescaling a
 * portion before confirmation.
 */
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/app"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/nutrition"
)

// MealHandler holds the dependencies for meal-related handlers.
type MealHandler struct {
	meals *app.MealService
}

// NewMealHandler creates a new MealHandler.
func NewMealHandler(meals *app.MealService) *MealHandler {
	return &MealHandler{meals: meals}
}

// LogMealRequest defines the expected JSON body for logging a meal.
type LogMealRequest struct {
	Date     string            `json:"date"`
	MealType domain.MealType   `json:"meal_type"`
	PhotoURL *string           `json:"photo_url,omitempty"`
	Foods    []domain.FoodItem `json:"foods"`
}

// LogMeal confirms a scan into the caller's daily log.
func (h *MealHandler) LogMeal(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req LogMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	scan, log, err := h.meals.LogMeal(r.Context(), userID, req.Date, req.MealType, req.PhotoURL, req.Foods)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"meal":      scan,
		"daily_log": log,
	})
}

// DeleteMeal removes one logged meal and returns the corrected day.
func (h *MealHandler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	scanID := chi.URLParam(r, "id")

	log, err := h.meals.DeleteMeal(r.Context(), userID, scanID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"daily_log": log})
}

// GetDailyLog returns the aggregate and meals for ?date=YYYY-MM-DD.
func (h *MealHandler) GetDailyLog(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	day, err := h.meals.GetDay(r.Context(), userID, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// RescaleRequest defines the expected JSON body for a portion rescale.
type RescaleRequest struct {
	Food     domain.FoodItem `json:"food"`
	NewGrams float64         `json:"new_grams"`
}

// RescalePortion recomputes a food's macros for an adjusted weight. Pure
// arithmetic; nothing is persisted until the meal is logged.
func (h *MealHandler) RescalePortion(w http.ResponseWriter, r *http.Request) {
	var req RescaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	food, err := nutrition.RescalePortion(req.Food, req.NewGrams)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, food)
}
