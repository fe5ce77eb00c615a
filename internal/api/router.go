/**
 * @description
 * This file sets up the HTTP router using the go-chi/chi router. It defines
 * the API routes, applies middleware for logging, CORS, and authentication,
 * and maps the routes to their corresponding handler functions. The
 * model-backed endpoints additionally sit behind the subscription gate.
 */
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/app"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Profile      *ProfileHandler
	Subscription *SubscriptionHandler
	Referral     *ReferralHandler
	Meal         *MealHandler
	Scan         *ScanHandler
	Coach        *CoachHandler
	Insights     *InsightsHandler
	Admin        *AdminHandler
}

// NewRouter creates a new Chi router and registers all routes.
func NewRouter(h Handlers, jwtSecret string, resolver *app.SubscriptionResolver, allowedOrigins string) *chi.Mux {
	r := chi.NewRouter()

	// Setup middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   splitOrigins(allowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Protected routes that require authentication
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(jwtSecret))

		// Profile and onboarding
		r.Get("/profile", h.Profile.GetProfile)
		r.Post("/profile/onboarding", h.Profile.CompleteOnboarding)

		// Subscription state and referrals
		r.Get("/subscription", h.Subscription.GetSubscription)
		r.Post("/referrals/redeem", h.Referral.Redeem)

		// Daily log and meals
		r.Get("/daily-log", h.Meal.GetDailyLog)
		r.Post("/meals", h.Meal.LogMeal)
		r.Delete("/meals/{id}", h.Meal.DeleteMeal)
		r.Post("/meals/rescale", h.Meal.RescalePortion)

		// Coach transcripts are readable regardless of tier
		r.Get("/coach/conversations", h.Coach.ListConversations)
		r.Get("/coach/conversations/{id}/messages", h.Coach.ListMessages)

		// Saved diets and progress photos
		r.Get("/diets", h.Insights.ListDiets)
		r.Post("/diets", h.Insights.SaveDiet)
		r.Get("/progress-photos", h.Insights.ListProgressPhotos)
		r.Post("/progress-photos", h.Insights.UploadProgressPhoto)

		// Model-backed endpoints sit behind the subscription gate
		r.Group(func(r chi.Router) {
			r.Use(SubscriptionGate(resolver))

			r.Post("/scan", h.Scan.Scan)
			r.Post("/coach/chat", h.Coach.Chat)
			r.Post("/insights/body-fat", h.Insights.EstimateBodyFat)
			r.Post("/insights/transcribe", h.Insights.Transcribe)
			r.Post("/insights/diet", h.Insights.GenerateDiet)
		})

		// Admin endpoints; role enforcement happens in the service
		r.Route("/admin", func(r chi.Router) {
			r.Get("/users", h.Admin.ListUsers)
			r.Delete("/users/{id}", h.Admin.DeleteUser)
			r.Post("/premium/grant", h.Admin.GrantPremium)
			r.Post("/premium/revoke", h.Admin.RevokePremium)
		})
	})

	return r
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" || raw == "*" {
		return []string{"https://*", "http://*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
