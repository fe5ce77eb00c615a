/**
 * @description
 * HTTP handlers for the coach chat. The chat endpoint streams the model's
 * reply to the client as server-sent events: one data record per text
 * fragment, a final record carrying the conversation id, then [DONE].
 */
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/app"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
)

// CoachHandler holds the dependencies for coach-related handlers.
type CoachHandler struct {
	coach        *app.CoachService
	limiter      app.RateLimiter
	limitPerHour int
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(coach *app.CoachService, limiter app.RateLimiter, limitPerHour int) *CoachHandler {
	return &CoachHandler{coach: coach, limiter: limiter, limitPerHour: limitPerHour}
}

// ChatRequest defines the expected JSON body for a chat exchange.
type ChatRequest struct {
	ConversationID string               `json:"conversation_id,omitempty"`
	Message        string               `json:"message"`
	Context        *domain.CoachContext `json:"context,omitempty"`
}

// Chat streams one coach exchange as server-sent events.
func (h *CoachHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if h.limiter != nil {
		count, retryAfter, err := h.limiter.ConsumeRateLimit(r.Context(), "chat", userID, h.limitPerHour, time.Hour)
		if err == nil && h.limitPerHour > 0 && count > h.limitPerHour {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "chat limit reached, try again later"})
			return
		}
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Headers go out with the first delta, so errors before then can
	// still use a proper status code.
	started := false
	result, err := h.coach.Chat(r.Context(), userID, req.ConversationID, req.Message, req.Context, func(delta string) error {
		started = true
		return writeSSE(w, flusher, map[string]string{"delta": delta})
	})
	if err != nil {
		if !started {
			writeError(w, err)
			return
		}
		// Mid-stream failure: the SSE channel is all we have left.
		_ = writeSSE(w, flusher, map[string]string{"error": err.Error()})
		return
	}

	_ = writeSSE(w, flusher, map[string]string{"conversation_id": result.ConversationID})
	w.Write([]byte("data: [DONE]\n\n"))
	flusher.Flush()
}

// writeSSE writes one JSON-encoded SSE data record and flushes it.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("data: " + string(raw) + "\n\n")); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// ListConversations returns the caller's conversations.
func (h *CoachHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversations, err := h.coach.Conversations(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conversations)
}

// ListMessages returns one conversation's transcript.
func (h *CoachHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	conversationID := chi.URLParam(r, "id")

	messages, err := h.coach.Messages(r.Context(), userID, conversationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}
