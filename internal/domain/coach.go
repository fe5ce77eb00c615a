/**
 * @description
 * Domain models for coach conversations. Transcripts are persisted per
 * message; the assistant side of a streamed exchange is written once, after
 * the stream concludes, not per token.
 */
package domain

import "time"

// CoachConversation is a row in `coach_conversations`.
type CoachConversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CoachMessage is a row in `coach_messages`. Role is "user" or "assistant".
type CoachMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// CoachContext carries the caller's numeric day into the system prompt so
// the coach can answer with the user's actual targets and intake.
type CoachContext struct {
	WeightKg         *float64 `json:"weight,omitempty"`
	Age              *int     `json:"age,omitempty"`
	Sex              *Sex     `json:"sex,omitempty"`
	ActivityLevel    *ActivityLevel `json:"activity_level,omitempty"`
	TargetCalories   *int     `json:"target_calories,omitempty"`
	TargetProtein    *int     `json:"target_protein,omitempty"`
	TargetCarbs      *int     `json:"target_carbs,omitempty"`
	TargetFat        *int     `json:"target_fat,omitempty"`
	ConsumedCalories *int     `json:"consumed_calories,omitempty"`
	ConsumedProtein  *float64 `json:"consumed_protein,omitempty"`
	ConsumedCarbs    *float64 `json:"consumed_carbs,omitempty"`
	ConsumedFat      *float64 `json:"consumed_fat,omitempty"`
}
