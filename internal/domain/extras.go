/**
 * @description
 * Domain models for the remaining persisted collections: referrals, saved
 * diet plans, progress photos, and the audit events published to the message
 * broker.
 */
package domain

import (
	"encoding/json"
	"time"
)

// Referral is a row in `referrals`. A user may be referred at most once;
// self-referral is rejected at the service layer.
type Referral struct {
	ID         string    `json:"id"`
	ReferrerID string    `json:"referrer_id"`
	ReferredID string    `json:"referred_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// SavedDiet is a row in `saved_diets`: a generated meal plan the user kept.
// The plan body is stored as the gateway's validated JSON.
type SavedDiet struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Plan      json.RawMessage `json:"plan"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProgressPhoto is a row in `progress_photos`.
type ProgressPhoto struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PhotoURL  string    `json:"photo_url"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BodyFatEstimate is the validated response of a body-fat photo analysis.
type BodyFatEstimate struct {
	BodyFatPercent float64 `json:"bodyFatPercent"`
	Category       string  `json:"category"`
	Analysis       string  `json:"analysis"`
	Tips           string  `json:"tips"`
}

// AuditEvent is the payload published to the events exchange for every
// privileged or account-shaping mutation.
type AuditEvent struct {
	Action     string    `json:"action"`
	ActorID    string    `json:"actor_id"`
	TargetID   string    `json:"target_id"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
