/**
 * @description
 * Subscription access-tier types. SubscriptionState is derived, never stored:
 * it is computed from the profile's is_premium flag and trial_ends_at
 * timestamp, with the remote billing processor taking precedence when
 * reachable.
 */
package domain

import "time"

// SubscriptionStatus is the derived access tier of a user.
type SubscriptionStatus string

const (
	SubscriptionTrial   SubscriptionStatus = "trial"
	SubscriptionPremium SubscriptionStatus = "premium"
	SubscriptionExpired SubscriptionStatus = "expired"
)

// SubscriptionState is the resolver's answer for one user at one instant.
type SubscriptionState struct {
	Status   SubscriptionStatus `json:"status"`
	DaysLeft int                `json:"days_left"`
}

// HasAccess reports whether the state grants entry to gated features.
func (s SubscriptionState) HasAccess() bool {
	return s.Status == SubscriptionTrial || s.Status == SubscriptionPremium
}

// BillingStatus is the payment processor's answer for one account email.
type BillingStatus struct {
	Subscribed      bool       `json:"subscribed"`
	SubscriptionEnd *time.Time `json:"subscription_end,omitempty"`
}
