/**
 * @description
 * Domain models for the privileged admin surface: account records, role
 * checks, the premium-user listing, and the immutable payment transaction
 * audit trail written by every grant/revoke.
 */
package domain

import "time"

// Role is a server-side role assignment in the `user_roles` table. The admin
// role is the only trust boundary for the privileged endpoints; it is never
// taken from client state.
type Role string

const RoleAdmin Role = "admin"

// Account is a row in the `users` table (authentication account, distinct
// from the nutrition profile).
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// PremiumUserEntry is one row of the admin console's user list, with the
// access tier derived the same way the resolver derives it.
type PremiumUserEntry struct {
	UserID      string             `json:"user_id"`
	Email       string             `json:"email"`
	IsPremium   bool               `json:"is_premium"`
	TrialEndsAt *time.Time         `json:"trial_ends_at,omitempty"`
	Status      SubscriptionStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

// PaymentTransaction is an immutable audit row in `payment_transactions`.
// Inserted for every admin grant/revoke; never updated or deleted.
type PaymentTransaction struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	UserEmail  string    `json:"user_email"`
	Action     string    `json:"action"` // "activate" | "deactivate"
	PlanMonths int       `json:"plan_months"`
	Amount     int64     `json:"amount"`
	AdminID    string    `json:"admin_id"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}
