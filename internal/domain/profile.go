/**
 * @description
 * This file defines the core domain models for user profiles and their
 * derived nutrition targets. The profile maps to the `profiles` table and
 * is the single source of truth for the onboarding data the calculators
 * consume.
 */
package domain

import "time"

// Sex selects the BMR formula branch. Only the two observed values exist.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityLevel maps to a fixed TDEE multiplier.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Goal maps to a fixed deficit/surplus factor applied to TDEE.
type Goal string

const (
	GoalLightDeficit   Goal = "light_deficit"
	GoalExtremeDeficit Goal = "extreme_deficit"
	GoalRecomposition  Goal = "recomposition"
)

// UserProfile represents a row in the `profiles` table. Target fields are
// derived by the macro calculator at onboarding completion and on edits;
// trial/premium fields are mutated only through the subscription paths.
type UserProfile struct {
	ID                  string        `json:"id"`
	UserID              string        `json:"user_id"`
	Age                 *int          `json:"age,omitempty"`
	Sex                 *Sex          `json:"sex,omitempty"`
	WeightKg            *float64      `json:"weight_kg,omitempty"`
	HeightCm            *float64      `json:"height_cm,omitempty"`
	ActivityLevel       *ActivityLevel `json:"activity_level,omitempty"`
	Goal                *Goal         `json:"goal,omitempty"`
	TargetCalories      *int          `json:"target_calories,omitempty"`
	TargetProtein       *int          `json:"target_protein,omitempty"`
	TargetCarbs         *int          `json:"target_carbs,omitempty"`
	TargetFat           *int          `json:"target_fat,omitempty"`
	OnboardingCompleted bool          `json:"onboarding_completed"`
	TrialEndsAt         *time.Time    `json:"trial_ends_at,omitempty"`
	IsPremium           bool          `json:"is_premium"`
	ReferralCode        *string       `json:"referral_code,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// OnboardingRequest is the payload received when a user completes onboarding.
type OnboardingRequest struct {
	Age           int           `json:"age"`
	Sex           Sex           `json:"sex"`
	WeightKg      float64       `json:"weight_kg"`
	HeightCm      float64       `json:"height_cm"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	Goal          Goal          `json:"goal"`
}

// ValidSex reports whether s is one of the two supported values.
func ValidSex(s Sex) bool {
	return s == SexMale || s == SexFemale
}

// ValidActivityLevel reports whether a is a known activity level.
func ValidActivityLevel(a ActivityLevel) bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return true
	}
	return false
}

// ValidGoal reports whether g is a known goal tier.
func ValidGoal(g Goal) bool {
	switch g {
	case GoalLightDeficit, GoalExtremeDeficit, GoalRecomposition:
		return true
	}
	return false
}
