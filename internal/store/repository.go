/**
 * @description
 * This file defines the `Repository` interface for all database operations
 * the application services need, together with the sentinel errors the
 * Postgres implementation translates low-level failures into. Services
 * depend on this interface, never on pgx directly, which keeps the business
 * logic testable with hand-rolled stubs.
 */
package store

import (
	"context"
	"errors"
	"time"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrDailyLogNotFound     = errors.New("daily log not found")
	ErrMealScanNotFound     = errors.New("meal scan not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrReferralCodeInvalid  = errors.New("referral code not found")
	ErrAlreadyReferred      = errors.New("user already redeemed a referral code")
)

// Repository is the full persistence surface of the application.
type Repository interface {
	// Accounts and roles.
	FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindAccountByID(ctx context.Context, userID string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, userID string) error
	HasRole(ctx context.Context, userID string, role domain.Role) (bool, error)

	// Profiles.
	GetProfileByUserID(ctx context.Context, userID string) (*domain.UserProfile, error)
	CreateProfile(ctx context.Context, userID string, trialEndsAt time.Time, referralCode string) (*domain.UserProfile, error)
	CompleteOnboarding(ctx context.Context, userID string, req domain.OnboardingRequest, targetCalories, proteinG, carbsG, fatG int) (*domain.UserProfile, error)
	SetPremium(ctx context.Context, userID string, isPremium bool, trialEndsAt time.Time) error
	ExtendTrial(ctx context.Context, userID string, trialEndsAt time.Time) error
	ListProfilesWithEmail(ctx context.Context) ([]domain.PremiumUserEntry, error)

	// Meal scans and daily logs. Save and Delete perform the scan write and
	// the parent log's totals update inside one database transaction.
	SaveMealScan(ctx context.Context, scan *domain.MealScan, date string) (*domain.MealScan, *domain.DailyLog, error)
	DeleteMealScan(ctx context.Context, userID, scanID string) (*domain.DailyLog, error)
	GetDailyLog(ctx context.Context, userID, date string) (*domain.DailyLog, error)
	ListMealScans(ctx context.Context, userID, date string) ([]domain.MealScan, error)

	// Referrals.
	FindProfileByReferralCode(ctx context.Context, code string) (*domain.UserProfile, error)
	CreateReferral(ctx context.Context, referrerID, referredID string) error

	// Coach transcripts.
	CreateConversation(ctx context.Context, userID, title string) (*domain.CoachConversation, error)
	ListConversations(ctx context.Context, userID string) ([]domain.CoachConversation, error)
	GetConversation(ctx context.Context, userID, conversationID string) (*domain.CoachConversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]domain.CoachMessage, error)
	AppendMessages(ctx context.Context, conversationID string, messages []domain.CoachMessage) error

	// Saved diets and progress photos.
	SaveDiet(ctx context.Context, diet *domain.SavedDiet) (*domain.SavedDiet, error)
	ListDiets(ctx context.Context, userID string) ([]domain.SavedDiet, error)
	SaveProgressPhoto(ctx context.Context, photo *domain.ProgressPhoto) (*domain.ProgressPhoto, error)
	ListProgressPhotos(ctx context.Context, userID string) ([]domain.ProgressPhoto, error)

	// Audit trail.
	InsertPaymentTransaction(ctx context.Context, tx *domain.PaymentTransaction) error
}
