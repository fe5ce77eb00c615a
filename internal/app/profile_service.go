/**
 * @description
 * Profile lifecycle: lazy creation on first touch (starting the free
 * trial and minting the user's referral code) and onboarding completion,
 * which runs the macro calculators and persists the derived daily targets
 * alongside the raw answers.
 */
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/nutrition"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/store"
)

var ErrInvalidOnboarding = errors.New("invalid onboarding data")

// ProfileService owns profile reads, lazy creation, and onboarding.
type ProfileService struct {
	repo      store.Repository
	trialDays int
	logger    *slog.Logger
	now       func() time.Time
}

// NewProfileService creates a ProfileService. trialDays is the free-trial
// length granted to every new profile.
func NewProfileService(repo store.Repository, trialDays int, logger *slog.Logger) *ProfileService {
	return &ProfileService{repo: repo, trialDays: trialDays, logger: logger, now: time.Now}
}

// GetOrCreate returns the user's profile, creating it on first touch. A
// fresh profile starts its trial clock immediately and carries a newly
// minted referral code.
func (s *ProfileService) GetOrCreate(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrProfileNotFound) {
		return nil, err
	}

	trialEndsAt := s.now().AddDate(0, 0, s.trialDays)
	return s.repo.CreateProfile(ctx, userID, trialEndsAt, newReferralCode())
}

// CompleteOnboarding validates the questionnaire, derives the daily macro
// targets, and persists both.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, userID string, req domain.OnboardingRequest) (*domain.UserProfile, error) {
	if err := validateOnboarding(req); err != nil {
		return nil, err
	}

	tdee := nutrition.CalculateTDEE(req.Sex, req.WeightKg, req.HeightCm, req.Age, req.ActivityLevel)
	targets := nutrition.CalculateMacros(tdee, req.WeightKg, req.Goal)
	if targets.CarbsClamped {
		s.logger.Warn("carb target clamped to zero", "user_id", userID, "target_calories", targets.TargetCalories)
	}

	return s.repo.CompleteOnboarding(ctx, userID, req, targets.TargetCalories, targets.ProteinG, targets.CarbsG, targets.FatG)
}

func validateOnboarding(req domain.OnboardingRequest) error {
	switch {
	case req.Age <= 0:
		return fmt.Errorf("%w: age must be positive", ErrInvalidOnboarding)
	case req.WeightKg <= 0:
		return fmt.Errorf("%w: weight must be positive", ErrInvalidOnboarding)
	case req.HeightCm <= 0:
		return fmt.Errorf("%w: height must be positive", ErrInvalidOnboarding)
	case !domain.ValidSex(req.Sex):
		return fmt.Errorf("%w: unknown sex %q", ErrInvalidOnboarding, req.Sex)
	case !domain.ValidActivityLevel(req.ActivityLevel):
		return fmt.Errorf("%w: unknown activity level %q", ErrInvalidOnboarding, req.ActivityLevel)
	case !domain.ValidGoal(req.Goal):
		return fmt.Errorf("%w: unknown goal %q", ErrInvalidOnboarding, req.Goal)
	}
	return nil
}

// newReferralCode mints a short shareable code. Uniqueness is enforced by
// the referral_code column's unique index.
func newReferralCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}
