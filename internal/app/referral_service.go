/**
 * @description
 * Referral redemption: a new user enters another user's referral code and
 * the referrer earns seven extra trial days. A user can redeem exactly one
 * code, never their own; both rules are enforced here (the once-only rule
 * is additionally backed by a unique constraint in the store).
 */
package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/store"
)

var ErrSelfReferral = errors.New("cannot redeem your own referral code")

const referralBonusDays = 7

// ReferralService redeems referral codes.
type ReferralService struct {
	repo   store.Repository
	events Publisher
	logger *slog.Logger
	now    func() time.Time
}

// NewReferralService creates a ReferralService.
func NewReferralService(repo store.Repository, events Publisher, logger *slog.Logger) *ReferralService {
	return &ReferralService{repo: repo, events: events, logger: logger, now: time.Now}
}

// Redeem records the referral and extends the referrer's trial. The bonus
// stacks on an unexpired trial; an already-expired referrer starts the
// bonus from now.
func (s *ReferralService) Redeem(ctx context.Context, userID, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return store.ErrReferralCodeInvalid
	}

	referrer, err := s.repo.FindProfileByReferralCode(ctx, code)
	if err != nil {
		return err
	}
	if referrer.UserID == userID {
		return ErrSelfReferral
	}

	if err := s.repo.CreateReferral(ctx, referrer.UserID, userID); err != nil {
		return err
	}

	now := s.now()
	base := now
	if referrer.TrialEndsAt != nil && referrer.TrialEndsAt.After(base) {
		base = *referrer.TrialEndsAt
	}
	newEnd := base.AddDate(0, 0, referralBonusDays)
	if err := s.repo.ExtendTrial(ctx, referrer.UserID, newEnd); err != nil {
		return err
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, eventsExchange, "referral.redeemed", map[string]interface{}{
			"referrer_id": referrer.UserID,
			"referred_id": userID,
		}); err != nil {
			s.logger.Warn("failed to publish referral event", "err", err)
		}
	}
	return nil
}
