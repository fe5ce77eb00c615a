/**
 * @description
 * Subscription resolution: derives a user's access tier at request time.
 * The remote payment processor is the authority for paid subscriptions;
 * when it is unreachable the resolver silently falls back to the locally
 * stored premium/trial flags so a billing outage never locks paying users
 * out. Trial access is a purely local concept and is honored even when the
 * processor reports no subscription.
 */
package app

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/store"
)

// SubscriptionResolver computes SubscriptionState for a user.
type SubscriptionResolver struct {
	repo    store.Repository
	billing BillingClient
	logger  *slog.Logger
	now     func() time.Time
}

// NewSubscriptionResolver creates a resolver. billing may be nil, in which
// case only the local flags are consulted.
func NewSubscriptionResolver(repo store.Repository, billing BillingClient, logger *slog.Logger) *SubscriptionResolver {
	return &SubscriptionResolver{repo: repo, billing: billing, logger: logger, now: time.Now}
}

// Resolve returns the user's access tier right now. A user without a
// profile record has no trial to honor and resolves to expired.
func (r *SubscriptionResolver) Resolve(ctx context.Context, userID string) (domain.SubscriptionState, error) {
	profile, err := r.repo.GetProfileByUserID(ctx, userID)
	if errors.Is(err, store.ErrProfileNotFound) {
		return domain.SubscriptionState{Status: domain.SubscriptionExpired}, nil
	}
	if err != nil {
		return domain.SubscriptionState{}, err
	}

	now := r.now()

	if r.billing != nil {
		if account, err := r.repo.FindAccountByID(ctx, userID); err == nil {
			status, err := r.billing.CheckSubscription(ctx, account.Email)
			if err != nil {
				r.logger.Warn("billing check failed, falling back to local flags", "user_id", userID, "err", err)
			} else if status.Subscribed {
				state := domain.SubscriptionState{Status: domain.SubscriptionPremium}
				if status.SubscriptionEnd != nil {
					state.DaysLeft = daysLeft(now, *status.SubscriptionEnd)
				}
				return state, nil
			}
		}
	}

	return resolveLocal(profile, now), nil
}

// resolveLocal derives the tier from the profile's own flags.
func resolveLocal(profile *domain.UserProfile, now time.Time) domain.SubscriptionState {
	if profile.IsPremium {
		if profile.TrialEndsAt == nil {
			return domain.SubscriptionState{Status: domain.SubscriptionPremium}
		}
		if profile.TrialEndsAt.After(now) {
			return domain.SubscriptionState{
				Status:   domain.SubscriptionPremium,
				DaysLeft: daysLeft(now, *profile.TrialEndsAt),
			}
		}
		return domain.SubscriptionState{Status: domain.SubscriptionExpired}
	}

	if profile.TrialEndsAt != nil && profile.TrialEndsAt.After(now) {
		return domain.SubscriptionState{
			Status:   domain.SubscriptionTrial,
			DaysLeft: daysLeft(now, *profile.TrialEndsAt),
		}
	}
	return domain.SubscriptionState{Status: domain.SubscriptionExpired}
}

// daysLeft counts remaining days rounded up, so a subscription ending in
// one hour still reads as 1 day.
func daysLeft(now, end time.Time) int {
	remaining := end.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}
