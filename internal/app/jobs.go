/**
 * @description
 * Scheduled job implementations: periodic re-validation of premium flags
 * against the payment processor, and the sweep that turns off stale
 * premium flags whose paid window has passed. Both jobs are idempotent;
 * running them twice in a row is harmless.
 */
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/store"
)

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	repo    store.Repository
	billing BillingClient
	events  Publisher
	logger  *slog.Logger
	now     func() time.Time
}

// NewJobs creates a Jobs runner.
func NewJobs(repo store.Repository, billing BillingClient, events Publisher, logger *slog.Logger) *Jobs {
	return &Jobs{repo: repo, billing: billing, events: events, logger: logger, now: time.Now}
}

// RevalidateBillingStatuses reconciles local premium flags with the
// payment processor so the stored flags stay usable as an offline
// fallback. Processor failures skip the affected user and carry on.
func (j *Jobs) RevalidateBillingStatuses() {
	j.logger.Info("starting billing revalidation job")
	ctx := context.Background()

	if j.billing == nil {
		j.logger.Info("no billing client configured, skipping revalidation")
		return
	}

	entries, err := j.repo.ListProfilesWithEmail(ctx)
	if err != nil {
		j.logger.Error("failed to list profiles for revalidation", "error", err)
		return
	}

	synced := 0
	for _, entry := range entries {
		status, err := j.billing.CheckSubscription(ctx, entry.Email)
		if err != nil {
			j.logger.Warn("billing check failed during revalidation", "user_id", entry.UserID, "error", err)
			continue
		}

		if status.Subscribed && status.SubscriptionEnd != nil {
			if entry.TrialEndsAt == nil || !entry.TrialEndsAt.Equal(*status.SubscriptionEnd) || !entry.IsPremium {
				if err := j.repo.SetPremium(ctx, entry.UserID, true, *status.SubscriptionEnd); err != nil {
					j.logger.Error("failed to sync premium flag", "user_id", entry.UserID, "error", err)
					continue
				}
				synced++
			}
		}
	}

	j.logger.Info("billing revalidation job finished", "checked", len(entries), "synced", synced)
}

// SweepExpiredPremium flips off premium flags whose paid window has
// passed. The resolver already treats those users as expired; this keeps
// the stored flags honest for the admin listing and the fallback path.
func (j *Jobs) SweepExpiredPremium() {
	j.logger.Info("starting expired premium sweep")
	ctx := context.Background()

	entries, err := j.repo.ListProfilesWithEmail(ctx)
	if err != nil {
		j.logger.Error("failed to list profiles for sweep", "error", err)
		return
	}

	now := j.now()
	swept := 0
	for _, entry := range entries {
		if !entry.IsPremium || entry.TrialEndsAt == nil || entry.TrialEndsAt.After(now) {
			continue
		}
		if err := j.repo.SetPremium(ctx, entry.UserID, false, *entry.TrialEndsAt); err != nil {
			j.logger.Error("failed to expire premium flag", "user_id", entry.UserID, "error", err)
			continue
		}
		swept++

		if j.events != nil {
			if err := j.events.Publish(ctx, eventsExchange, "subscription.expired", map[string]interface{}{
				"user_id": entry.UserID,
			}); err != nil {
				j.logger.Warn("failed to publish expiry event", "user_id", entry.UserID, "error", err)
			}
		}
	}

	j.logger.Info("expired premium sweep finished", "checked", len(entries), "swept", swept)
}
