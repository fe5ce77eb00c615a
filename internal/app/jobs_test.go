package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
)

type perEmailBilling struct {
	byEmail map[string]*domain.BillingStatus
	errFor  map[string]error
}

func (b *perEmailBilling) CheckSubscription(ctx context.Context, email string) (*domain.BillingStatus, error) {
	if err, ok := b.errFor[email]; ok {
		return nil, err
	}
	if status, ok := b.byEmail[email]; ok {
		return status, nil
	}
	return &domain.BillingStatus{}, nil
}

func TestRevalidateBillingStatuses_SyncsConfirmedSubscriptions(t *testing.T) {
	now := fixedNow()
	remoteEnd := now.AddDate(0, 1, 0)
	staleEnd := now.AddDate(0, 0, 3)

	set := map[string]time.Time{}
	repo := &stubRepo{
		listProfilesFn: func(ctx context.Context) ([]domain.PremiumUserEntry, error) {
			return []domain.PremiumUserEntry{
				{UserID: "a", Email: "a@example.com", IsPremium: true, TrialEndsAt: &staleEnd},
				{UserID: "b", Email: "b@example.com"},
			}, nil
		},
		setPremiumFn: func(ctx context.Context, userID string, isPremium bool, trialEndsAt time.Time) error {
			set[userID] = trialEndsAt
			return nil
		},
	}
	billing := &perEmailBilling{byEmail: map[string]*domain.BillingStatus{
		"a@example.com": {Subscribed: true, SubscriptionEnd: &remoteEnd},
	}}

	jobs := NewJobs(repo, billing, nil, discardLogger())
	jobs.now = fixedNow
	jobs.RevalidateBillingStatuses()

	if end, ok := set["a"]; !ok || !end.Equal(remoteEnd) {
		t.Fatalf("expected user a synced to remote end %v, got %v (present=%v)", remoteEnd, end, ok)
	}
	if _, ok := set["b"]; ok {
		t.Fatal("unsubscribed user must not be touched")
	}
}

func TestRevalidateBillingStatuses_FailedCheckSkipsUser(t *testing.T) {
	touched := false
	repo := &stubRepo{
		listProfilesFn: func(ctx context.Context) ([]domain.PremiumUserEntry, error) {
			return []domain.PremiumUserEntry{{UserID: "a", Email: "a@example.com", IsPremium: true}}, nil
		},
		setPremiumFn: func(ctx context.Context, userID string, isPremium bool, trialEndsAt time.Time) error {
			touched = true
			return nil
		},
	}
	billing := &perEmailBilling{errFor: map[string]error{"a@example.com": errors.New("timeout")}}

	jobs := NewJobs(repo, billing, nil, discardLogger())
	jobs.RevalidateBillingStatuses()

	if touched {
		t.Fatal("a failed billing check must leave local flags alone")
	}
}

func TestSweepExpiredPremium_FlipsOnlyPastWindows(t *testing.T) {
	now := fixedNow()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	var flipped []string
	repo := &stubRepo{
		listProfilesFn: func(ctx context.Context) ([]domain.PremiumUserEntry, error) {
			return []domain.PremiumUserEntry{
				{UserID: "expired", IsPremium: true, TrialEndsAt: &past},
				{UserID: "active", IsPremium: true, TrialEndsAt: &future},
				{UserID: "free", TrialEndsAt: &past},
			}, nil
		},
		setPremiumFn: func(ctx context.Context, userID string, isPremium bool, trialEndsAt time.Time) error {
			if isPremium {
				t.Fatalf("sweep must only turn flags off, got premium=true for %s", userID)
			}
			flipped = append(flipped, userID)
			return nil
		},
	}
	events := &stubPublisher{}

	jobs := NewJobs(repo, nil, events, discardLogger())
	jobs.now = fixedNow
	jobs.SweepExpiredPremium()

	if len(flipped) != 1 || flipped[0] != "expired" {
		t.Fatalf("expected only the expired user flipped, got %v", flipped)
	}
	if len(events.events) != 1 || events.events[0].routingKey != "subscription.expired" {
		t.Fatalf("expected one expiry event, got %+v", events.events)
	}
}
