package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
)

type stubBilling struct {
	status *domain.BillingStatus
	err    error
	calls  int
}

func (b *stubBilling) CheckSubscription(ctx context.Context, email string) (*domain.BillingStatus, error) {
	b.calls++
	return b.status, b.err
}

func profileRepo(profile *domain.UserProfile) *stubRepo {
	return &stubRepo{
		getProfileFn: func(ctx context.Context, userID string) (*domain.UserProfile, error) {
			return profile, nil
		},
		findAccountByIDFn: func(ctx context.Context, userID string) (*domain.Account, error) {
			return &domain.Account{ID: userID, Email: "user@example.com"}, nil
		},
	}
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
}

func TestResolve_RemoteSubscriptionTakesPrecedence(t *testing.T) {
	// Local flags say expired; the processor says subscribed.
	profile := &domain.UserProfile{UserID: "u", IsPremium: false}
	end := fixedNow().Add(30 * 24 * time.Hour)
	billing := &stubBilling{status: &domain.BillingStatus{Subscribed: true, SubscriptionEnd: &end}}

	resolver := NewSubscriptionResolver(profileRepo(profile), billing, discardLogger())
	resolver.now = fixedNow

	state, err := resolver.Resolve(context.Background(), "u")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if state.Status != domain.SubscriptionPremium {
		t.Fatalf("expected premium from remote, got %s", state.Status)
	}
	if state.DaysLeft != 30 {
		t.Fatalf("expected 30 days left, got %d", state.DaysLeft)
	}
}

func TestResolve_BillingFailureFallsBackToLocalFlags(t *testing.T) {
	trialEnd := fixedNow().Add(3 * 24 * time.Hour)
	profile := &domain.UserProfile{UserID: "u", TrialEndsAt: &trialEnd}
	billing := &stubBilling{err: errors.New("processor timeout")}

	resolver := NewSubscriptionResolver(profileRepo(profile), billing, discardLogger())
	resolver.now = fixedNow

	state, err := resolver.Resolve(context.Background(), "u")
	if err != nil {
		t.Fatalf("expected silent fallback, got error: %v", err)
	}
	if state.Status != domain.SubscriptionTrial || state.DaysLeft != 3 {
		t.Fatalf("expected active 3-day trial from local flags, got %+v", state)
	}
}

func TestResolve_TrialHonoredWhenRemoteSaysUnsubscribed(t *testing.T) {
	trialEnd := fixedNow().Add(24 * time.Hour)
	profile := &domain.UserProfile{UserID: "u", TrialEndsAt: &trialEnd}
	billing := &stubBilling{status: &domain.BillingStatus{Subscribed: false}}

	resolver := NewSubscriptionResolver(profileRepo(profile), billing, discardLogger())
	resolver.now = fixedNow

	state, err := resolver.Resolve(context.Background(), "u")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if state.Status != domain.SubscriptionTrial {
		t.Fatalf("expected trial, got %s", state.Status)
	}
}

func TestResolve_DaysLeftRoundsUp(t *testing.T) {
	// One hour remaining still counts as one day.
	trialEnd := fixedNow().Add(time.Hour)
	profile := &domain.UserProfile{UserID: "u", TrialEndsAt: &trialEnd}

	resolver := NewSubscriptionResolver(profileRepo(profile), nil, discardLogger())
	resolver.now = fixedNow

	state, err := resolver.Resolve(context.Background(), "u")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if state.Status != domain.SubscriptionTrial || state.DaysLeft != 1 {
		t.Fatalf("expected trial with 1 day left, got %+v", state)
	}
}

func TestResolve_ExpiredTrialDeniesAccess(t *testing.T) {
	trialEnd := fixedNow().Add(-time.Minute)
	profile := &domain.UserProfile{UserID: "u", TrialEndsAt: &trialEnd}

	resolver := NewSubscriptionResolver(profileRepo(profile), nil, discardLogger())
	resolver.now = fixedNow

	state, err := resolver.Resolve(context.Background(), "u")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if state.Status != domain.SubscriptionExpired || state.HasAccess() {
		t.Fatalf("expected expired without access, got %+v", state)
	}
}

func TestResolve_PremiumFlagWithFutureExpiry(t *testing.T) {
	end := fixedNow().Add(60 * 24 * time.Hour)
	profile := &domain.UserProfile{UserID: "u", IsPremium: true, TrialEndsAt: &end}

	resolver := NewSubscriptionResolver(profileRepo(profile), nil, discardLogger())
	resolver.now = fixedNow

	state, err := resolver.Resolve(context.Background(), "u")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if state.Status != domain.SubscriptionPremium || state.DaysLeft != 60 {
		t.Fatalf("expected premium with 60 days, got %+v", state)
	}
}

func TestResolve_MissingProfileIsExpired(t *testing.T) {
	resolver := NewSubscriptionResolver(&stubRepo{}, nil, discardLogger())

	state, err := resolver.Resolve(context.Background(), "brand-new")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if state.Status != domain.SubscriptionExpired || state.HasAccess() {
		t.Fatalf("expected expired without access, got %+v", state)
	}
}
