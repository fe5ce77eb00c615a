package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/store"
)

func referralRepo(referrer *domain.UserProfile) *stubRepo {
	return &stubRepo{
		findProfileByReferralCodeFn: func(ctx context.Context, code string) (*domain.UserProfile, error) {
			if code == "FIT123" {
				return referrer, nil
			}
			return nil, store.ErrReferralCodeInvalid
		},
	}
}

func TestRedeem_ExtendsReferrerTrialBySevenDays(t *testing.T) {
	now := fixedNow()
	trialEnd := now.Add(2 * 24 * time.Hour)
	referrer := &domain.UserProfile{UserID: "referrer", TrialEndsAt: &trialEnd}

	var extendedTo time.Time
	repo := referralRepo(referrer)
	repo.extendTrialFn = func(ctx context.Context, userID string, trialEndsAt time.Time) error {
		extendedTo = trialEndsAt
		return nil
	}

	svc := NewReferralService(repo, nil, discardLogger())
	svc.now = fixedNow

	if err := svc.Redeem(context.Background(), "new-user", "fit123"); err != nil {
		t.Fatalf("Redeem returned error: %v", err)
	}
	if want := trialEnd.AddDate(0, 0, 7); !extendedTo.Equal(want) {
		t.Fatalf("expected trial extended to %v, got %v", want, extendedTo)
	}
}

func TestRedeem_ExpiredReferrerBonusStartsFromNow(t *testing.T) {
	now := fixedNow()
	trialEnd := now.Add(-24 * time.Hour)
	referrer := &domain.UserProfile{UserID: "referrer", TrialEndsAt: &trialEnd}

	var extendedTo time.Time
	repo := referralRepo(referrer)
	repo.extendTrialFn = func(ctx context.Context, userID string, trialEndsAt time.Time) error {
		extendedTo = trialEndsAt
		return nil
	}

	svc := NewReferralService(repo, nil, discardLogger())
	svc.now = fixedNow

	if err := svc.Redeem(context.Background(), "new-user", "FIT123"); err != nil {
		t.Fatalf("Redeem returned error: %v", err)
	}
	if want := now.AddDate(0, 0, 7); !extendedTo.Equal(want) {
		t.Fatalf("expected trial extended to %v, got %v", want, extendedTo)
	}
}

func TestRedeem_RejectsSelfReferral(t *testing.T) {
	referrer := &domain.UserProfile{UserID: "referrer"}
	svc := NewReferralService(referralRepo(referrer), nil, discardLogger())

	if err := svc.Redeem(context.Background(), "referrer", "FIT123"); !errors.Is(err, ErrSelfReferral) {
		t.Fatalf("expected ErrSelfReferral, got %v", err)
	}
}

func TestRedeem_UnknownCode(t *testing.T) {
	svc := NewReferralService(referralRepo(&domain.UserProfile{UserID: "referrer"}), nil, discardLogger())

	if err := svc.Redeem(context.Background(), "new-user", "NOPE"); !errors.Is(err, store.ErrReferralCodeInvalid) {
		t.Fatalf("expected ErrReferralCodeInvalid, got %v", err)
	}
}

func TestRedeem_SecondRedemptionRejected(t *testing.T) {
	referrer := &domain.UserProfile{UserID: "referrer"}
	repo := referralRepo(referrer)
	repo.createReferralFn = func(ctx context.Context, referrerID, referredID string) error {
		return store.ErrAlreadyReferred
	}

	svc := NewReferralService(repo, nil, discardLogger())

	if err := svc.Redeem(context.Background(), "new-user", "FIT123"); !errors.Is(err, store.ErrAlreadyReferred) {
		t.Fatalf("expected ErrAlreadyReferred, got %v", err)
	}
}
