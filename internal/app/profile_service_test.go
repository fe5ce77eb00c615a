package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
)

func TestGetOrCreate_FirstTouchStartsTrialAndMintsCode(t *testing.T) {
	var createdTrialEnd time.Time
	var createdCode string
	repo := &stubRepo{
		createProfileFn: func(ctx context.Context, userID string, trialEndsAt time.Time, referralCode string) (*domain.UserProfile, error) {
			createdTrialEnd = trialEndsAt
			createdCode = referralCode
			return &domain.UserProfile{UserID: userID, TrialEndsAt: &trialEndsAt, ReferralCode: &referralCode}, nil
		},
	}

	svc := NewProfileService(repo, 3, discardLogger())
	svc.now = fixedNow

	profile, err := svc.GetOrCreate(context.Background(), "new-user")
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	if want := fixedNow().AddDate(0, 0, 3); !createdTrialEnd.Equal(want) {
		t.Fatalf("expected trial end %v, got %v", want, createdTrialEnd)
	}
	if len(createdCode) != 8 {
		t.Fatalf("expected 8-char referral code, got %q", createdCode)
	}
	if profile.UserID != "new-user" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestGetOrCreate_ExistingProfileNotRecreated(t *testing.T) {
	existing := &domain.UserProfile{UserID: "u", OnboardingCompleted: true}
	created := false
	repo := &stubRepo{
		getProfileFn: func(ctx context.Context, userID string) (*domain.UserProfile, error) {
			return existing, nil
		},
		createProfileFn: func(ctx context.Context, userID string, trialEndsAt time.Time, referralCode string) (*domain.UserProfile, error) {
			created = true
			return nil, nil
		},
	}

	svc := NewProfileService(repo, 3, discardLogger())

	profile, err := svc.GetOrCreate(context.Background(), "u")
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	if created {
		t.Fatal("existing profile must not be recreated")
	}
	if profile != existing {
		t.Fatalf("expected existing profile back, got %+v", profile)
	}
}

func TestCompleteOnboarding_DerivesTargets(t *testing.T) {
	var gotCalories, gotProtein int
	repo := &stubRepo{
		completeOnboardingFn: func(ctx context.Context, userID string, req domain.OnboardingRequest, targetCalories, proteinG, carbsG, fatG int) (*domain.UserProfile, error) {
			gotCalories = targetCalories
			gotProtein = proteinG
			return &domain.UserProfile{UserID: userID, OnboardingCompleted: true, TargetCalories: &targetCalories}, nil
		},
	}
	svc := NewProfileService(repo, 3, discardLogger())

	req := domain.OnboardingRequest{
		Age: 30, Sex: domain.SexMale, WeightKg: 80, HeightCm: 180,
		ActivityLevel: domain.ActivityModerate, Goal: domain.GoalExtremeDeficit,
	}
	profile, err := svc.CompleteOnboarding(context.Background(), "u", req)
	if err != nil {
		t.Fatalf("CompleteOnboarding returned error: %v", err)
	}
	if !profile.OnboardingCompleted {
		t.Fatalf("expected completed profile, got %+v", profile)
	}
	// BMR 1780 at the moderate multiplier gives TDEE 2759; the default
	// deficit lands on 2138 kcal, protein at 2.4 g per kg.
	if gotCalories != 2138 {
		t.Fatalf("expected target calories 2138, got %d", gotCalories)
	}
	if gotProtein != 192 {
		t.Fatalf("expected protein 192g, got %d", gotProtein)
	}
}

func TestCompleteOnboarding_RejectsBadInput(t *testing.T) {
	svc := NewProfileService(&stubRepo{}, 3, discardLogger())
	valid := domain.OnboardingRequest{
		Age: 30, Sex: domain.SexMale, WeightKg: 80, HeightCm: 180,
		ActivityLevel: domain.ActivityModerate, Goal: domain.GoalRecomposition,
	}

	cases := []func(r *domain.OnboardingRequest){
		func(r *domain.OnboardingRequest) { r.Age = 0 },
		func(r *domain.OnboardingRequest) { r.WeightKg = -1 },
		func(r *domain.OnboardingRequest) { r.HeightCm = 0 },
		func(r *domain.OnboardingRequest) { r.Sex = "other" },
		func(r *domain.OnboardingRequest) { r.ActivityLevel = "athlete" },
		func(r *domain.OnboardingRequest) { r.Goal = "bulk" },
	}
	for i, mutate := range cases {
		req := valid
		mutate(&req)
		if _, err := svc.CompleteOnboarding(context.Background(), "u", req); !errors.Is(err, ErrInvalidOnboarding) {
			t.Fatalf("case %d: expected ErrInvalidOnboarding, got %v", i, err)
		}
	}
}
