package app

import (
	"context"
	"time"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/store"
)

// stubRepo is a hand-rolled store.Repository for service tests. Each method
// delegates to an optional func field; unset methods return not-found so a
// test only wires what it exercises.
type stubRepo struct {
	findAccountByEmailFn func(ctx context.Context, email string) (*domain.Account, error)
	findAccountByIDFn    func(ctx context.Context, userID string) (*domain.Account, error)
	deleteAccountFn      func(ctx context.Context, userID string) error
	hasRoleFn            func(ctx context.Context, userID string, role domain.Role) (bool, error)

	getProfileFn          func(ctx context.Context, userID string) (*domain.UserProfile, error)
	createProfileFn       func(ctx context.Context, userID string, trialEndsAt time.Time, referralCode string) (*domain.UserProfile, error)
	completeOnboardingFn  func(ctx context.Context, userID string, req domain.OnboardingRequest, targetCalories, proteinG, carbsG, fatG int) (*domain.UserProfile, error)
	setPremiumFn          func(ctx context.Context, userID string, isPremium bool, trialEndsAt time.Time) error
	extendTrialFn         func(ctx context.Context, userID string, trialEndsAt time.Time) error
	listProfilesFn        func(ctx context.Context) ([]domain.PremiumUserEntry, error)

	saveMealScanFn   func(ctx context.Context, scan *domain.MealScan, date string) (*domain.MealScan, *domain.DailyLog, error)
	deleteMealScanFn func(ctx context.Context, userID, scanID string) (*domain.DailyLog, error)
	getDailyLogFn    func(ctx context.Context, userID, date string) (*domain.DailyLog, error)
	listMealScansFn  func(ctx context.Context, userID, date string) ([]domain.MealScan, error)

	findProfileByReferralCodeFn func(ctx context.Context, code string) (*domain.UserProfile, error)
	createReferralFn            func(ctx context.Context, referrerID, referredID string) error

	createConversationFn func(ctx context.Context, userID, title string) (*domain.CoachConversation, error)
	listConversationsFn  func(ctx context.Context, userID string) ([]domain.CoachConversation, error)
	getConversationFn    func(ctx context.Context, userID, conversationID string) (*domain.CoachConversation, error)
	listMessagesFn       func(ctx context.Context, conversationID string) ([]domain.CoachMessage, error)
	appendMessagesFn     func(ctx context.Context, conversationID string, messages []domain.CoachMessage) error

	saveDietFn           func(ctx context.Context, diet *domain.SavedDiet) (*domain.SavedDiet, error)
	listDietsFn          func(ctx context.Context, userID string) ([]domain.SavedDiet, error)
	saveProgressPhotoFn  func(ctx context.Context, photo *domain.ProgressPhoto) (*domain.ProgressPhoto, error)
	listProgressPhotosFn func(ctx context.Context, userID string) ([]domain.ProgressPhoto, error)

	insertPaymentTransactionFn func(ctx context.Context, tx *domain.PaymentTransaction) error
}

func (s *stubRepo) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if s.findAccountByEmailFn != nil {
		return s.findAccountByEmailFn(ctx, email)
	}
	return nil, store.ErrAccountNotFound
}

func (s *stubRepo) FindAccountByID(ctx context.Context, userID string) (*domain.Account, error) {
	if s.findAccountByIDFn != nil {
		return s.findAccountByIDFn(ctx, userID)
	}
	return nil, store.ErrAccountNotFound
}

func (s *stubRepo) DeleteAccount(ctx context.Context, userID string) error {
	if s.deleteAccountFn != nil {
		return s.deleteAccountFn(ctx, userID)
	}
	return nil
}

func (s *stubRepo) HasRole(ctx context.Context, userID string, role domain.Role) (bool, error) {
	if s.hasRoleFn != nil {
		return s.hasRoleFn(ctx, userID, role)
	}
	return false, nil
}

func (s *stubRepo) GetProfileByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if s.getProfileFn != nil {
		return s.getProfileFn(ctx, userID)
	}
	return nil, store.ErrProfileNotFound
}

func (s *stubRepo) CreateProfile(ctx context.Context, userID string, trialEndsAt time.Time, referralCode string) (*domain.UserProfile, error) {
	if s.createProfileFn != nil {
		return s.createProfileFn(ctx, userID, trialEndsAt, referralCode)
	}
	return &domain.UserProfile{UserID: userID, TrialEndsAt: &trialEndsAt, ReferralCode: &referralCode}, nil
}

func (s *stubRepo) CompleteOnboarding(ctx context.Context, userID string, req domain.OnboardingRequest, targetCalories, proteinG, carbsG, fatG int) (*domain.UserProfile, error) {
	if s.completeOnboardingFn != nil {
		return s.completeOnboardingFn(ctx, userID, req, targetCalories, proteinG, carbsG, fatG)
	}
	return &domain.UserProfile{UserID: userID}, nil
}

func (s *stubRepo) SetPremium(ctx context.Context, userID string, isPremium bool, trialEndsAt time.Time) error {
	if s.setPremiumFn != nil {
		return s.setPremiumFn(ctx, userID, isPremium, trialEndsAt)
	}
	return nil
}

func (s *stubRepo) ExtendTrial(ctx context.Context, userID string, trialEndsAt time.Time) error {
	if s.extendTrialFn != nil {
		return s.extendTrialFn(ctx, userID, trialEndsAt)
	}
	return nil
}

func (s *stubRepo) ListProfilesWithEmail(ctx context.Context) ([]domain.PremiumUserEntry, error) {
	if s.listProfilesFn != nil {
		return s.listProfilesFn(ctx)
	}
	return nil, nil
}

func (s *stubRepo) SaveMealScan(ctx context.Context, scan *domain.MealScan, date string) (*domain.MealScan, *domain.DailyLog, error) {
	if s.saveMealScanFn != nil {
		return s.saveMealScanFn(ctx, scan, date)
	}
	return scan, &domain.DailyLog{UserID: scan.UserID, Date: date}, nil
}

func (s *stubRepo) DeleteMealScan(ctx context.Context, userID, scanID string) (*domain.DailyLog, error) {
	if s.deleteMealScanFn != nil {
		return s.deleteMealScanFn(ctx, userID, scanID)
	}
	return nil, store.ErrMealScanNotFound
}

func (s *stubRepo) GetDailyLog(ctx context.Context, userID, date string) (*domain.DailyLog, error) {
	if s.getDailyLogFn != nil {
		return s.getDailyLogFn(ctx, userID, date)
	}
	return nil, store.ErrDailyLogNotFound
}

func (s *stubRepo) ListMealScans(ctx context.Context, userID, date string) ([]domain.MealScan, error) {
	if s.listMealScansFn != nil {
		return s.listMealScansFn(ctx, userID, date)
	}
	return nil, nil
}

func (s *stubRepo) FindProfileByReferralCode(ctx context.Context, code string) (*domain.UserProfile, error) {
	if s.findProfileByReferralCodeFn != nil {
		return s.findProfileByReferralCodeFn(ctx, code)
	}
	return nil, store.ErrReferralCodeInvalid
}

func (s *stubRepo) CreateReferral(ctx context.Context, referrerID, referredID string) error {
	if s.createReferralFn != nil {
		return s.createReferralFn(ctx, referrerID, referredID)
	}
	return nil
}

func (s *stubRepo) CreateConversation(ctx context.Context, userID, title string) (*domain.CoachConversation, error) {
	if s.createConversationFn != nil {
		return s.createConversationFn(ctx, userID, title)
	}
	return &domain.CoachConversation{ID: "conv-1", UserID: userID, Title: title}, nil
}

func (s *stubRepo) ListConversations(ctx context.Context, userID string) ([]domain.CoachConversation, error) {
	if s.listConversationsFn != nil {
		return s.listConversationsFn(ctx, userID)
	}
	return nil, nil
}

func (s *stubRepo) GetConversation(ctx context.Context, userID, conversationID string) (*domain.CoachConversation, error) {
	if s.getConversationFn != nil {
		return s.getConversationFn(ctx, userID, conversationID)
	}
	return nil, store.ErrConversationNotFound
}

func (s *stubRepo) ListMessages(ctx context.Context, conversationID string) ([]domain.CoachMessage, error) {
	if s.listMessagesFn != nil {
		return s.listMessagesFn(ctx, conversationID)
	}
	return nil, nil
}

func (s *stubRepo) AppendMessages(ctx context.Context, conversationID string, messages []domain.CoachMessage) error {
	if s.appendMessagesFn != nil {
		return s.appendMessagesFn(ctx, conversationID, messages)
	}
	return nil
}

func (s *stubRepo) SaveDiet(ctx context.Context, diet *domain.SavedDiet) (*domain.SavedDiet, error) {
	if s.saveDietFn != nil {
		return s.saveDietFn(ctx, diet)
	}
	return diet, nil
}

func (s *stubRepo) ListDiets(ctx context.Context, userID string) ([]domain.SavedDiet, error) {
	if s.listDietsFn != nil {
		return s.listDietsFn(ctx, userID)
	}
	return nil, nil
}

func (s *stubRepo) SaveProgressPhoto(ctx context.Context, photo *domain.ProgressPhoto) (*domain.ProgressPhoto, error) {
	if s.saveProgressPhotoFn != nil {
		return s.saveProgressPhotoFn(ctx, photo)
	}
	return photo, nil
}

func (s *stubRepo) ListProgressPhotos(ctx context.Context, userID string) ([]domain.ProgressPhoto, error) {
	if s.listProgressPhotosFn != nil {
		return s.listProgressPhotosFn(ctx, userID)
	}
	return nil, nil
}

func (s *stubRepo) InsertPaymentTransaction(ctx context.Context, tx *domain.PaymentTransaction) error {
	if s.insertPaymentTransactionFn != nil {
		return s.insertPaymentTransactionFn(ctx, tx)
	}
	return nil
}

// stubPublisher records every published event.
type stubPublisher struct {
	events []publishedEvent
}

type publishedEvent struct {
	exchange   string
	routingKey string
	body       interface{}
}

func (p *stubPublisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	p.events = append(p.events, publishedEvent{exchange: exchange, routingKey: routingKey, body: body})
	return nil
}
