/**
 * @description
 * Privileged admin operations: premium grants/revocations, the user
 * listing, and account deletion. Every call re-checks the admin role
 * server-side, and every grant/revoke writes an immutable audit row plus a
 * best-effort broker event. Grants stack: a new grant extends from the
 * later of now and the current expiry, so buying more months never
 * forfeits time already paid for.
 */
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/store"
)

var (
	ErrNotAdmin      = errors.New("admin role required")
	ErrSelfDelete    = errors.New("admins cannot delete their own account")
	ErrInvalidMonths = errors.New("plan months must be between 1 and 24")
)

// AdminService owns the privileged surface.
type AdminService struct {
	repo   store.Repository
	events Publisher
	logger *slog.Logger
	now    func() time.Time
}

// NewAdminService creates an AdminService.
func NewAdminService(repo store.Repository, events Publisher, logger *slog.Logger) *AdminService {
	return &AdminService{repo: repo, events: events, logger: logger, now: time.Now}
}

func (s *AdminService) requireAdmin(ctx context.Context, adminID string) error {
	ok, err := s.repo.HasRole(ctx, adminID, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAdmin
	}
	return nil
}

// GrantPremium marks the user with the given email premium for the given
// number of months, stacking on top of any unexpired grant.
func (s *AdminService) GrantPremium(ctx context.Context, adminID, email string, months int, amount int64, notes string) (*domain.UserProfile, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if months < 1 || months > 24 {
		return nil, ErrInvalidMonths
	}

	account, err := s.repo.FindAccountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	userID := account.ID
	profile, err := s.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// A grant stacks on any unexpired access, trial or premium, so the
	// months are added to what the user already has left.
	now := s.now()
	base := now
	if profile.TrialEndsAt != nil && profile.TrialEndsAt.After(base) {
		base = *profile.TrialEndsAt
	}
	newEnd := base.AddDate(0, months, 0)

	if err := s.repo.SetPremium(ctx, userID, true, newEnd); err != nil {
		return nil, err
	}
	if err := s.repo.InsertPaymentTransaction(ctx, &domain.PaymentTransaction{
		UserID:     userID,
		UserEmail:  account.Email,
		Action:     "activate",
		PlanMonths: months,
		Amount:     amount,
		AdminID:    adminID,
		Notes:      notes,
	}); err != nil {
		return nil, err
	}

	s.publish(ctx, "admin.premium.granted", domain.AuditEvent{
		Action:     "premium_granted",
		ActorID:    adminID,
		TargetID:   userID,
		Detail:     account.Email,
		OccurredAt: now,
	})

	profile.IsPremium = true
	profile.TrialEndsAt = &newEnd
	return profile, nil
}

// RevokePremium drops the user with the given email back to expired
// immediately.
func (s *AdminService) RevokePremium(ctx context.Context, adminID, email, notes string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	account, err := s.repo.FindAccountByEmail(ctx, email)
	if err != nil {
		return err
	}
	userID := account.ID

	now := s.now()
	if err := s.repo.SetPremium(ctx, userID, false, now); err != nil {
		return err
	}
	if err := s.repo.InsertPaymentTransaction(ctx, &domain.PaymentTransaction{
		UserID:    userID,
		UserEmail: account.Email,
		Action:    "deactivate",
		AdminID:   adminID,
		Notes:     notes,
	}); err != nil {
		return err
	}

	s.publish(ctx, "admin.premium.revoked", domain.AuditEvent{
		Action:     "premium_revoked",
		ActorID:    adminID,
		TargetID:   userID,
		Detail:     account.Email,
		OccurredAt: now,
	})
	return nil
}

// ListUsers returns every profile with its email and derived access tier.
func (s *AdminService) ListUsers(ctx context.Context, adminID string) ([]domain.PremiumUserEntry, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	entries, err := s.repo.ListProfilesWithEmail(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range entries {
		state := resolveLocal(&domain.UserProfile{
			IsPremium:   entries[i].IsPremium,
			TrialEndsAt: entries[i].TrialEndsAt,
		}, now)
		entries[i].Status = state.Status
	}
	return entries, nil
}

// DeleteUser removes an account and everything hanging off it. An admin
// cannot delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, adminID, userID string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if adminID == userID {
		return ErrSelfDelete
	}
	if err := s.repo.DeleteAccount(ctx, userID); err != nil {
		return err
	}

	s.publish(ctx, "admin.user.deleted", domain.AuditEvent{
		Action:     "user_deleted",
		ActorID:    adminID,
		TargetID:   userID,
		OccurredAt: s.now(),
	})
	return nil
}

func (s *AdminService) publish(ctx context.Context, routingKey string, event domain.AuditEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventsExchange, routingKey, event); err != nil {
		s.logger.Warn("failed to publish audit event", "routing_key", routingKey, "err", err)
	}
}
