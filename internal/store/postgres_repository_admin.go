/**
 * @description
 * Postgres repository methods behind the admin console: the joined
 * profile+email listing and the immutable payment transaction audit trail.
 */
package store

import (
	"context"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
)

// ListProfilesWithEmail returns every profile joined to its account email,
// newest signups first. Status is left for the service layer to derive so
// the tier rules live in exactly one place.
func (r *PostgresRepository) ListProfilesWithEmail(ctx context.Context) ([]domain.PremiumUserEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.user_id, u.email, p.is_premium, p.trial_ends_at, p.created_at
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.PremiumUserEntry
	for rows.Next() {
		var e domain.PremiumUserEntry
		if err := rows.Scan(&e.UserID, &e.Email, &e.IsPremium, &e.TrialEndsAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// InsertPaymentTransaction appends one audit row. There is deliberately no
// update or delete for this table.
func (r *PostgresRepository) InsertPaymentTransaction(ctx context.Context, tx *domain.PaymentTransaction) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payment_transactions (user_id, user_email, action, plan_months, amount, admin_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tx.UserID, tx.UserEmail, tx.Action, tx.PlanMonths, tx.Amount, tx.AdminID, tx.Notes)
	return err
}
