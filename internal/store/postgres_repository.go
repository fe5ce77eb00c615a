/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository`
 * interface for accounts, profiles, meal scans and daily logs. The meal-scan
 * write path wraps the scan insert and the parent daily log's totals update
 * in a single transaction so the aggregate can never drift from its scans.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 */
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
)

// PostgresRepository is a concrete implementation of the Repository interface.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindAccountByEmail resolves an account by exact email match.
func (r *PostgresRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var acc domain.Account
	query := `SELECT id, email, created_at FROM users WHERE lower(btrim(email)) = lower(btrim($1))`
	err := r.db.QueryRow(ctx, query, email).Scan(&acc.ID, &acc.Email, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// FindAccountByID retrieves an account by its internal ID.
func (r *PostgresRepository) FindAccountByID(ctx context.Context, userID string) (*domain.Account, error) {
	var acc domain.Account
	err := r.db.QueryRow(ctx, `SELECT id, email, created_at FROM users WHERE id = $1`, userID).
		Scan(&acc.ID, &acc.Email, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// DeleteAccount removes the account row; dependent rows cascade.
func (r *PostgresRepository) DeleteAccount(ctx context.Context, userID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// HasRole reports whether the user carries the given role. This is the
// server-side check behind every privileged endpoint.
func (r *PostgresRepository) HasRole(ctx context.Context, userID string, role domain.Role) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`,
		userID, string(role)).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

const profileColumns = `id, user_id, age, sex, weight_kg, height_cm, activity_level, goal,
	target_calories, target_protein, target_carbs, target_fat,
	onboarding_completed, trial_ends_at, is_premium, referral_code, created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.UserProfile, error) {
	var p domain.UserProfile
	var sex, activity, goal *string
	err := row.Scan(
		&p.ID, &p.UserID, &p.Age, &sex, &p.WeightKg, &p.HeightCm, &activity, &goal,
		&p.TargetCalories, &p.TargetProtein, &p.TargetCarbs, &p.TargetFat,
		&p.OnboardingCompleted, &p.TrialEndsAt, &p.IsPremium, &p.ReferralCode,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	if sex != nil {
		s := domain.Sex(*sex)
		p.Sex = &s
	}
	if activity != nil {
		a := domain.ActivityLevel(*activity)
		p.ActivityLevel = &a
	}
	if goal != nil {
		g := domain.Goal(*goal)
		p.Goal = &g
	}
	return &p, nil
}

// GetProfileByUserID retrieves a user's profile.
func (r *PostgresRepository) GetProfileByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return scanProfile(r.db.QueryRow(ctx, query, userID))
}

// CreateProfile inserts the signup-time profile shell with its trial window
// and referral code.
func (r *PostgresRepository) CreateProfile(ctx context.Context, userID string, trialEndsAt time.Time, referralCode string) (*domain.UserProfile, error) {
	query := `
		INSERT INTO profiles (user_id, trial_ends_at, referral_code)
		VALUES ($1, $2, $3)
		RETURNING ` + profileColumns
	return scanProfile(r.db.QueryRow(ctx, query, userID, trialEndsAt, strings.ToUpper(referralCode)))
}

// CompleteOnboarding stores the collected body data and the derived targets.
func (r *PostgresRepository) CompleteOnboarding(ctx context.Context, userID string, req domain.OnboardingRequest, targetCalories, proteinG, carbsG, fatG int) (*domain.UserProfile, error) {
	query := `
		UPDATE profiles SET
			age = $2, sex = $3, weight_kg = $4, height_cm = $5,
			activity_level = $6, goal = $7,
			target_calories = $8, target_protein = $9, target_carbs = $10, target_fat = $11,
			onboarding_completed = TRUE, updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + profileColumns
	return scanProfile(r.db.QueryRow(ctx, query,
		userID, req.Age, string(req.Sex), req.WeightKg, req.HeightCm,
		string(req.ActivityLevel), string(req.Goal),
		targetCalories, proteinG, carbsG, fatG))
}

// SetPremium updates the premium flag and expiry together.
func (r *PostgresRepository) SetPremium(ctx context.Context, userID string, isPremium bool, trialEndsAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET is_premium = $2, trial_ends_at = $3, updated_at = NOW() WHERE user_id = $1`,
		userID, isPremium, trialEndsAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ExtendTrial moves the trial expiry without touching the premium flag.
func (r *PostgresRepository) ExtendTrial(ctx context.Context, userID string, trialEndsAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET trial_ends_at = $2, updated_at = NOW() WHERE user_id = $1`,
		userID, trialEndsAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// SaveMealScan inserts the confirmed scan and adds its totals to the lazily
// created daily log, all inside one transaction.
func (r *PostgresRepository) SaveMealScan(ctx context.Context, scan *domain.MealScan, date string) (*domain.MealScan, *domain.DailyLog, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	var log domain.DailyLog
	err = tx.QueryRow(ctx, `
		INSERT INTO daily_logs (user_id, date)
		VALUES ($1, $2)
		ON CONFLICT (user_id, date) DO UPDATE SET date = EXCLUDED.date
		RETURNING id, user_id, to_char(date, 'YYYY-MM-DD'), total_calories, total_protein, total_carbs, total_fat, created_at`,
		scan.UserID, date).
		Scan(&log.ID, &log.UserID, &log.Date, &log.TotalCalories, &log.TotalProtein, &log.TotalCarbs, &log.TotalFat, &log.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("upsert daily log: %w", err)
	}

	foodsJSON, err := json.Marshal(scan.Foods)
	if err != nil {
		return nil, nil, fmt.Errorf("encode foods: %w", err)
	}

	saved := *scan
	saved.DailyLogID = log.ID
	err = tx.QueryRow(ctx, `
		INSERT INTO meal_scans (user_id, daily_log_id, meal_type, photo_url, foods_json,
			total_calories, total_protein, total_carbs, total_fat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		scan.UserID, log.ID, string(scan.MealType), scan.PhotoURL, foodsJSON,
		scan.TotalCalories, scan.TotalProtein, scan.TotalCarbs, scan.TotalFat).
		Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("insert meal scan: %w", err)
	}

	err = tx.QueryRow(ctx, `
		UPDATE daily_logs SET
			total_calories = total_calories + $2,
			total_protein = total_protein + $3,
			total_carbs = total_carbs + $4,
			total_fat = total_fat + $5
		WHERE id = $1
		RETURNING total_calories, total_protein, total_carbs, total_fat`,
		log.ID, scan.TotalCalories, scan.TotalProtein, scan.TotalCarbs, scan.TotalFat).
		Scan(&log.TotalCalories, &log.TotalProtein, &log.TotalCarbs, &log.TotalFat)
	if err != nil {
		return nil, nil, fmt.Errorf("add scan totals to daily log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return &saved, &log, nil
}

// DeleteMealScan removes an owned scan and subtracts its totals from the
// parent daily log in the same transaction.
func (r *PostgresRepository) DeleteMealScan(ctx context.Context, userID, scanID string) (*domain.DailyLog, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var (
		dailyLogID string
		cal        int
		prot, carb, fat float64
	)
	err = tx.QueryRow(ctx, `
		DELETE FROM meal_scans
		WHERE id = $1 AND user_id = $2
		RETURNING daily_log_id, total_calories, total_protein, total_carbs, total_fat`,
		scanID, userID).
		Scan(&dailyLogID, &cal, &prot, &carb, &fat)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMealScanNotFound
		}
		return nil, err
	}

	var log domain.DailyLog
	err = tx.QueryRow(ctx, `
		UPDATE daily_logs SET
			total_calories = GREATEST(total_calories - $2, 0),
			total_protein = GREATEST(total_protein - $3, 0),
			total_carbs = GREATEST(total_carbs - $4, 0),
			total_fat = GREATEST(total_fat - $5, 0)
		WHERE id = $1
		RETURNING id, user_id, to_char(date, 'YYYY-MM-DD'), total_calories, total_protein, total_carbs, total_fat, created_at`,
		dailyLogID, cal, prot, carb, fat).
		Scan(&log.ID, &log.UserID, &log.Date, &log.TotalCalories, &log.TotalProtein, &log.TotalCarbs, &log.TotalFat, &log.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("subtract scan totals from daily log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &log, nil
}

// GetDailyLog fetches one user's aggregate for one date.
func (r *PostgresRepository) GetDailyLog(ctx context.Context, userID, date string) (*domain.DailyLog, error) {
	var log domain.DailyLog
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, to_char(date, 'YYYY-MM-DD'), total_calories, total_protein, total_carbs, total_fat, created_at
		FROM daily_logs WHERE user_id = $1 AND date = $2`,
		userID, date).
		Scan(&log.ID, &log.UserID, &log.Date, &log.TotalCalories, &log.TotalProtein, &log.TotalCarbs, &log.TotalFat, &log.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDailyLogNotFound
		}
		return nil, err
	}
	return &log, nil
}

// ListMealScans returns the user's scans for a date, newest first.
func (r *PostgresRepository) ListMealScans(ctx context.Context, userID, date string) ([]domain.MealScan, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ms.id, ms.user_id, ms.daily_log_id, ms.meal_type, ms.photo_url, ms.foods_json,
			ms.total_calories, ms.total_protein, ms.total_carbs, ms.total_fat, ms.created_at
		FROM meal_scans ms
		JOIN daily_logs dl ON dl.id = ms.daily_log_id
		WHERE ms.user_id = $1 AND dl.date = $2
		ORDER BY ms.created_at DESC`,
		userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []domain.MealScan
	for rows.Next() {
		var (
			scan      domain.MealScan
			mealType  *string
			foodsJSON []byte
		)
		if err := rows.Scan(&scan.ID, &scan.UserID, &scan.DailyLogID, &mealType, &scan.PhotoURL, &foodsJSON,
			&scan.TotalCalories, &scan.TotalProtein, &scan.TotalCarbs, &scan.TotalFat, &scan.CreatedAt); err != nil {
			return nil, err
		}
		if mealType != nil {
			scan.MealType = domain.MealType(*mealType)
		}
		if err := json.Unmarshal(foodsJSON, &scan.Foods); err != nil {
			return nil, fmt.Errorf("decode foods for scan %s: %w", scan.ID, err)
		}
		scans = append(scans, scan)
	}
	return scans, rows.Err()
}

// FindProfileByReferralCode resolves the owner of a referral code.
func (r *PostgresRepository) FindProfileByReferralCode(ctx context.Context, code string) (*domain.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE referral_code = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(code))))
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrReferralCodeInvalid
		}
		return nil, err
	}
	return p, nil
}

// CreateReferral records the redemption; the referred_id unique constraint
// enforces one redemption per user.
func (r *PostgresRepository) CreateReferral(ctx context.Context, referrerID, referredID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO referrals (referrer_id, referred_id) VALUES ($1, $2)`,
		referrerID, referredID)
	if err != nil && strings.Contains(err.Error(), "referrals_referred_id_key") {
		return ErrAlreadyReferred
	}
	return err
}
