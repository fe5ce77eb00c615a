/**
 * @description
 * Postgres repository methods for coach transcripts, saved diet plans and
 * progress photos.
 */
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
)

// CreateConversation opens a new coach conversation.
func (r *PostgresRepository) CreateConversation(ctx context.Context, userID, title string) (*domain.CoachConversation, error) {
	var c domain.CoachConversation
	err := r.db.QueryRow(ctx, `
		INSERT INTO coach_conversations (user_id, title)
		VALUES ($1, $2)
		RETURNING id, user_id, title, created_at, updated_at`,
		userID, title).
		Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListConversations returns the user's conversations, most recent first.
func (r *PostgresRepository) ListConversations(ctx context.Context, userID string) ([]domain.CoachConversation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM coach_conversations WHERE user_id = $1
		ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []domain.CoachConversation
	for rows.Next() {
		var c domain.CoachConversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

// GetConversation fetches one conversation, enforcing ownership in SQL.
func (r *PostgresRepository) GetConversation(ctx context.Context, userID, conversationID string) (*domain.CoachConversation, error) {
	var c domain.CoachConversation
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM coach_conversations WHERE id = $1 AND user_id = $2`,
		conversationID, userID).
		Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListMessages returns a conversation's transcript in order.
func (r *PostgresRepository) ListMessages(ctx context.Context, conversationID string) ([]domain.CoachMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, conversation_id, role, content, created_at
		FROM coach_messages WHERE conversation_id = $1
		ORDER BY created_at ASC`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.CoachMessage
	for rows.Next() {
		var m domain.CoachMessage
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// AppendMessages persists a batch of transcript rows (typically the user
// message and the full streamed assistant reply together, once the stream
// has concluded) and bumps the conversation's updated_at.
func (r *PostgresRepository) AppendMessages(ctx context.Context, conversationID string, messages []domain.CoachMessage) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, m := range messages {
		if _, err := tx.Exec(ctx, `
			INSERT INTO coach_messages (conversation_id, role, content)
			VALUES ($1, $2, $3)`,
			conversationID, m.Role, m.Content); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx,
		`UPDATE coach_conversations SET updated_at = NOW() WHERE id = $1`, conversationID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SaveDiet stores a generated, validated diet plan.
func (r *PostgresRepository) SaveDiet(ctx context.Context, diet *domain.SavedDiet) (*domain.SavedDiet, error) {
	saved := *diet
	err := r.db.QueryRow(ctx, `
		INSERT INTO saved_diets (user_id, name, plan_json)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		diet.UserID, diet.Name, []byte(diet.Plan)).
		Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListDiets returns the user's saved diet plans, newest first.
func (r *PostgresRepository) ListDiets(ctx context.Context, userID string) ([]domain.SavedDiet, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, plan_json, created_at
		FROM saved_diets WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var diets []domain.SavedDiet
	for rows.Next() {
		var d domain.SavedDiet
		var plan []byte
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &plan, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Plan = plan
		diets = append(diets, d)
	}
	return diets, rows.Err()
}

// SaveProgressPhoto stores a progress photo's public URL.
func (r *PostgresRepository) SaveProgressPhoto(ctx context.Context, photo *domain.ProgressPhoto) (*domain.ProgressPhoto, error) {
	saved := *photo
	err := r.db.QueryRow(ctx, `
		INSERT INTO progress_photos (user_id, photo_url, note)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		photo.UserID, photo.PhotoURL, photo.Note).
		Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListProgressPhotos returns the user's progress photos, newest first.
func (r *PostgresRepository) ListProgressPhotos(ctx context.Context, userID string) ([]domain.ProgressPhoto, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, photo_url, note, created_at
		FROM progress_photos WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []domain.ProgressPhoto
	for rows.Next() {
		var p domain.ProgressPhoto
		if err := rows.Scan(&p.ID, &p.UserID, &p.PhotoURL, &p.Note, &p.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}
