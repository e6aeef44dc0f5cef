package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// The feedback, learned-weight and sync-queue queries take a DBTX so the
// weight store can compose them inside a single transaction. A *DB can be
// passed directly for standalone reads.

const feedbackColumns = `
	id, persona_id, entity_id, entity_type, action, attributes,
	ai_score, user_agreed, created_at, updated_at`

func scanFeedback(row rowScanner) (*Feedback, error) {
	f := &Feedback{}
	var attributes string
	var aiScore sql.NullInt64
	var userAgreed sql.NullBool

	err := row.Scan(
		&f.ID, &f.PersonaID, &f.EntityID, &f.EntityType, &f.Action,
		&attributes, &aiScore, &userAgreed, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	f.Attributes = unmarshalStrings(attributes)
	f.AIScore = IntPtr(aiScore)
	f.UserAgreed = BoolPtr(userAgreed)
	return f, nil
}

// GetFeedbackEntry retrieves the feedback record for (persona, entity),
// or nil if none exists
func GetFeedbackEntry(ctx context.Context, q DBTX, personaID, entityID string) (*Feedback, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+feedbackColumns+`
		FROM feedback WHERE persona_id = ? AND entity_id = ?
	`, personaID, entityID)

	f, err := scanFeedback(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// UpsertFeedback inserts the feedback record for (persona, entity),
// replacing any prior judgment for the same pair
func UpsertFeedback(ctx context.Context, q DBTX, f *Feedback) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	now := time.Now()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now

	_, err := q.ExecContext(ctx, `
		INSERT INTO feedback (
			id, persona_id, entity_id, entity_type, action, attributes,
			ai_score, user_agreed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(persona_id, entity_id) DO UPDATE SET
			entity_type = excluded.entity_type,
			action = excluded.action,
			attributes = excluded.attributes,
			ai_score = excluded.ai_score,
			user_agreed = excluded.user_agreed,
			updated_at = excluded.updated_at
	`,
		f.ID, f.PersonaID, f.EntityID, f.EntityType, f.Action,
		marshalStrings(f.Attributes), NullInt64(f.AIScore), NullBool(f.UserAgreed),
		f.CreatedAt, f.UpdatedAt,
	)
	return err
}

// ListFeedback retrieves all feedback records for a persona in creation order
func ListFeedback(ctx context.Context, q DBTX, personaID string) ([]Feedback, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+feedbackColumns+`
		FROM feedback WHERE persona_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, personaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feedback []Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		feedback = append(feedback, *f)
	}

	return feedback, rows.Err()
}

// GetFeedbackStats returns aggregate feedback counts for a persona
func GetFeedbackStats(ctx context.Context, q DBTX, personaID string) (*FeedbackStats, error) {
	stats := &FeedbackStats{}

	err := q.QueryRowContext(ctx, `
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN action = 'like' THEN 1 ELSE 0 END), 0) as likes,
			COALESCE(SUM(CASE WHEN action = 'dislike' THEN 1 ELSE 0 END), 0) as dislikes
		FROM feedback WHERE persona_id = ?
	`, personaID).Scan(&stats.Total, &stats.Likes, &stats.Dislikes)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// Learned weights

const weightColumns = `persona_id, attribute, weight, like_count, dislike_count, created_at`

func scanWeight(row rowScanner) (*LearnedWeight, error) {
	w := &LearnedWeight{}
	err := row.Scan(
		&w.PersonaID, &w.Attribute, &w.Weight,
		&w.LikeCount, &w.DislikeCount, &w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// GetLearnedWeight retrieves the weight entry for (persona, attribute),
// or nil if none exists
func GetLearnedWeight(ctx context.Context, q DBTX, personaID, attribute string) (*LearnedWeight, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+weightColumns+`
		FROM learned_weights WHERE persona_id = ? AND attribute = ?
	`, personaID, attribute)

	w, err := scanWeight(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// PutLearnedWeight inserts or replaces the weight entry for
// (persona, attribute)
func PutLearnedWeight(ctx context.Context, q DBTX, w *LearnedWeight) error {
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO learned_weights (
			persona_id, attribute, weight, like_count, dislike_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(persona_id, attribute) DO UPDATE SET
			weight = excluded.weight,
			like_count = excluded.like_count,
			dislike_count = excluded.dislike_count
	`, w.PersonaID, w.Attribute, w.Weight, w.LikeCount, w.DislikeCount, w.CreatedAt)
	return err
}

// DeleteLearnedWeight removes the weight entry for (persona, attribute).
// Absent entries read as "no override".
func DeleteLearnedWeight(ctx context.Context, q DBTX, personaID, attribute string) error {
	_, err := q.ExecContext(ctx, `
		DELETE FROM learned_weights WHERE persona_id = ? AND attribute = ?
	`, personaID, attribute)
	return err
}

// TopWeights retrieves learned weights for a persona sorted by absolute
// weight descending, ties broken by insertion order
func TopWeights(ctx context.Context, q DBTX, personaID string, limit int) ([]LearnedWeight, error) {
	query := `
		SELECT ` + weightColumns + `
		FROM learned_weights WHERE persona_id = ?
		ORDER BY ABS(weight) DESC, rowid ASC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := q.QueryContext(ctx, query, personaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weights []LearnedWeight
	for rows.Next() {
		w, err := scanWeight(rows)
		if err != nil {
			return nil, err
		}
		weights = append(weights, *w)
	}

	return weights, rows.Err()
}

// ListLearnedWeights retrieves all weight entries for a persona in
// insertion order
func ListLearnedWeights(ctx context.Context, q DBTX, personaID string) ([]LearnedWeight, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+weightColumns+`
		FROM learned_weights WHERE persona_id = ?
		ORDER BY rowid ASC
	`, personaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weights []LearnedWeight
	for rows.Next() {
		w, err := scanWeight(rows)
		if err != nil {
			return nil, err
		}
		weights = append(weights, *w)
	}

	return weights, rows.Err()
}

// Sync queue

const syncColumns = `id, entity_id, entity_type, action, attempts, last_error, created_at, updated_at`

func scanSyncEntry(row rowScanner) (*SyncEntry, error) {
	e := &SyncEntry{}
	var lastError sql.NullString

	err := row.Scan(
		&e.ID, &e.EntityID, &e.EntityType, &e.Action,
		&e.Attempts, &lastError, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.LastError = StringPtr(lastError)
	return e, nil
}

// EnqueueSync records a pending status write to the upstream API
func EnqueueSync(ctx context.Context, q DBTX, e *SyncEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt

	_, err := q.ExecContext(ctx, `
		INSERT INTO sync_queue (
			id, entity_id, entity_type, action, attempts, last_error,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, 0, NULL, ?, ?)
	`, e.ID, e.EntityID, e.EntityType, e.Action, e.CreatedAt, e.UpdatedAt)
	return err
}

// ListPendingSync retrieves queue entries that have not exhausted their
// attempts, oldest first. Entries at or past maxAttempts stay in the
// table but are excluded from this view.
func ListPendingSync(ctx context.Context, q DBTX, maxAttempts int) ([]SyncEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+syncColumns+`
		FROM sync_queue WHERE attempts < ?
		ORDER BY created_at ASC, rowid ASC
	`, maxAttempts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []SyncEntry
	for rows.Next() {
		e, err := scanSyncEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}

	return entries, rows.Err()
}

// MarkSyncAttempt increments the attempt counter after a failed delivery
func MarkSyncAttempt(ctx context.Context, q DBTX, id string, deliveryErr string) error {
	result, err := q.ExecContext(ctx, `
		UPDATE sync_queue SET attempts = attempts + 1, last_error = ?, updated_at = ?
		WHERE id = ?
	`, deliveryErr, time.Now(), id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("sync entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteSyncEntry removes a queue entry after successful delivery
func DeleteSyncEntry(ctx context.Context, q DBTX, id string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id)
	return err
}
