// Package learning maintains feedback records and the per-attribute
// weights derived from them.
package learning

import (
	"context"
	"database/sql"
	"fmt"

	"dealscout/internal/attr"
	"dealscout/internal/database"
)

// FeedbackOptions carries the optional AI-assistance fields of a judgment
type FeedbackOptions struct {
	AIScore    *int
	UserAgreed *bool
}

// Store is the weight store service over the database
type Store struct {
	db *database.DB
}

// NewStore creates a weight store
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// RecordFeedback upserts the judgment for (persona, entity), updates the
// learned weight of every attribute mentioned, and enqueues a sync-queue
// entry, all in one transaction. When a prior judgment exists for the
// same entity its counter increments are reverted first, so a changed
// mind never double-counts. Returns the number of attribute updates
// applied for the new judgment.
func (s *Store) RecordFeedback(ctx context.Context, personaID, entityID string, entityType database.EntityType, action database.Action, attributes []string, opts FeedbackOptions) (int, error) {
	if entityID == "" {
		return 0, fmt.Errorf("entity id is required: %w", database.ErrValidation)
	}
	if action != database.ActionLike && action != database.ActionDislike {
		return 0, fmt.Errorf("action must be like or dislike: %w", database.ErrValidation)
	}
	if entityType != database.EntityPerson && entityType != database.EntityCompany {
		return 0, fmt.Errorf("entity type must be person or company: %w", database.ErrValidation)
	}

	p, err := s.db.GetPersona(ctx, personaID)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, fmt.Errorf("persona %s: %w", personaID, database.ErrNotFound)
	}

	updated := 0
	err = s.db.Transaction(ctx, func(tx *sql.Tx) error {
		prior, err := database.GetFeedbackEntry(ctx, tx, personaID, entityID)
		if err != nil {
			return err
		}

		if prior != nil {
			for _, a := range attr.NormalizeAll(prior.Attributes) {
				if err := applyDelta(ctx, tx, personaID, a, prior.Action, -1); err != nil {
					return err
				}
			}
		}

		f := &database.Feedback{
			PersonaID:  personaID,
			EntityID:   entityID,
			EntityType: entityType,
			Action:     action,
			Attributes: attributes,
			AIScore:    opts.AIScore,
			UserAgreed: opts.UserAgreed,
		}
		if prior != nil {
			f.ID = prior.ID
			f.CreatedAt = prior.CreatedAt
		}
		if err := database.UpsertFeedback(ctx, tx, f); err != nil {
			return err
		}

		// Duplicate attributes in one judgment each count independently
		for _, a := range attr.NormalizeAll(attributes) {
			if err := applyDelta(ctx, tx, personaID, a, action, 1); err != nil {
				return err
			}
			updated++
		}

		return database.EnqueueSync(ctx, tx, &database.SyncEntry{
			EntityID:   entityID,
			EntityType: entityType,
			Action:     action,
		})
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// applyDelta adjusts one action counter for (persona, attribute) and
// recomputes weight = (likes - dislikes) / (likes + dislikes). An entry
// whose counters return to zero is deleted, restoring "no override".
func applyDelta(ctx context.Context, q database.DBTX, personaID, attribute string, action database.Action, delta int) error {
	w, err := database.GetLearnedWeight(ctx, q, personaID, attribute)
	if err != nil {
		return err
	}
	if w == nil {
		if delta < 0 {
			// Nothing to revert
			return nil
		}
		w = &database.LearnedWeight{PersonaID: personaID, Attribute: attribute}
	}

	if action == database.ActionLike {
		w.LikeCount += delta
	} else {
		w.DislikeCount += delta
	}
	if w.LikeCount < 0 {
		w.LikeCount = 0
	}
	if w.DislikeCount < 0 {
		w.DislikeCount = 0
	}

	total := w.LikeCount + w.DislikeCount
	if total == 0 {
		return database.DeleteLearnedWeight(ctx, q, personaID, attribute)
	}

	w.Weight = float64(w.LikeCount-w.DislikeCount) / float64(total)
	return database.PutLearnedWeight(ctx, q, w)
}

// Weight returns the learned weight override for (persona, attribute),
// if any. Implements scoring.WeightSource.
func (s *Store) Weight(ctx context.Context, personaID, attribute string) (float64, bool, error) {
	w, err := database.GetLearnedWeight(ctx, s.db, personaID, attr.Normalize(attribute))
	if err != nil {
		return 0, false, err
	}
	if w == nil {
		return 0, false, nil
	}
	return w.Weight, true, nil
}

// TopWeights returns the strongest learned weights for a persona,
// sorted by absolute value
func (s *Store) TopWeights(ctx context.Context, personaID string, limit int) ([]database.LearnedWeight, error) {
	return database.TopWeights(ctx, s.db, personaID, limit)
}

// Stats returns aggregate feedback counts for a persona
func (s *Store) Stats(ctx context.Context, personaID string) (*database.FeedbackStats, error) {
	return database.GetFeedbackStats(ctx, s.db, personaID)
}
