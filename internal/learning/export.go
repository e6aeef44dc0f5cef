package learning

import (
	"context"
	"fmt"
	"time"

	"dealscout/internal/database"
)

// PreferencePair is one exported judgment
type PreferencePair struct {
	EntityID   string          `json:"entity_id"`
	Action     database.Action `json:"action"`
	Attributes []string        `json:"attributes"`
	AIScore    *int            `json:"ai_score,omitempty"`
	UserAgreed bool            `json:"user_agreed"`
}

// WeightExport is one exported learned weight
type WeightExport struct {
	Attribute    string  `json:"attribute"`
	Weight       float64 `json:"weight"`
	LikeCount    int     `json:"like_count"`
	DislikeCount int     `json:"dislike_count"`
}

// Snapshot is a persona's full preference state, suitable for training
// data or for moving taste between machines
type Snapshot struct {
	PersonaID       string           `json:"persona_id"`
	PersonaName     string           `json:"persona_name"`
	ExportedAt      time.Time        `json:"exported_at"`
	FeedbackCount   int              `json:"feedback_count"`
	WeightsCount    int              `json:"weights_count"`
	PreferencePairs []PreferencePair `json:"preference_pairs"`
	LearnedWeights  []WeightExport   `json:"learned_weights"`
}

// Export builds a snapshot of a persona's feedback and learned weights.
// Read-only; the live store is untouched.
func (s *Store) Export(ctx context.Context, personaID string) (*Snapshot, error) {
	p, err := s.db.GetPersona(ctx, personaID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("persona %s: %w", personaID, database.ErrNotFound)
	}

	feedback, err := database.ListFeedback(ctx, s.db, personaID)
	if err != nil {
		return nil, err
	}
	weights, err := database.ListLearnedWeights(ctx, s.db, personaID)
	if err != nil {
		return nil, err
	}

	pairs := make([]PreferencePair, 0, len(feedback))
	for _, f := range feedback {
		pair := PreferencePair{
			EntityID:   f.EntityID,
			Action:     f.Action,
			Attributes: f.Attributes,
			AIScore:    f.AIScore,
		}
		if f.UserAgreed != nil {
			pair.UserAgreed = *f.UserAgreed
		}
		pairs = append(pairs, pair)
	}

	exported := make([]WeightExport, 0, len(weights))
	for _, w := range weights {
		exported = append(exported, WeightExport{
			Attribute:    w.Attribute,
			Weight:       w.Weight,
			LikeCount:    w.LikeCount,
			DislikeCount: w.DislikeCount,
		})
	}

	return &Snapshot{
		PersonaID:       p.ID,
		PersonaName:     p.Name,
		ExportedAt:      time.Now().UTC(),
		FeedbackCount:   len(pairs),
		WeightsCount:    len(exported),
		PreferencePairs: pairs,
		LearnedWeights:  exported,
	}, nil
}
