package upstream

import (
	"context"
	"fmt"

	"dealscout/internal/database"
)

// DefaultMaxAttempts is how many delivery tries an entry gets before it
// leaves the pending view
const DefaultMaxAttempts = 3

// StatusWriter is the delivery side of the syncer; Client implements it
type StatusWriter interface {
	SetEntityStatus(ctx context.Context, entityID string, entityType database.EntityType, action database.Action) error
}

// Syncer drains the sync queue against the upstream proxy
type Syncer struct {
	db          *database.DB
	client      StatusWriter
	maxAttempts int
}

// DrainResult summarizes one drain run
type DrainResult struct {
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

// NewSyncer creates a queue drainer. maxAttempts <= 0 falls back to
// DefaultMaxAttempts.
func NewSyncer(db *database.DB, client StatusWriter, maxAttempts int) *Syncer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Syncer{db: db, client: client, maxAttempts: maxAttempts}
}

// Pending returns the entries still awaiting delivery
func (s *Syncer) Pending(ctx context.Context) ([]database.SyncEntry, error) {
	return database.ListPendingSync(ctx, s.db, s.maxAttempts)
}

// Drain walks the pending queue in order, delivering each entry.
// Successful entries are deleted; failures get their attempt counter
// bumped and the error recorded, then draining continues with the next
// entry. Entries that reach the attempt cap stay in the table for
// inspection but no longer show up as pending.
func (s *Syncer) Drain(ctx context.Context) (*DrainResult, error) {
	pending, err := database.ListPendingSync(ctx, s.db, s.maxAttempts)
	if err != nil {
		return nil, err
	}

	result := &DrainResult{}
	for _, entry := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := s.client.SetEntityStatus(ctx, entry.EntityID, entry.EntityType, entry.Action); err != nil {
			result.Failed++
			if markErr := database.MarkSyncAttempt(ctx, s.db, entry.ID, err.Error()); markErr != nil {
				return result, fmt.Errorf("failed to record sync attempt: %w", markErr)
			}
			continue
		}

		if err := database.DeleteSyncEntry(ctx, s.db, entry.ID); err != nil {
			return result, fmt.Errorf("failed to dequeue sync entry: %w", err)
		}
		result.Delivered++
	}

	return result, nil
}
