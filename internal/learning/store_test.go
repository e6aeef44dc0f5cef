package learning

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"dealscout/internal/database"
)

func setupStore(t *testing.T) (*Store, *database.DB, string, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "dealscout-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	db, err := database.Open(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open database: %v", err)
	}

	p := &database.Persona{Name: "Test", DefaultBulkAction: database.ActionLike}
	if err := db.CreatePersona(context.Background(), p); err != nil {
		db.Close()
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to create persona: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return NewStore(db), db, p.ID, cleanup
}

func TestRecordFeedbackCreatesWeights(t *testing.T) {
	store, _, personaID, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	updated, err := store.RecordFeedback(ctx, personaID, "founder-1",
		database.EntityPerson, database.ActionLike,
		[]string{"serial_founder", "yc_alumni"}, FeedbackOptions{})
	if err != nil {
		t.Fatalf("RecordFeedback failed: %v", err)
	}
	if updated != 2 {
		t.Errorf("expected 2 weight updates, got %d", updated)
	}

	w, ok, err := store.Weight(ctx, personaID, "serial_founder")
	if err != nil {
		t.Fatalf("Weight failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a learned weight")
	}
	if w != 1.0 {
		t.Errorf("expected weight 1.0 after one like, got %f", w)
	}
}

func TestWeightFormulaInvariant(t *testing.T) {
	store, db, personaID, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	// Several entities share an attribute with mixed judgments
	judgments := []struct {
		entity string
		action database.Action
	}{
		{"e1", database.ActionLike},
		{"e2", database.ActionLike},
		{"e3", database.ActionDislike},
		{"e4", database.ActionLike},
	}
	for _, j := range judgments {
		_, err := store.RecordFeedback(ctx, personaID, j.entity,
			database.EntityPerson, j.action, []string{"arr_growth"}, FeedbackOptions{})
		if err != nil {
			t.Fatalf("RecordFeedback failed: %v", err)
		}
	}

	w, err := database.GetLearnedWeight(ctx, db, personaID, "arr_growth")
	if err != nil {
		t.Fatalf("GetLearnedWeight failed: %v", err)
	}
	if w == nil {
		t.Fatal("expected weight entry")
	}
	if w.LikeCount != 3 || w.DislikeCount != 1 {
		t.Errorf("expected counts 3/1, got %d/%d", w.LikeCount, w.DislikeCount)
	}

	want := float64(w.LikeCount-w.DislikeCount) / float64(w.LikeCount+w.DislikeCount)
	if math.Abs(w.Weight-want) > 1e-9 {
		t.Errorf("weight invariant broken: got %f, want %f", w.Weight, want)
	}
	if w.Weight < -1 || w.Weight > 1 {
		t.Errorf("weight out of range: %f", w.Weight)
	}
}

func TestRecordFeedbackOverwriteReverts(t *testing.T) {
	store, db, personaID, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.RecordFeedback(ctx, personaID, "founder-1",
		database.EntityPerson, database.ActionLike,
		[]string{"serial_founder"}, FeedbackOptions{})
	if err != nil {
		t.Fatalf("RecordFeedback failed: %v", err)
	}

	// Changed mind: same entity, opposite action, different attributes
	_, err = store.RecordFeedback(ctx, personaID, "founder-1",
		database.EntityPerson, database.ActionDislike,
		[]string{"high_burn"}, FeedbackOptions{})
	if err != nil {
		t.Fatalf("RecordFeedback (overwrite) failed: %v", err)
	}

	// The original attribute's counters were reverted to zero, so the
	// entry is gone entirely
	if _, ok, _ := store.Weight(ctx, personaID, "serial_founder"); ok {
		t.Error("expected serial_founder weight to be removed after revert")
	}

	w, _ := database.GetLearnedWeight(ctx, db, personaID, "high_burn")
	if w == nil {
		t.Fatal("expected high_burn weight entry")
	}
	if w.LikeCount != 0 || w.DislikeCount != 1 {
		t.Errorf("expected counts 0/1, got %d/%d", w.LikeCount, w.DislikeCount)
	}

	// Exactly one feedback row, reflecting the latest judgment
	entries, _ := database.ListFeedback(ctx, db, personaID)
	if len(entries) != 1 {
		t.Fatalf("expected 1 feedback row, got %d", len(entries))
	}
	if entries[0].Action != database.ActionDislike {
		t.Errorf("expected latest action dislike, got %s", entries[0].Action)
	}
}

func TestRecordFeedbackNoDoubleCount(t *testing.T) {
	store, db, personaID, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	// Same judgment submitted twice must not inflate counters
	for i := 0; i < 2; i++ {
		_, err := store.RecordFeedback(ctx, personaID, "founder-1",
			database.EntityPerson, database.ActionLike,
			[]string{"serial_founder"}, FeedbackOptions{})
		if err != nil {
			t.Fatalf("RecordFeedback failed: %v", err)
		}
	}

	w, _ := database.GetLearnedWeight(ctx, db, personaID, "serial_founder")
	if w == nil {
		t.Fatal("expected weight entry")
	}
	if w.LikeCount != 1 || w.DislikeCount != 0 {
		t.Errorf("expected counts 1/0, got %d/%d", w.LikeCount, w.DislikeCount)
	}
}

func TestRecordFeedbackDuplicateAttributes(t *testing.T) {
	store, db, personaID, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	// Each occurrence counts independently
	updated, err := store.RecordFeedback(ctx, personaID, "founder-1",
		database.EntityPerson, database.ActionLike,
		[]string{"yc_alumni", "YC Alumni"}, FeedbackOptions{})
	if err != nil {
		t.Fatalf("RecordFeedback failed: %v", err)
	}
	if updated != 2 {
		t.Errorf("expected 2 updates, got %d", updated)
	}

	w, _ := database.GetLearnedWeight(ctx, db, personaID, "yc_alumni")
	if w == nil {
		t.Fatal("expected weight entry")
	}
	if w.LikeCount != 2 {
		t.Errorf("expected like count 2, got %d", w.LikeCount)
	}
}

func TestRecordFeedbackEnqueuesSync(t *testing.T) {
	store, db, personaID, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.RecordFeedback(ctx, personaID, "co-1",
		database.EntityCompany, database.ActionDislike,
		[]string{"churn_spike"}, FeedbackOptions{})
	if err != nil {
		t.Fatalf("RecordFeedback failed: %v", err)
	}

	pending, err := database.ListPendingSync(ctx, db, 3)
	if err != nil {
		t.Fatalf("ListPendingSync failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending sync entry, got %d", len(pending))
	}
	e := pending[0]
	if e.EntityID != "co-1" || e.EntityType != database.EntityCompany || e.Action != database.ActionDislike {
		t.Errorf("unexpected sync entry: %+v", e)
	}
}

func TestRecordFeedbackValidation(t *testing.T) {
	store, _, personaID, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.RecordFeedback(ctx, personaID, "",
		database.EntityPerson, database.ActionLike, nil, FeedbackOptions{})
	if !errors.Is(err, database.ErrValidation) {
		t.Errorf("expected ErrValidation for empty entity, got %v", err)
	}

	_, err = store.RecordFeedback(ctx, personaID, "e1",
		database.EntityPerson, "maybe", nil, FeedbackOptions{})
	if !errors.Is(err, database.ErrValidation) {
		t.Errorf("expected ErrValidation for bad action, got %v", err)
	}

	_, err = store.RecordFeedback(ctx, "no-such-persona", "e1",
		database.EntityPerson, database.ActionLike, nil, FeedbackOptions{})
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing persona, got %v", err)
	}
}

func TestExportSnapshot(t *testing.T) {
	store, _, personaID, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	aiScore := 72
	agreed := true
	_, err := store.RecordFeedback(ctx, personaID, "founder-1",
		database.EntityPerson, database.ActionLike,
		[]string{"serial_founder", "prior_exit"},
		FeedbackOptions{AIScore: &aiScore, UserAgreed: &agreed})
	if err != nil {
		t.Fatalf("RecordFeedback failed: %v", err)
	}
	_, err = store.RecordFeedback(ctx, personaID, "founder-2",
		database.EntityPerson, database.ActionDislike,
		[]string{"high_burn"}, FeedbackOptions{})
	if err != nil {
		t.Fatalf("RecordFeedback failed: %v", err)
	}

	snapshot, err := store.Export(ctx, personaID)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if snapshot.PersonaID != personaID {
		t.Errorf("expected persona id %s, got %s", personaID, snapshot.PersonaID)
	}
	if snapshot.PersonaName != "Test" {
		t.Errorf("expected persona name Test, got %s", snapshot.PersonaName)
	}
	if snapshot.FeedbackCount != 2 || len(snapshot.PreferencePairs) != 2 {
		t.Errorf("expected 2 preference pairs, got %d", len(snapshot.PreferencePairs))
	}
	if snapshot.WeightsCount != 3 || len(snapshot.LearnedWeights) != 3 {
		t.Errorf("expected 3 learned weights, got %d", len(snapshot.LearnedWeights))
	}
	if snapshot.ExportedAt.IsZero() {
		t.Error("expected ExportedAt to be set")
	}

	first := snapshot.PreferencePairs[0]
	if first.EntityID != "founder-1" || first.Action != database.ActionLike {
		t.Errorf("unexpected first pair: %+v", first)
	}
	if first.AIScore == nil || *first.AIScore != 72 {
		t.Error("expected ai_score 72 on first pair")
	}
	if !first.UserAgreed {
		t.Error("expected user_agreed true on first pair")
	}

	second := snapshot.PreferencePairs[1]
	if second.AIScore != nil {
		t.Error("expected no ai_score on second pair")
	}
	if second.UserAgreed {
		t.Error("expected user_agreed false on second pair")
	}
}

func TestExportMissingPersona(t *testing.T) {
	store, _, _, cleanup := setupStore(t)
	defer cleanup()

	_, err := store.Export(context.Background(), "no-such-persona")
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
