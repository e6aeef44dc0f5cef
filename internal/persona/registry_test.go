package persona

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dealscout/internal/database"
)

func setupRegistry(t *testing.T) (*Registry, func()) {
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

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return NewRegistry(db), cleanup
}

func TestCreateAndGet(t *testing.T) {
	reg, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	id, err := reg.Create(ctx, "Fintech Focus", "payments over everything",
		Criteria{
			PositiveHighlights: []string{"payments", "licensed"},
			RedFlags:           []string{"unlicensed_lending"},
			BaseWeights:        map[string]float64{"payments": 0.8},
		},
		BulkSettings{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	p, err := reg.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.Name != "Fintech Focus" {
		t.Errorf("expected Name='Fintech Focus', got %s", p.Name)
	}
	if p.IsActive {
		t.Error("expected new persona to be inactive")
	}

	// Defaults applied by validation
	if p.MaxPerRun != DefaultMaxPerRun {
		t.Errorf("expected MaxPerRun=%d, got %d", DefaultMaxPerRun, p.MaxPerRun)
	}
	if p.DefaultBulkAction != database.ActionLike {
		t.Errorf("expected default bulk action like, got %s", p.DefaultBulkAction)
	}
}

func TestCreateValidation(t *testing.T) {
	reg, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	_, err := reg.Create(ctx, "", "", Criteria{}, BulkSettings{})
	if !errors.Is(err, database.ErrValidation) {
		t.Errorf("expected ErrValidation for empty name, got %v", err)
	}

	_, err = reg.Create(ctx, "X", "", Criteria{}, BulkSettings{ConfidenceThreshold: 1.5})
	if !errors.Is(err, database.ErrValidation) {
		t.Errorf("expected ErrValidation for threshold > 1, got %v", err)
	}

	_, err = reg.Create(ctx, "X", "", Criteria{}, BulkSettings{DefaultAction: "maybe"})
	if !errors.Is(err, database.ErrValidation) {
		t.Errorf("expected ErrValidation for bad action, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	reg, cleanup := setupRegistry(t)
	defer cleanup()

	_, err := reg.Get(context.Background(), "no-such-id")
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	reg, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	id, _ := reg.Create(ctx, "Original", "desc",
		Criteria{PositiveHighlights: []string{"phd"}}, BulkSettings{})

	newName := "Renamed"
	newFlags := []string{"vaporware"}
	err := reg.Update(ctx, id, Update{
		Name:     &newName,
		RedFlags: &newFlags,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	p, _ := reg.Get(ctx, id)
	if p.Name != "Renamed" {
		t.Errorf("expected Name=Renamed, got %s", p.Name)
	}
	if len(p.RedFlags) != 1 || p.RedFlags[0] != "vaporware" {
		t.Errorf("expected red flags updated, got %v", p.RedFlags)
	}
	// Untouched fields survive
	if p.Description != "desc" {
		t.Errorf("expected description unchanged, got %s", p.Description)
	}
	if len(p.PositiveHighlights) != 1 {
		t.Errorf("expected positive highlights unchanged, got %v", p.PositiveHighlights)
	}
}

func TestUpdateEmptyNameRejected(t *testing.T) {
	reg, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	id, _ := reg.Create(ctx, "Original", "", Criteria{}, BulkSettings{})

	empty := ""
	err := reg.Update(ctx, id, Update{Name: &empty})
	if !errors.Is(err, database.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestActivationSingleActive(t *testing.T) {
	reg, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	a, _ := reg.Create(ctx, "A", "", Criteria{}, BulkSettings{})
	b, _ := reg.Create(ctx, "B", "", Criteria{}, BulkSettings{})

	if err := reg.SetActive(ctx, a); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if err := reg.SetActive(ctx, b); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}

	personas, _ := reg.List(ctx)
	activeCount := 0
	for _, p := range personas {
		if p.IsActive {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Errorf("expected exactly 1 active persona, got %d", activeCount)
	}

	active, _ := reg.GetActive(ctx)
	if active == nil || active.ID != b {
		t.Error("expected B to be active")
	}
}

func TestDeleteActiveLeavesNoneActive(t *testing.T) {
	reg, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	id, _ := reg.Create(ctx, "A", "", Criteria{}, BulkSettings{})
	reg.SetActive(ctx, id)

	if err := reg.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	active, err := reg.GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if active != nil {
		t.Error("expected no active persona after deleting the active one")
	}
}

func TestInitializeDefaults(t *testing.T) {
	reg, cleanup := setupRegistry(t)
	defer cleanup()
	ctx := context.Background()

	created, err := reg.InitializeDefaults(ctx)
	if err != nil {
		t.Fatalf("InitializeDefaults failed: %v", err)
	}
	if created != 4 {
		t.Errorf("expected 4 starter personas, got %d", created)
	}

	personas, _ := reg.List(ctx)
	if len(personas) != 4 {
		t.Fatalf("expected 4 personas, got %d", len(personas))
	}
	for _, p := range personas {
		if p.IsActive {
			t.Errorf("starter persona %s should be inactive", p.Name)
		}
	}

	// No duplicate guard: a second run appends the catalog again
	created, err = reg.InitializeDefaults(ctx)
	if err != nil {
		t.Fatalf("second InitializeDefaults failed: %v", err)
	}
	if created != 4 {
		t.Errorf("expected 4 more personas, got %d", created)
	}
	personas, _ = reg.List(ctx)
	if len(personas) != 8 {
		t.Errorf("expected 8 personas after second run, got %d", len(personas))
	}
}
