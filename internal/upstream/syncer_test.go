package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dealscout/internal/database"
)

func setupQueueDB(t *testing.T) (*database.DB, func()) {
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

	return db, cleanup
}

func enqueue(t *testing.T, db *database.DB, entityID string) {
	t.Helper()
	err := database.EnqueueSync(context.Background(), db, &database.SyncEntry{
		EntityID:   entityID,
		EntityType: database.EntityPerson,
		Action:     database.ActionLike,
	})
	if err != nil {
		t.Fatalf("EnqueueSync failed: %v", err)
	}
}

func TestClientSetEntityStatus(t *testing.T) {
	var got StatusRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/entities/status" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := New(srv.URL, "secret-token", 5*time.Second)
	err := client.SetEntityStatus(context.Background(), "founder-1", database.EntityPerson, database.ActionLike)
	if err != nil {
		t.Fatalf("SetEntityStatus failed: %v", err)
	}

	if got.EntityID != "founder-1" || got.EntityType != "person" || got.Status != "like" {
		t.Errorf("unexpected request body: %+v", got)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("expected bearer token header, got %q", gotAuth)
	}
}

func TestClientSetEntityStatusServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, "", 5*time.Second)
	err := client.SetEntityStatus(context.Background(), "founder-1", database.EntityPerson, database.ActionLike)
	if err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestClientHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
	}))
	defer srv.Close()

	client := New(srv.URL, "", 5*time.Second)
	if !client.IsRunning(context.Background()) {
		t.Error("expected IsRunning true")
	}
}

func TestDrainDeliversAndDequeues(t *testing.T) {
	db, cleanup := setupQueueDB(t)
	defer cleanup()
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	enqueue(t, db, "founder-1")
	enqueue(t, db, "founder-2")

	syncer := NewSyncer(db, New(srv.URL, "", 5*time.Second), 3)
	result, err := syncer.Drain(ctx)
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if result.Delivered != 2 || result.Failed != 0 {
		t.Errorf("expected 2 delivered, got %+v", result)
	}

	pending, _ := syncer.Pending(ctx)
	if len(pending) != 0 {
		t.Errorf("expected empty queue, got %d entries", len(pending))
	}
}

func TestDrainRecordsFailures(t *testing.T) {
	db, cleanup := setupQueueDB(t)
	defer cleanup()
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	enqueue(t, db, "founder-1")

	syncer := NewSyncer(db, New(srv.URL, "", 5*time.Second), 3)
	result, err := syncer.Drain(ctx)
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if result.Delivered != 0 || result.Failed != 1 {
		t.Errorf("expected 1 failure, got %+v", result)
	}

	pending, _ := syncer.Pending(ctx)
	if len(pending) != 1 {
		t.Fatalf("expected entry still pending, got %d", len(pending))
	}
	e := pending[0]
	if e.Attempts != 1 {
		t.Errorf("expected 1 attempt recorded, got %d", e.Attempts)
	}
	if e.LastError == nil {
		t.Error("expected last_error recorded")
	}
}

func TestDrainParksAtAttemptCap(t *testing.T) {
	db, cleanup := setupQueueDB(t)
	defer cleanup()
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	enqueue(t, db, "founder-1")

	syncer := NewSyncer(db, New(srv.URL, "", 5*time.Second), 2)
	for i := 0; i < 2; i++ {
		if _, err := syncer.Drain(ctx); err != nil {
			t.Fatalf("Drain failed: %v", err)
		}
	}

	// Entry hit the cap: out of the pending view, still in the table
	pending, _ := syncer.Pending(ctx)
	if len(pending) != 0 {
		t.Errorf("expected no pending entries, got %d", len(pending))
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM sync_queue").Scan(&count)
	if count != 1 {
		t.Errorf("expected parked entry to remain, got %d rows", count)
	}

	// Further drains deliver nothing
	result, _ := syncer.Drain(ctx)
	if result.Delivered != 0 || result.Failed != 0 {
		t.Errorf("expected no-op drain, got %+v", result)
	}
}

func TestDrainContinuesPastFailures(t *testing.T) {
	db, cleanup := setupQueueDB(t)
	defer cleanup()
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req StatusRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.EntityID == "bad" {
			http.Error(w, "rejected", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	enqueue(t, db, "bad")
	enqueue(t, db, "good")

	syncer := NewSyncer(db, New(srv.URL, "", 5*time.Second), 3)
	result, err := syncer.Drain(ctx)
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if result.Delivered != 1 || result.Failed != 1 {
		t.Errorf("expected 1 delivered and 1 failed, got %+v", result)
	}
}
