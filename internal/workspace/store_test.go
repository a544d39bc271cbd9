package workspace

import (
	"context"
	"errors"
	"testing"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.Default()
	cfg.StateDir = t.TempDir()
	store, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, found, err := store.LookupSession(ctx, "acme"); err != nil || found {
		t.Fatalf("expected no session, found=%v err=%v", found, err)
	}

	session := Session{TenantID: "acme", Email: "owner@acme.example", Role: "admin", Token: "tok-1"}
	if err := store.SaveSession(ctx, session); err != nil {
		t.Fatalf("SaveSession returned error: %v", err)
	}

	got, found, err := store.LookupSession(ctx, "acme")
	if err != nil || !found {
		t.Fatalf("expected session, found=%v err=%v", found, err)
	}
	if got != session {
		t.Fatalf("expected %+v, got %+v", session, got)
	}

	session.Token = "tok-2"
	if err := store.SaveSession(ctx, session); err != nil {
		t.Fatalf("SaveSession returned error: %v", err)
	}
	got, _, _ = store.LookupSession(ctx, "acme")
	if got.Token != "tok-2" {
		t.Fatalf("expected replaced token, got %q", got.Token)
	}
}

func TestSessionsAreScopedByTenant(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSession(ctx, Session{TenantID: "acme", Email: "a@acme", Role: "user", Token: "t"}); err != nil {
		t.Fatalf("SaveSession returned error: %v", err)
	}
	if _, found, err := store.LookupSession(ctx, "globex"); err != nil || found {
		t.Fatalf("a session for acme must not be visible to globex, found=%v err=%v", found, err)
	}
}

func TestDeleteSessionClearsJobState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.SaveSession(ctx, Session{TenantID: "acme", Email: "a@acme", Role: "user", Token: "t"})
	store.RecordJob(ctx, "acme", "j1")
	store.RecordAssets(ctx, "acme", "j1", []string{"a1", "a2"})

	if err := store.DeleteSession(ctx, "acme"); err != nil {
		t.Fatalf("DeleteSession returned error: %v", err)
	}

	if _, found, _ := store.LookupSession(ctx, "acme"); found {
		t.Fatal("session must be gone")
	}
	if _, found, _ := store.ActiveJob(ctx, "acme"); found {
		t.Fatal("job must be gone with the session")
	}
	assets, err := store.AssetsForJob(ctx, "acme", "j1")
	if err != nil || len(assets) != 0 {
		t.Fatalf("assets must be gone with the session, got %v err=%v", assets, err)
	}
}

func TestRecordJobReplacesAndClearsAssets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.RecordJob(ctx, "acme", "j1"); err != nil {
		t.Fatalf("RecordJob returned error: %v", err)
	}
	if err := store.RecordAssets(ctx, "acme", "j1", []string{"a1", "a2", "a3", "a4"}); err != nil {
		t.Fatalf("RecordAssets returned error: %v", err)
	}

	if err := store.RecordJob(ctx, "acme", "j2"); err != nil {
		t.Fatalf("RecordJob returned error: %v", err)
	}

	jobID, found, err := store.ActiveJob(ctx, "acme")
	if err != nil || !found || jobID != "j2" {
		t.Fatalf("expected j2, got %q found=%v err=%v", jobID, found, err)
	}
	assets, err := store.AssetsForJob(ctx, "acme", "j1")
	if err != nil || len(assets) != 0 {
		t.Fatalf("assets of a superseded job must be cleared, got %v err=%v", assets, err)
	}
}

func TestAssetsKeepOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.RecordJob(ctx, "acme", "j1")
	want := []string{"a4", "a2", "a3", "a1"}
	if err := store.RecordAssets(ctx, "acme", "j1", want); err != nil {
		t.Fatalf("RecordAssets returned error: %v", err)
	}

	got, err := store.AssetsForJob(ctx, "acme", "j1")
	if err != nil {
		t.Fatalf("AssetsForJob returned error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d assets, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestSecondOpenIsLockedOut(t *testing.T) {
	cfg := config.Default()
	cfg.StateDir = t.TempDir()

	first, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer first.Close()

	if _, err := Open(&cfg); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}
