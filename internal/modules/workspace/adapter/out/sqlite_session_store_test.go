package out_test

import (
	"context"
	"path/filepath"
	"testing"

	out "actograph/internal/modules/workspace/adapter/out"
	"actograph/internal/modules/workspace/domain"
)

func intPtr(v int64) *int64 { return &v }

func openStore(t *testing.T) *out.SQLiteSessionStore {
	t.Helper()
	store, err := out.NewSQLiteSessionStore(filepath.Join(t.TempDir(), "actograph.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func storedSession() domain.Session {
	return domain.Session{
		ID:        "sess-1",
		Name:      "Assembly study",
		CreatedAt: 1000,
		UpdatedAt: 2000,
		Status:    domain.StatusActive,
		Notes:     "first pass",
		VideoRef:  "video/shift-a.mp4",
		Events: []domain.ActivityEvent{
			{ID: "evt-1", SessionID: "sess-1", ActivityID: "preparation", ActivityName: "Preparation", Timestamp: 1000, Duration: intPtr(120000)},
			{ID: "evt-2", SessionID: "sess-1", ActivityID: "main-task", ActivityName: "Main task", Timestamp: 121000},
		},
	}
}

func TestPutListRoundTrip(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, storedSession()); err != nil {
		t.Fatalf("put: %v", err)
	}

	sessions, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions))
	}
	got := sessions[0]
	if got.Name != "Assembly study" || got.Status != domain.StatusActive || got.VideoRef != "video/shift-a.mp4" {
		t.Fatalf("session fields lost: %+v", got)
	}
	if len(got.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got.Events))
	}
	if got.Events[0].Duration == nil || *got.Events[0].Duration != 120000 {
		t.Fatalf("closed event lost its duration: %+v", got.Events[0])
	}
	if got.Events[1].Duration != nil {
		t.Fatalf("open event must round-trip with nil duration: %+v", got.Events[1])
	}
}

func TestPutReplacesTheEventLog(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()

	session := storedSession()
	if err := store.Put(ctx, session); err != nil {
		t.Fatalf("first put: %v", err)
	}

	session.Events[1].Duration = intPtr(380000)
	session.UpdatedAt = 3000
	if err := store.Put(ctx, session); err != nil {
		t.Fatalf("second put: %v", err)
	}

	sessions, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 || len(sessions[0].Events) != 2 {
		t.Fatalf("rewrite must not duplicate events: %+v", sessions)
	}
	if sessions[0].Events[1].Duration == nil || *sessions[0].Events[1].Duration != 380000 {
		t.Fatalf("updated event not persisted: %+v", sessions[0].Events[1])
	}
}

func TestPutKeepsTheNewerRowOnConflict(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()

	newer := storedSession()
	newer.Name = "Newer"
	newer.UpdatedAt = 5000
	if err := store.Put(ctx, newer); err != nil {
		t.Fatalf("put newer: %v", err)
	}

	stale := storedSession()
	stale.Name = "Stale"
	stale.UpdatedAt = 2000
	if err := store.Put(ctx, stale); err != nil {
		t.Fatalf("put stale: %v", err)
	}

	sessions, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if sessions[0].Name != "Newer" {
		t.Fatalf("stale write must not clobber newer row, got %q", sessions[0].Name)
	}
}

func TestDeleteRemovesSessionAndEvents(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, storedSession()); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("repeat delete must be quiet: %v", err)
	}

	sessions, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("expected empty store, got %d sessions", len(sessions))
	}
}

func TestListAllOrdersByCreation(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	ctx := context.Background()

	second := storedSession()
	second.ID = "sess-2"
	second.CreatedAt = 9000
	second.UpdatedAt = 9000
	second.Events = nil
	if err := store.Put(ctx, second); err != nil {
		t.Fatalf("put second: %v", err)
	}
	if err := store.Put(ctx, storedSession()); err != nil {
		t.Fatalf("put first: %v", err)
	}

	sessions, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 || sessions[0].ID != "sess-1" || sessions[1].ID != "sess-2" {
		t.Fatalf("expected creation order, got %+v", sessions)
	}
}
