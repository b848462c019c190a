package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	workspaceout "actograph/internal/modules/workspace/adapter/out"
	"actograph/internal/modules/workspace/domain"
	"actograph/internal/modules/workspace/dto"
	workspacein "actograph/internal/modules/workspace/port/in"
	portout "actograph/internal/modules/workspace/port/out"
	"actograph/internal/modules/workspace/service"
	"actograph/internal/modules/workspace/usecase"
	apperrors "actograph/internal/platform/errors"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type seqID struct {
	prefix string
	n      int
}

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

// failingStore delegates to a real store until armed, then fails every Put.
type failingStore struct {
	inner    portout.SessionStore
	failPuts bool
}

func (f *failingStore) Put(ctx context.Context, session domain.Session) error {
	if f.failPuts {
		return errors.New("disk full")
	}
	return f.inner.Put(ctx, session)
}

func (f *failingStore) Delete(ctx context.Context, sessionID string) error {
	return f.inner.Delete(ctx, sessionID)
}

func (f *failingStore) ListAll(ctx context.Context) ([]domain.Session, error) {
	return f.inner.ListAll(ctx)
}

func newWorkspace(t *testing.T, clk *fakeClock) (workspacein.Usecase, string) {
	t.Helper()
	dir := t.TempDir()
	svc := service.NewWorkspaceService(
		clk,
		&seqID{prefix: "id"},
		workspaceout.NewVaultSessionStore(dir),
		workspaceout.NewFileActivityCatalog(filepath.Join(dir, "activities.yaml")),
		workspaceout.NewFileStateStore(filepath.Join(dir, "state.json")),
		workspaceout.NewVaultNoteWriter(dir),
	)
	return usecase.NewInteractor(svc), dir
}

func at(minute int) time.Time {
	return time.Date(2026, 3, 12, 9, minute, 0, 0, time.UTC)
}

func TestCreateRequiresNameAndMakesSessionCurrent(t *testing.T) {
	t.Parallel()
	uc, _ := newWorkspace(t, &fakeClock{values: []time.Time{at(0)}})
	ctx := context.Background()

	if _, err := uc.Create(ctx, dto.CreateSessionInput{Name: "   "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}

	created, err := uc.Create(ctx, dto.CreateSessionInput{Name: "Line audit"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if !created.Current {
		t.Fatalf("new session must become current")
	}
	if created.Status != "draft" {
		t.Fatalf("expected draft status, got %s", created.Status)
	}

	current, err := uc.Current(ctx)
	if err != nil {
		t.Fatalf("get current: %v", err)
	}
	if current.ID != created.ID {
		t.Fatalf("expected current %s, got %s", created.ID, current.ID)
	}
}

func TestCurrentWithoutSessionsReportsNoActiveSession(t *testing.T) {
	t.Parallel()
	uc, _ := newWorkspace(t, &fakeClock{values: []time.Time{at(0)}})
	if _, err := uc.Current(context.Background()); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestLogEventClosesOpenEventAndOpensNext(t *testing.T) {
	t.Parallel()
	uc, _ := newWorkspace(t, &fakeClock{values: []time.Time{at(0), at(0), at(2), at(8)}})
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateSessionInput{Name: "Shift study"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	first, err := uc.LogEvent(ctx, dto.LogEventInput{ActivityID: "preparation"})
	if err != nil {
		t.Fatalf("log preparation: %v", err)
	}
	if first.Closed != nil {
		t.Fatalf("first log must close nothing, got %+v", first.Closed)
	}
	if first.Opened.ActivityName != "Preparation" {
		t.Fatalf("expected catalog name resolution, got %q", first.Opened.ActivityName)
	}

	closeAt := int64(120000)
	second, err := uc.LogEvent(ctx, dto.LogEventInput{ActivityID: "main-task", CloseDurationMS: &closeAt})
	if err != nil {
		t.Fatalf("log main task: %v", err)
	}
	if second.Closed == nil || second.Closed.ID != first.Opened.ID {
		t.Fatalf("expected %s to close, got %+v", first.Opened.ID, second.Closed)
	}
	if second.Closed.DurationMS == nil || *second.Closed.DurationMS != 120000 {
		t.Fatalf("expected supplied close duration, got %v", second.Closed.DurationMS)
	}

	stop, err := uc.CloseOpenEvent(ctx, dto.CloseEventInput{SessionID: created.ID, DurationMS: 380000})
	if err != nil {
		t.Fatalf("close open event: %v", err)
	}
	if stop.Closed == nil || *stop.Closed.DurationMS != 380000 {
		t.Fatalf("expected 380000ms close, got %+v", stop.Closed)
	}

	detail, err := uc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if detail.TotalDurationMS != 500000 {
		t.Fatalf("expected 500000ms total, got %d", detail.TotalDurationMS)
	}
	if detail.HasOpenEvent {
		t.Fatalf("no event should remain open")
	}

	again, err := uc.CloseOpenEvent(ctx, dto.CloseEventInput{SessionID: created.ID, DurationMS: 99})
	if err != nil {
		t.Fatalf("close with nothing open: %v", err)
	}
	if again.Closed != nil {
		t.Fatalf("closing with nothing open must be a no-op, got %+v", again.Closed)
	}
}

func TestLogEventRejectsUnknownActivityWithoutMutating(t *testing.T) {
	t.Parallel()
	uc, _ := newWorkspace(t, &fakeClock{values: []time.Time{at(0)}})
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateSessionInput{Name: "Shift study"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := uc.LogEvent(ctx, dto.LogEventInput{ActivityID: "no-such"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	detail, err := uc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if detail.EventCount != 0 {
		t.Fatalf("rejected log must not append events, got %d", detail.EventCount)
	}
}

func TestFailedPersistenceRollsBackTheMutation(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := &failingStore{inner: workspaceout.NewVaultSessionStore(dir)}
	svc := service.NewWorkspaceService(
		&fakeClock{values: []time.Time{at(0)}},
		&seqID{prefix: "id"},
		store,
		workspaceout.NewFileActivityCatalog(filepath.Join(dir, "activities.yaml")),
		workspaceout.NewFileStateStore(filepath.Join(dir, "state.json")),
		workspaceout.NewVaultNoteWriter(dir),
	)
	uc := usecase.NewInteractor(svc)
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateSessionInput{Name: "Shift study"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	store.failPuts = true
	if _, err := uc.SetNotes(ctx, dto.SetNotesInput{SessionID: created.ID, Notes: "lost"}); !errors.Is(err, apperrors.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if _, err := uc.LogEvent(ctx, dto.LogEventInput{ActivityID: "preparation"}); !errors.Is(err, apperrors.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	store.failPuts = false

	detail, err := uc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if detail.Notes != "" || detail.EventCount != 0 {
		t.Fatalf("failed writes must roll back, got notes=%q events=%d", detail.Notes, detail.EventCount)
	}
}

func TestDeleteRemovesSessionAndRejectsUnknownID(t *testing.T) {
	t.Parallel()
	uc, _ := newWorkspace(t, &fakeClock{values: []time.Time{at(0), at(1)}})
	ctx := context.Background()

	first, err := uc.Create(ctx, dto.CreateSessionInput{Name: "First"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := uc.Create(ctx, dto.CreateSessionInput{Name: "Second"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if err := uc.Delete(ctx, second.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if err := uc.Delete(ctx, second.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for repeat delete, got %v", err)
	}

	current, err := uc.Current(ctx)
	if err != nil {
		t.Fatalf("get current after delete: %v", err)
	}
	if current.ID != first.ID {
		t.Fatalf("selection must fall back to %s, got %s", first.ID, current.ID)
	}
}

func TestExportImportRoundTripRestampsOwnership(t *testing.T) {
	t.Parallel()
	uc, _ := newWorkspace(t, &fakeClock{values: []time.Time{at(0), at(0), at(2), at(10), at(11)}})
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateSessionInput{Name: "Assembly study"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := uc.LogEvent(ctx, dto.LogEventInput{ActivityID: "preparation"}); err != nil {
		t.Fatalf("log event: %v", err)
	}
	if _, err := uc.CloseOpenEvent(ctx, dto.CloseEventInput{DurationMS: 120000}); err != nil {
		t.Fatalf("close event: %v", err)
	}

	data, err := uc.Export(ctx, "")
	if err != nil {
		t.Fatalf("export current session: %v", err)
	}
	if !strings.Contains(string(data), `"version": "1.0"`) {
		t.Fatalf("export missing snapshot version: %s", data)
	}

	imported, err := uc.Import(ctx, data)
	if err != nil {
		t.Fatalf("import snapshot: %v", err)
	}
	if imported.ID == created.ID {
		t.Fatalf("import must mint a fresh session id")
	}
	if imported.Name != "Assembly study (imported)" {
		t.Fatalf("expected imported suffix, got %q", imported.Name)
	}

	detail, err := uc.Get(ctx, imported.ID)
	if err != nil {
		t.Fatalf("get imported: %v", err)
	}
	for _, event := range detail.Events {
		if event.SessionID != imported.ID {
			t.Fatalf("event %s still references %s", event.ID, event.SessionID)
		}
	}
	if detail.TotalDurationMS != 120000 {
		t.Fatalf("imported log lost durations, got %d", detail.TotalDurationMS)
	}
}

func TestImportRejectsMalformedSnapshots(t *testing.T) {
	t.Parallel()
	uc, _ := newWorkspace(t, &fakeClock{values: []time.Time{at(0)}})
	if _, err := uc.Import(context.Background(), []byte(`{"version":"3.0"}`)); !errors.Is(err, apperrors.ErrMalformedData) {
		t.Fatalf("expected ErrMalformedData, got %v", err)
	}
}

func TestWriteNoteRendersMarkdownForCurrentSession(t *testing.T) {
	t.Parallel()
	uc, _ := newWorkspace(t, &fakeClock{values: []time.Time{at(0), at(0), at(5)}})
	ctx := context.Background()

	if _, err := uc.Create(ctx, dto.CreateSessionInput{Name: "Kitting bench"}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := uc.LogEvent(ctx, dto.LogEventInput{ActivityID: "main-task"}); err != nil {
		t.Fatalf("log event: %v", err)
	}

	path, err := uc.WriteNote(ctx, "")
	if err != nil {
		t.Fatalf("write note: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	note := string(b)
	if !strings.Contains(note, "Kitting bench") {
		t.Fatalf("note missing session name: %s", note)
	}
	if !strings.Contains(note, "unfinished") {
		t.Fatalf("note must flag the open event: %s", note)
	}
}

func TestActivityCatalogSeedsDefaultsAndAcceptsAdditions(t *testing.T) {
	t.Parallel()
	uc, _ := newWorkspace(t, &fakeClock{values: []time.Time{at(0)}})
	ctx := context.Background()

	activities, err := uc.ListActivities(ctx)
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(activities) != 5 {
		t.Fatalf("expected 5 seeded activities, got %d", len(activities))
	}

	added, err := uc.AddActivity(ctx, dto.AddActivityInput{Name: "Quality Check", ColorTag: "blue"})
	if err != nil {
		t.Fatalf("add activity: %v", err)
	}
	if added.ID != "quality-check" {
		t.Fatalf("expected slugged id, got %q", added.ID)
	}

	if _, err := uc.AddActivity(ctx, dto.AddActivityInput{ID: "break", Name: "Another break", ColorTag: "red"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	activities, err = uc.ListActivities(ctx)
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(activities) != 6 {
		t.Fatalf("expected 6 activities after add, got %d", len(activities))
	}
}

func TestHydrationSurvivesRestart(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	build := func(clk *fakeClock) workspacein.Usecase {
		svc := service.NewWorkspaceService(
			clk,
			&seqID{prefix: "id"},
			workspaceout.NewVaultSessionStore(dir),
			workspaceout.NewFileActivityCatalog(filepath.Join(dir, "activities.yaml")),
			workspaceout.NewFileStateStore(filepath.Join(dir, "state.json")),
			workspaceout.NewVaultNoteWriter(dir),
		)
		return usecase.NewInteractor(svc)
	}
	ctx := context.Background()

	first := build(&fakeClock{values: []time.Time{at(0), at(1)}})
	createdA, err := first.Create(ctx, dto.CreateSessionInput{Name: "Alpha"})
	if err != nil {
		t.Fatalf("create alpha: %v", err)
	}
	if _, err := first.Create(ctx, dto.CreateSessionInput{Name: "Beta"}); err != nil {
		t.Fatalf("create beta: %v", err)
	}
	if _, err := first.Load(ctx, createdA.ID); err != nil {
		t.Fatalf("load alpha: %v", err)
	}

	second := build(&fakeClock{values: []time.Time{at(2)}})
	sessions, err := second.List(ctx)
	if err != nil {
		t.Fatalf("list after restart: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions after restart, got %d", len(sessions))
	}
	current, err := second.Current(ctx)
	if err != nil {
		t.Fatalf("current after restart: %v", err)
	}
	if current.ID != createdA.ID {
		t.Fatalf("selection must survive restart, expected %s got %s", createdA.ID, current.ID)
	}
}
