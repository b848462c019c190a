package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"actograph/internal/modules/workspace/domain"
	workspaceout "actograph/internal/modules/workspace/port/out"
	"actograph/internal/platform/clock"
	apperrors "actograph/internal/platform/errors"
	"actograph/internal/platform/id"
)

// WorkspaceService owns the workspace state and keeps it consistent with the
// session store: an in-memory mutation and its persistence dispatch form one
// logical step, so a failed write rolls the mutation back.
type WorkspaceService struct {
	clock   clock.Clock
	idGen   id.Generator
	store   workspaceout.SessionStore
	catalog workspaceout.ActivityCatalog
	state   workspaceout.StateStore
	notes   workspaceout.NoteWriter

	ws         *domain.Workspace
	activities []domain.Activity
	hydrated   bool
}

func NewWorkspaceService(clk clock.Clock, idGen id.Generator, store workspaceout.SessionStore, catalog workspaceout.ActivityCatalog, state workspaceout.StateStore, notes workspaceout.NoteWriter) *WorkspaceService {
	return &WorkspaceService{
		clock:   clk,
		idGen:   idGen,
		store:   store,
		catalog: catalog,
		state:   state,
		notes:   notes,
		ws:      domain.NewWorkspace(),
	}
}

// Hydrate loads sessions, the activity catalog and the current-session
// selection. A stale selection referencing a deleted session is cleared.
func (s *WorkspaceService) Hydrate(ctx context.Context) error {
	if s.hydrated {
		return nil
	}
	sessions, err := s.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: list sessions: %v", apperrors.ErrPersistence, err)
	}
	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].CreatedAt < sessions[j].CreatedAt })
	s.ws = domain.NewWorkspace()
	for i := range sessions {
		session := sessions[i].Clone()
		s.ws.Add(&session)
	}

	activities, err := s.catalog.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load activity catalog: %v", apperrors.ErrPersistence, err)
	}
	if err := domain.ValidateCatalog(activities); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrMalformedData, err)
	}
	s.activities = activities

	current, err := s.state.LoadCurrent(ctx)
	if err != nil {
		return fmt.Errorf("%w: load workspace state: %v", apperrors.ErrPersistence, err)
	}
	if _, ok := s.ws.Get(current); ok {
		s.ws.CurrentID = current
	}
	s.hydrated = true
	return nil
}

func (s *WorkspaceService) ensureHydrated(ctx context.Context) error {
	if s.hydrated {
		return nil
	}
	return s.Hydrate(ctx)
}

func (s *WorkspaceService) CreateSession(ctx context.Context, name string) (domain.Session, error) {
	if err := s.ensureHydrated(ctx); err != nil {
		return domain.Session{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Session{}, fmt.Errorf("%w: session name must not be empty", apperrors.ErrInvalidInput)
	}
	nowMS := clock.NowMillis(s.clock)
	session := domain.Session{
		ID:        s.idGen.New(),
		Name:      name,
		CreatedAt: nowMS,
		UpdatedAt: nowMS,
		Events:    []domain.ActivityEvent{},
		Status:    domain.StatusDraft,
	}
	prevCurrent := s.ws.CurrentID
	s.ws.Add(&session)
	s.ws.CurrentID = session.ID
	if err := s.store.Put(ctx, session.Clone()); err != nil {
		s.ws.Remove(session.ID)
		s.ws.CurrentID = prevCurrent
		return domain.Session{}, fmt.Errorf("%w: put session %s: %v", apperrors.ErrPersistence, session.ID, err)
	}
	if err := s.saveCurrent(ctx); err != nil {
		return domain.Session{}, err
	}
	return session.Clone(), nil
}

func (s *WorkspaceService) LoadSession(ctx context.Context, sessionID string) (domain.Session, error) {
	if err := s.ensureHydrated(ctx); err != nil {
		return domain.Session{}, err
	}
	target, ok := s.ws.Get(sessionID)
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
	}
	s.ws.CurrentID = sessionID
	if err := s.saveCurrent(ctx); err != nil {
		return domain.Session{}, err
	}
	return target.Clone(), nil
}

func (s *WorkspaceService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.ensureHydrated(ctx); err != nil {
		return err
	}
	position := s.ws.Position(sessionID)
	prevCurrent := s.ws.CurrentID
	removed, ok := s.ws.Remove(sessionID)
	if !ok {
		return fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.ws.Restore(removed, position, prevCurrent)
		return fmt.Errorf("%w: delete session %s: %v", apperrors.ErrPersistence, sessionID, err)
	}
	if s.ws.CurrentID != prevCurrent {
		if err := s.saveCurrent(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *WorkspaceService) SetNotes(ctx context.Context, sessionID, notes string) (domain.Session, error) {
	return s.mutateSession(ctx, sessionID, func(session *domain.Session) error {
		session.Notes = notes
		session.Touch(clock.NowMillis(s.clock))
		return nil
	})
}

func (s *WorkspaceService) SetVideo(ctx context.Context, sessionID, videoRef string) (domain.Session, error) {
	return s.mutateSession(ctx, sessionID, func(session *domain.Session) error {
		session.VideoRef = videoRef
		session.Touch(clock.NowMillis(s.clock))
		return nil
	})
}

func (s *WorkspaceService) SetStatus(ctx context.Context, sessionID string, status domain.Status) (domain.Session, error) {
	if err := status.Validate(); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return s.mutateSession(ctx, sessionID, func(session *domain.Session) error {
		session.Status = status
		session.Touch(clock.NowMillis(s.clock))
		return nil
	})
}

// LogEvent closes any open event in the session and appends a fresh open
// event for the given activity, as a single persisted step. When the caller
// supplies no closing duration (a dangling open event left behind by a
// tracking reset) the duration falls back to wall-clock time since the
// event's own timestamp.
func (s *WorkspaceService) LogEvent(ctx context.Context, sessionID, activityID string, closeDurationMS *int64) (closed *domain.ActivityEvent, opened domain.ActivityEvent, err error) {
	if err := s.ensureHydrated(ctx); err != nil {
		return nil, domain.ActivityEvent{}, err
	}
	sessionID, err = s.resolveSession(sessionID)
	if err != nil {
		return nil, domain.ActivityEvent{}, err
	}
	activity, err := s.FindActivity(ctx, activityID)
	if err != nil {
		return nil, domain.ActivityEvent{}, err
	}
	nowMS := clock.NowMillis(s.clock)
	_, err = s.mutateSession(ctx, sessionID, func(session *domain.Session) error {
		if open := session.OpenEvent(); open != nil {
			duration := nowMS - open.Timestamp
			if closeDurationMS != nil {
				duration = *closeDurationMS
			}
			event, _ := session.CloseOpenEvent(duration, nowMS)
			closed = &event
		}
		opened = domain.ActivityEvent{
			ID:           s.idGen.New(),
			SessionID:    session.ID,
			ActivityID:   activity.ID,
			ActivityName: activity.Name,
			Timestamp:    nowMS,
		}
		return session.AppendOpenEvent(opened, nowMS)
	})
	if err != nil {
		return nil, domain.ActivityEvent{}, err
	}
	return closed, opened, nil
}

// CloseOpenEvent assigns a duration to the session's open event. It is a
// no-op when nothing is open, so stopping twice is safe.
func (s *WorkspaceService) CloseOpenEvent(ctx context.Context, sessionID string, durationMS int64) (*domain.ActivityEvent, error) {
	if err := s.ensureHydrated(ctx); err != nil {
		return nil, err
	}
	sessionID, err := s.resolveSession(sessionID)
	if err != nil {
		return nil, err
	}
	target, ok := s.ws.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
	}
	if target.OpenEvent() == nil {
		return nil, nil
	}
	var closed *domain.ActivityEvent
	_, err = s.mutateSession(ctx, sessionID, func(session *domain.Session) error {
		event, _ := session.CloseOpenEvent(durationMS, clock.NowMillis(s.clock))
		closed = &event
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

func (s *WorkspaceService) Export(ctx context.Context, sessionID string) ([]byte, error) {
	if err := s.ensureHydrated(ctx); err != nil {
		return nil, err
	}
	sessionID, err := s.resolveSession(sessionID)
	if err != nil {
		return nil, err
	}
	target, ok := s.ws.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
	}
	return domain.EncodeSnapshot(target.Clone(), s.clock.Now())
}

// Import parses an export snapshot and inserts it as a new session. The
// imported session never reuses the snapshot's id; events are restamped to
// the fresh id so the ownership invariant holds.
func (s *WorkspaceService) Import(ctx context.Context, data []byte) (domain.Session, error) {
	if err := s.ensureHydrated(ctx); err != nil {
		return domain.Session{}, err
	}
	parsed, err := domain.DecodeSnapshot(data)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedData, err)
	}
	nowMS := clock.NowMillis(s.clock)
	imported := parsed.Clone()
	imported.ID = s.idGen.New()
	imported.Name = strings.TrimSpace(parsed.Name) + " (imported)"
	imported.CreatedAt = nowMS
	imported.UpdatedAt = nowMS
	if imported.Status == "" {
		imported.Status = domain.StatusDraft
	}
	for i := range imported.Events {
		imported.Events[i].SessionID = imported.ID
	}
	if err := imported.Validate(); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedData, err)
	}
	s.ws.Add(&imported)
	if err := s.store.Put(ctx, imported.Clone()); err != nil {
		s.ws.Remove(imported.ID)
		return domain.Session{}, fmt.Errorf("%w: put session %s: %v", apperrors.ErrPersistence, imported.ID, err)
	}
	return imported.Clone(), nil
}

func (s *WorkspaceService) WriteNote(ctx context.Context, sessionID string) (string, error) {
	if err := s.ensureHydrated(ctx); err != nil {
		return "", err
	}
	sessionID, err := s.resolveSession(sessionID)
	if err != nil {
		return "", err
	}
	target, ok := s.ws.Get(sessionID)
	if !ok {
		return "", fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
	}
	path, err := s.notes.WriteNote(ctx, target.Clone())
	if err != nil {
		return "", fmt.Errorf("%w: write note for %s: %v", apperrors.ErrPersistence, sessionID, err)
	}
	return path, nil
}

func (s *WorkspaceService) Activities(ctx context.Context) ([]domain.Activity, error) {
	if err := s.ensureHydrated(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.Activity, len(s.activities))
	copy(out, s.activities)
	return out, nil
}

func (s *WorkspaceService) FindActivity(ctx context.Context, activityID string) (domain.Activity, error) {
	if err := s.ensureHydrated(ctx); err != nil {
		return domain.Activity{}, err
	}
	for _, activity := range s.activities {
		if activity.ID == activityID {
			return activity, nil
		}
	}
	return domain.Activity{}, fmt.Errorf("%w: activity %s", apperrors.ErrNotFound, activityID)
}

func (s *WorkspaceService) AddActivity(ctx context.Context, activity domain.Activity) (domain.Activity, error) {
	if err := s.ensureHydrated(ctx); err != nil {
		return domain.Activity{}, err
	}
	if err := activity.Validate(); err != nil {
		return domain.Activity{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	for _, existing := range s.activities {
		if existing.ID == activity.ID {
			return domain.Activity{}, fmt.Errorf("%w: duplicate activity id %s", apperrors.ErrInvalidInput, activity.ID)
		}
	}
	s.activities = append(s.activities, activity)
	if err := s.catalog.Save(ctx, s.activities); err != nil {
		s.activities = s.activities[:len(s.activities)-1]
		return domain.Activity{}, fmt.Errorf("%w: save activity catalog: %v", apperrors.ErrPersistence, err)
	}
	return activity, nil
}

func (s *WorkspaceService) Sessions(ctx context.Context) ([]domain.Session, error) {
	if err := s.ensureHydrated(ctx); err != nil {
		return nil, err
	}
	sessions := s.ws.Sessions()
	out := make([]domain.Session, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, session.Clone())
	}
	return out, nil
}

func (s *WorkspaceService) Session(ctx context.Context, sessionID string) (domain.Session, error) {
	if err := s.ensureHydrated(ctx); err != nil {
		return domain.Session{}, err
	}
	target, ok := s.ws.Get(sessionID)
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
	}
	return target.Clone(), nil
}

func (s *WorkspaceService) CurrentSession(ctx context.Context) (domain.Session, error) {
	if err := s.ensureHydrated(ctx); err != nil {
		return domain.Session{}, err
	}
	current := s.ws.Current()
	if current == nil {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	return current.Clone(), nil
}

func (s *WorkspaceService) CurrentID(ctx context.Context) (string, error) {
	if err := s.ensureHydrated(ctx); err != nil {
		return "", err
	}
	return s.ws.CurrentID, nil
}

func (s *WorkspaceService) resolveSession(sessionID string) (string, error) {
	if sessionID != "" {
		return sessionID, nil
	}
	if s.ws.CurrentID == "" {
		return "", apperrors.ErrNoActiveSession
	}
	return s.ws.CurrentID, nil
}

// mutateSession clones the target before applying the mutation, persists the
// result, and restores the clone when either step fails.
func (s *WorkspaceService) mutateSession(ctx context.Context, sessionID string, mutate func(*domain.Session) error) (domain.Session, error) {
	target, ok := s.ws.Get(sessionID)
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
	}
	backup := target.Clone()
	if err := mutate(target); err != nil {
		*target = backup
		return domain.Session{}, err
	}
	if err := s.store.Put(ctx, target.Clone()); err != nil {
		*target = backup
		return domain.Session{}, fmt.Errorf("%w: put session %s: %v", apperrors.ErrPersistence, sessionID, err)
	}
	return target.Clone(), nil
}

// saveCurrent persists the selection. The selection file is re-derivable, so
// a failure here surfaces without undoing the primary mutation.
func (s *WorkspaceService) saveCurrent(ctx context.Context) error {
	if err := s.state.SaveCurrent(ctx, s.ws.CurrentID); err != nil {
		return fmt.Errorf("%w: save workspace state: %v", apperrors.ErrPersistence, err)
	}
	return nil
}
