package service

import (
	"context"
	"errors"
	"fmt"

	"actograph/internal/modules/tracker/domain"
	"actograph/internal/modules/tracker/dto"
	trackerout "actograph/internal/modules/tracker/port/out"
	workspacedto "actograph/internal/modules/workspace/dto"
	workspacein "actograph/internal/modules/workspace/port/in"
	"actograph/internal/platform/clock"
	apperrors "actograph/internal/platform/errors"
)

// TrackerService drives the Idle/Logging state machine. The workspace owns
// the event log; the tracker owns the stopwatch and the binding to the open
// event, and hands the workspace a duration whenever an event closes.
type TrackerService struct {
	clock     clock.Clock
	workspace workspacein.Usecase
	store     trackerout.StateStore
}

func NewTrackerService(clk clock.Clock, workspace workspacein.Usecase, store trackerout.StateStore) *TrackerService {
	return &TrackerService{clock: clk, workspace: workspace, store: store}
}

// LogActivity switches the current session to a new activity: the open event
// (if any) closes with the stopwatch reading, a fresh open event starts, and
// the stopwatch restarts from zero.
func (s *TrackerService) LogActivity(ctx context.Context, activityID string) (dto.LogOutput, error) {
	state, err := s.load(ctx)
	if err != nil {
		return dto.LogOutput{}, err
	}
	current, err := s.workspace.Current(ctx)
	if err != nil {
		return dto.LogOutput{}, err
	}
	if state.SessionID != current.ID {
		// Selection moved since the last tracking op; the stale logbook
		// does not carry over.
		state.ResetFor(current.ID)
	}
	nowMS := clock.NowMillis(s.clock)
	var closeDuration *int64
	if state.Logging() {
		d := state.Stopwatch.ElapsedAt(nowMS)
		closeDuration = &d
	}
	logged, err := s.workspace.LogEvent(ctx, workspacedto.LogEventInput{
		SessionID:       current.ID,
		ActivityID:      activityID,
		CloseDurationMS: closeDuration,
	})
	if err != nil {
		return dto.LogOutput{}, err
	}
	state.BeginLogging(current.ID, logged.Opened.ID, logged.Opened.ActivityID, logged.Opened.ActivityName, nowMS)
	if err := s.save(ctx, state); err != nil {
		return dto.LogOutput{}, err
	}
	out := dto.LogOutput{SessionID: current.ID, Opened: eventRef(logged.Opened)}
	if logged.Closed != nil {
		closed := eventRef(*logged.Closed)
		out.Closed = &closed
	}
	return out, nil
}

// Stop closes the open event with the stopwatch reading and pauses. Stopping
// while Idle changes nothing. A logbook bound to a session that is no longer
// current is stale: switching sessions closes no events, so the stale open
// event stays open and the tracker rebinds idle instead of closing anything.
func (s *TrackerService) Stop(ctx context.Context) (dto.StopOutput, error) {
	state, err := s.load(ctx)
	if err != nil {
		return dto.StopOutput{}, err
	}
	if !state.Logging() {
		return dto.StopOutput{SessionID: state.SessionID}, nil
	}
	current, err := s.workspace.Current(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoActiveSession) {
			// The tracked session is gone; drop the dangling logbook.
			if err := s.clear(ctx); err != nil {
				return dto.StopOutput{}, err
			}
			return dto.StopOutput{}, nil
		}
		return dto.StopOutput{}, err
	}
	if state.SessionID != current.ID {
		state.ResetFor(current.ID)
		if err := s.save(ctx, state); err != nil {
			return dto.StopOutput{}, err
		}
		return dto.StopOutput{SessionID: current.ID}, nil
	}
	nowMS := clock.NowMillis(s.clock)
	closed, err := s.workspace.CloseOpenEvent(ctx, workspacedto.CloseEventInput{
		SessionID:  state.SessionID,
		DurationMS: state.Stopwatch.ElapsedAt(nowMS),
	})
	if err != nil {
		return dto.StopOutput{}, err
	}
	state.EndLogging(nowMS)
	if err := s.save(ctx, state); err != nil {
		return dto.StopOutput{}, err
	}
	out := dto.StopOutput{SessionID: state.SessionID, Stopped: true}
	if closed.Closed != nil {
		ref := eventRef(*closed.Closed)
		out.Closed = &ref
	}
	return out, nil
}

// Reset forces Idle and zeroes the stopwatch. An event left open by this is
// kept in its session's log as unfinished; it is never silently dropped.
func (s *TrackerService) Reset(ctx context.Context) error {
	state, err := s.load(ctx)
	if err != nil {
		return err
	}
	if state.SessionID == "" {
		return s.clear(ctx)
	}
	state.ResetFor(state.SessionID)
	return s.save(ctx, state)
}

// Status reads the tracker without mutating it. A binding left behind by a
// session switch reads as idle on the current selection; the next mutating
// op persists that normalization.
func (s *TrackerService) Status(ctx context.Context) (dto.StatusOutput, error) {
	state, err := s.load(ctx)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	currentID, currentName := "", ""
	current, err := s.workspace.Current(ctx)
	switch {
	case err == nil:
		currentID, currentName = current.ID, current.Name
	case errors.Is(err, apperrors.ErrNoActiveSession):
	default:
		return dto.StatusOutput{}, err
	}
	if state.SessionID != currentID {
		state = domain.NewTrackingState()
		state.ResetFor(currentID)
	}
	return dto.StatusOutput{
		Mode:         string(state.Mode),
		SessionID:    state.SessionID,
		SessionName:  currentName,
		OpenEventID:  state.OpenEventID,
		ActivityID:   state.ActivityID,
		ActivityName: state.ActivityName,
		ElapsedMS:    state.Stopwatch.ElapsedAt(clock.NowMillis(s.clock)),
		Running:      state.Stopwatch.Running,
	}, nil
}

// Switch selects another session and resets the tracker to Idle. The
// previous session's open event, if any, stays open until that session is
// revisited and explicitly stopped.
func (s *TrackerService) Switch(ctx context.Context, sessionID string) (dto.StatusOutput, error) {
	loaded, err := s.workspace.Load(ctx, sessionID)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	state := domain.NewTrackingState()
	state.ResetFor(loaded.ID)
	if err := s.save(ctx, state); err != nil {
		return dto.StatusOutput{}, err
	}
	return dto.StatusOutput{
		Mode:        string(state.Mode),
		SessionID:   loaded.ID,
		SessionName: loaded.Name,
	}, nil
}

func (s *TrackerService) load(ctx context.Context) (domain.TrackingState, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return domain.TrackingState{}, fmt.Errorf("%w: load tracking state: %v", apperrors.ErrPersistence, err)
	}
	if state.Mode == "" {
		state = domain.NewTrackingState()
	}
	if err := state.Validate(); err != nil {
		return domain.TrackingState{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedData, err)
	}
	return state, nil
}

func (s *TrackerService) save(ctx context.Context, state domain.TrackingState) error {
	if err := s.store.Save(ctx, state); err != nil {
		return fmt.Errorf("%w: save tracking state: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

func (s *TrackerService) clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("%w: clear tracking state: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

func eventRef(event workspacedto.EventOutput) dto.EventRef {
	ref := dto.EventRef{
		ID:           event.ID,
		ActivityID:   event.ActivityID,
		ActivityName: event.ActivityName,
		TimestampMS:  event.TimestampMS,
	}
	if event.DurationMS != nil {
		d := *event.DurationMS
		ref.DurationMS = &d
	}
	return ref
}
