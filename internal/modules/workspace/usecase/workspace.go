package usecase

import (
	"context"

	"actograph/internal/modules/workspace/domain"
	"actograph/internal/modules/workspace/dto"
	workspacein "actograph/internal/modules/workspace/port/in"
	"actograph/internal/modules/workspace/service"
	"actograph/internal/platform/slug"
)

type Interactor struct {
	svc *service.WorkspaceService
}

func NewInteractor(svc *service.WorkspaceService) workspacein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateSessionInput) (dto.SessionOutput, error) {
	session, err := i.svc.CreateSession(ctx, input.Name)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return i.sessionOutput(ctx, session), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.SessionOutput, error) {
	sessions, err := i.svc.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionOutput, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, i.sessionOutput(ctx, session))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, sessionID string) (dto.SessionDetailOutput, error) {
	session, err := i.svc.Session(ctx, sessionID)
	if err != nil {
		return dto.SessionDetailOutput{}, err
	}
	return i.detailOutput(ctx, session), nil
}

func (i *Interactor) Current(ctx context.Context) (dto.SessionDetailOutput, error) {
	session, err := i.svc.CurrentSession(ctx)
	if err != nil {
		return dto.SessionDetailOutput{}, err
	}
	return i.detailOutput(ctx, session), nil
}

func (i *Interactor) Load(ctx context.Context, sessionID string) (dto.SessionOutput, error) {
	session, err := i.svc.LoadSession(ctx, sessionID)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return i.sessionOutput(ctx, session), nil
}

func (i *Interactor) Delete(ctx context.Context, sessionID string) error {
	return i.svc.DeleteSession(ctx, sessionID)
}

func (i *Interactor) SetNotes(ctx context.Context, input dto.SetNotesInput) (dto.SessionOutput, error) {
	session, err := i.svc.SetNotes(ctx, input.SessionID, input.Notes)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return i.sessionOutput(ctx, session), nil
}

func (i *Interactor) SetVideo(ctx context.Context, input dto.SetVideoInput) (dto.SessionOutput, error) {
	session, err := i.svc.SetVideo(ctx, input.SessionID, input.VideoRef)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return i.sessionOutput(ctx, session), nil
}

func (i *Interactor) SetStatus(ctx context.Context, input dto.SetStatusInput) (dto.SessionOutput, error) {
	session, err := i.svc.SetStatus(ctx, input.SessionID, domain.Status(input.Status))
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return i.sessionOutput(ctx, session), nil
}

func (i *Interactor) Export(ctx context.Context, sessionID string) ([]byte, error) {
	return i.svc.Export(ctx, sessionID)
}

func (i *Interactor) Import(ctx context.Context, data []byte) (dto.SessionOutput, error) {
	session, err := i.svc.Import(ctx, data)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return i.sessionOutput(ctx, session), nil
}

func (i *Interactor) WriteNote(ctx context.Context, sessionID string) (string, error) {
	return i.svc.WriteNote(ctx, sessionID)
}

func (i *Interactor) ListActivities(ctx context.Context) ([]dto.ActivityOutput, error) {
	activities, err := i.svc.Activities(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityOutput, 0, len(activities))
	for _, activity := range activities {
		out = append(out, activityOutput(activity))
	}
	return out, nil
}

func (i *Interactor) AddActivity(ctx context.Context, input dto.AddActivityInput) (dto.ActivityOutput, error) {
	activityID := input.ID
	if activityID == "" {
		activityID = slug.Make(input.Name)
	}
	activity, err := i.svc.AddActivity(ctx, domain.Activity{
		ID:          activityID,
		Name:        input.Name,
		ColorTag:    input.ColorTag,
		Description: input.Description,
	})
	if err != nil {
		return dto.ActivityOutput{}, err
	}
	return activityOutput(activity), nil
}

func (i *Interactor) LogEvent(ctx context.Context, input dto.LogEventInput) (dto.LogEventOutput, error) {
	closed, opened, err := i.svc.LogEvent(ctx, input.SessionID, input.ActivityID, input.CloseDurationMS)
	if err != nil {
		return dto.LogEventOutput{}, err
	}
	out := dto.LogEventOutput{Opened: eventOutput(opened)}
	if closed != nil {
		c := eventOutput(*closed)
		out.Closed = &c
	}
	return out, nil
}

func (i *Interactor) CloseOpenEvent(ctx context.Context, input dto.CloseEventInput) (dto.CloseEventOutput, error) {
	closed, err := i.svc.CloseOpenEvent(ctx, input.SessionID, input.DurationMS)
	if err != nil {
		return dto.CloseEventOutput{}, err
	}
	out := dto.CloseEventOutput{}
	if closed != nil {
		c := eventOutput(*closed)
		out.Closed = &c
	}
	return out, nil
}

func (i *Interactor) sessionOutput(ctx context.Context, session domain.Session) dto.SessionOutput {
	currentID, _ := i.svc.CurrentID(ctx)
	return dto.SessionOutput{
		ID:              session.ID,
		Name:            session.Name,
		CreatedAt:       session.CreatedAt,
		UpdatedAt:       session.UpdatedAt,
		Status:          string(session.Status),
		EventCount:      len(session.Events),
		TotalDurationMS: session.TotalDuration(),
		HasOpenEvent:    session.OpenEvent() != nil,
		VideoRef:        session.VideoRef,
		Notes:           session.Notes,
		Current:         session.ID == currentID,
	}
}

func (i *Interactor) detailOutput(ctx context.Context, session domain.Session) dto.SessionDetailOutput {
	events := make([]dto.EventOutput, 0, len(session.Events))
	for _, event := range session.Events {
		events = append(events, eventOutput(event))
	}
	return dto.SessionDetailOutput{
		SessionOutput: i.sessionOutput(ctx, session),
		Events:        events,
	}
}

func eventOutput(event domain.ActivityEvent) dto.EventOutput {
	out := dto.EventOutput{
		ID:           event.ID,
		SessionID:    event.SessionID,
		ActivityID:   event.ActivityID,
		ActivityName: event.ActivityName,
		TimestampMS:  event.Timestamp,
	}
	if event.Duration != nil {
		d := *event.Duration
		out.DurationMS = &d
	}
	return out
}

func activityOutput(activity domain.Activity) dto.ActivityOutput {
	return dto.ActivityOutput{
		ID:          activity.ID,
		Name:        activity.Name,
		ColorTag:    activity.ColorTag,
		Description: activity.Description,
	}
}
