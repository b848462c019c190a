package usecase

import (
	"context"

	"actograph/internal/modules/report/domain"
	"actograph/internal/modules/report/dto"
	reportin "actograph/internal/modules/report/port/in"
	"actograph/internal/modules/report/service"
	workspacedto "actograph/internal/modules/workspace/dto"
	workspacein "actograph/internal/modules/workspace/port/in"
)

// Interactor feeds the report service with read-only snapshots from the
// workspace. An empty session id targets the current session.
type Interactor struct {
	svc       *service.ReportService
	workspace workspacein.Usecase
}

func NewInteractor(svc *service.ReportService, workspace workspacein.Usecase) reportin.Usecase {
	return &Interactor{svc: svc, workspace: workspace}
}

func (i *Interactor) Summary(ctx context.Context, sessionID string) (dto.SummaryOutput, error) {
	session, events, activities, err := i.snapshot(ctx, sessionID)
	if err != nil {
		return dto.SummaryOutput{}, err
	}
	out := i.svc.Summarize(events, activities)
	out.SessionID = session.ID
	out.SessionName = session.Name
	return out, nil
}

func (i *Interactor) Timeline(ctx context.Context, sessionID string, bucketMS int64) (dto.TimelineOutput, error) {
	session, events, activities, err := i.snapshot(ctx, sessionID)
	if err != nil {
		return dto.TimelineOutput{}, err
	}
	if bucketMS <= 0 {
		bucketMS = domain.DefaultBucketMS
	}
	return dto.TimelineOutput{
		SessionID:   session.ID,
		SessionName: session.Name,
		BucketMS:    bucketMS,
		Buckets:     i.svc.Timeline(events, activities, bucketMS),
	}, nil
}

func (i *Interactor) snapshot(ctx context.Context, sessionID string) (workspacedto.SessionDetailOutput, []domain.Event, []domain.Activity, error) {
	var session workspacedto.SessionDetailOutput
	var err error
	if sessionID == "" {
		session, err = i.workspace.Current(ctx)
	} else {
		session, err = i.workspace.Get(ctx, sessionID)
	}
	if err != nil {
		return workspacedto.SessionDetailOutput{}, nil, nil, err
	}
	catalog, err := i.workspace.ListActivities(ctx)
	if err != nil {
		return workspacedto.SessionDetailOutput{}, nil, nil, err
	}

	events := make([]domain.Event, 0, len(session.Events))
	for _, event := range session.Events {
		e := domain.Event{
			ActivityID:   event.ActivityID,
			ActivityName: event.ActivityName,
			TimestampMS:  event.TimestampMS,
		}
		if event.DurationMS != nil {
			d := *event.DurationMS
			e.DurationMS = &d
		}
		events = append(events, e)
	}
	activities := make([]domain.Activity, 0, len(catalog))
	for _, activity := range catalog {
		activities = append(activities, domain.Activity{ID: activity.ID, Name: activity.Name, ColorTag: activity.ColorTag})
	}
	return session, events, activities, nil
}
