package usecase

import (
	"context"

	"actograph/internal/modules/tracker/dto"
	trackerin "actograph/internal/modules/tracker/port/in"
	"actograph/internal/modules/tracker/service"
)

type Interactor struct {
	svc *service.TrackerService
}

func NewInteractor(svc *service.TrackerService) trackerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) LogActivity(ctx context.Context, activityID string) (dto.LogOutput, error) {
	return i.svc.LogActivity(ctx, activityID)
}

func (i *Interactor) Stop(ctx context.Context) (dto.StopOutput, error) {
	return i.svc.Stop(ctx)
}

func (i *Interactor) Reset(ctx context.Context) error {
	return i.svc.Reset(ctx)
}

func (i *Interactor) Status(ctx context.Context) (dto.StatusOutput, error) {
	return i.svc.Status(ctx)
}

func (i *Interactor) Switch(ctx context.Context, sessionID string) (dto.StatusOutput, error) {
	return i.svc.Switch(ctx, sessionID)
}
