package in

import (
	"context"

	"actograph/internal/modules/tracker/dto"
	trackerin "actograph/internal/modules/tracker/port/in"
)

type CLIHandler struct {
	usecase trackerin.Usecase
}

func NewCLIHandler(usecase trackerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) LogActivity(ctx context.Context, activityID string) (dto.LogOutput, error) {
	return h.usecase.LogActivity(ctx, activityID)
}

func (h CLIHandler) Stop(ctx context.Context) (dto.StopOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) error {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Switch(ctx context.Context, sessionID string) (dto.StatusOutput, error) {
	return h.usecase.Switch(ctx, sessionID)
}
