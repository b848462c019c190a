package in

import (
	"context"

	"actograph/internal/modules/tracker/dto"
)

type Usecase interface {
	LogActivity(ctx context.Context, activityID string) (dto.LogOutput, error)
	Stop(ctx context.Context) (dto.StopOutput, error)
	Reset(ctx context.Context) error
	Status(ctx context.Context) (dto.StatusOutput, error)
	Switch(ctx context.Context, sessionID string) (dto.StatusOutput, error)
}
