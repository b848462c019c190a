package in

import (
	"context"

	"actograph/internal/modules/report/dto"
)

type Usecase interface {
	Summary(ctx context.Context, sessionID string) (dto.SummaryOutput, error)
	Timeline(ctx context.Context, sessionID string, bucketMS int64) (dto.TimelineOutput, error)
}
